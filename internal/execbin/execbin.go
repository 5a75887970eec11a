// Package execbin spawns external binaries after resolving them through the
// search path and wrapper-resolution layers, capturing their output.
package execbin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/conn-castle/shimbin/internal/messages"
	"github.com/conn-castle/shimbin/internal/paths"
	"github.com/conn-castle/shimbin/internal/resolve"
	"github.com/conn-castle/shimbin/internal/root"
)

// Stubbable for tests.
var (
	execCommandContext = exec.CommandContext
	osStat             = os.Stat
	osGetwd            = os.Getwd
)

// Options customizes how a binary is spawned.
type Options struct {
	// Dir is the working directory for the process; empty means inherit.
	Dir string
	// Env replaces the process environment when non-nil.
	Env []string
}

// Result captures the output of a completed process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// NotFoundError reports that a binary could not be located.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(messages.ExecBinNotFoundFmt, e.Name)
}

// ExitError reports a located binary that exited non-zero, carrying the
// captured output.
type ExitError struct {
	Name   string
	Result Result
}

func (e *ExitError) Error() string {
	return fmt.Sprintf(messages.ExecBinExitFmt, e.Name, e.Result.ExitCode)
}

// Executor runs binaries through a shared resolver instance.
type Executor struct {
	resolver *resolve.Resolver
	stat     func(string) (bool, error)
}

// New returns an Executor; a nil resolver uses one backed by the real OS.
func New(resolver *resolve.Resolver) *Executor {
	if resolver == nil {
		resolver = resolve.New(nil)
	}
	return &Executor{resolver: resolver, stat: statRegularFile}
}

// Exec resolves name, spawns it with args, and captures its output. A nil
// args slice is treated as no arguments. A name that cannot be resolved to
// an existing file yields a *NotFoundError; a non-zero exit yields an
// *ExitError carrying the captured output alongside the Result.
func (e *Executor) Exec(ctx context.Context, name string, args []string, opts Options) (Result, error) {
	if name == "" {
		return Result{}, errors.New(messages.ExecBinNameRequired)
	}

	resolved := e.resolver.BinPath(name)
	if ok, _ := e.stat(resolved); !ok {
		shadow, found := e.shadowBin(name, opts.Dir)
		if !found {
			return Result{}, &NotFoundError{Name: name}
		}
		resolved = e.resolver.BinPath(shadow)
		if ok, _ := e.stat(resolved); !ok {
			return Result{}, &NotFoundError{Name: name}
		}
	}

	cmd := execCommandContext(ctx, filepath.FromSlash(resolved), args...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, &ExitError{Name: name, Result: result}
		}
		return result, fmt.Errorf(messages.ExecBinStartFmt, resolved, err)
	}
	return result, nil
}

// shadowBin falls back to the nearest ancestor node_modules/.bin entry for a
// bare name PATH could not place. The walk is skipped for explicit paths and
// when the start directory is itself inside a dependency tree, so a shadow
// shim never re-resolves to itself.
func (e *Executor) shadowBin(name string, dir string) (string, bool) {
	if strings.ContainsAny(name, `/\`) {
		return "", false
	}
	start := dir
	if start == "" {
		cwd, err := osGetwd()
		if err != nil {
			return "", false
		}
		start = cwd
	}
	if paths.IsInManagedTree(start) {
		return "", false
	}
	found, ok, err := root.FindShadowBin(start, name)
	if err != nil || !ok {
		return "", false
	}
	return found, true
}

// statRegularFile reports whether a resolver result names an existing
// regular file. Bare names the resolver could not place on the search path
// come back relative and fail this check.
func statRegularFile(resolved string) (bool, error) {
	if !paths.IsAbs(resolved) {
		return false, nil
	}
	info, err := osStat(filepath.FromSlash(resolved))
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
