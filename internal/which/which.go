// Package which searches the executable search path for a named binary.
package which

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/shimbin/internal/messages"
	"github.com/conn-castle/shimbin/internal/paths"
)

// ErrNotFound reports that no match exists on the search path.
var ErrNotFound = errors.New(messages.WhichNotFound)

// Options controls search behavior. The zero value returns the first match
// and reports "no match" as an empty result rather than an error.
type Options struct {
	// All collects every match in search-path order instead of the first.
	All bool
	// Strict returns an ErrNotFound-wrapped error when nothing matches.
	Strict bool
}

var (
	getenv = os.Getenv
	osStat = os.Stat
)

// Which searches the executable search path for name and returns the
// matching absolute paths, forward-slash normalized. Without Options.All the
// result holds at most one entry.
func Which(name string, opts Options) ([]string, error) {
	return search(nil, name, opts)
}

// WhichContext behaves exactly like Which but honors ctx between directory
// probes, so long searches can be abandoned.
func WhichContext(ctx context.Context, name string, opts Options) ([]string, error) {
	return search(ctx, name, opts)
}

func search(ctx context.Context, name string, opts Options) ([]string, error) {
	if name == "" {
		return none(name, opts)
	}

	// Names carrying a separator are probed directly instead of searched.
	if strings.ContainsAny(name, `/\`) {
		abs, err := filepath.Abs(filepath.FromSlash(paths.Normalize(name)))
		if err != nil {
			return none(name, opts)
		}
		if findExecutable(abs) == nil {
			return []string{paths.Normalize(abs)}, nil
		}
		return none(name, opts)
	}

	var matches []string
	for _, dir := range filepath.SplitList(getenv("PATH")) {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if dir == "" {
			// Unix shell semantics: an empty path element means ".".
			dir = "."
		}
		for _, candidate := range executableCandidates(filepath.Join(dir, name)) {
			if findExecutable(candidate) != nil {
				continue
			}
			abs, err := filepath.Abs(candidate)
			if err != nil {
				continue
			}
			matches = append(matches, paths.Normalize(abs))
			break
		}
		if len(matches) > 0 && !opts.All {
			return matches, nil
		}
	}

	if len(matches) == 0 {
		return none(name, opts)
	}
	return matches, nil
}

// none renders the empty result per Options.Strict.
func none(name string, opts Options) ([]string, error) {
	if opts.Strict {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return nil, nil
}
