// Package resolve decodes shell/batch/script wrappers, shim layers, and
// version-manager indirection down to the real on-disk binary.
package resolve

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/conn-castle/shimbin/internal/paths"
	"github.com/conn-castle/shimbin/internal/version"
	"github.com/conn-castle/shimbin/internal/volta"
	"github.com/conn-castle/shimbin/internal/which"
)

// maxWrapperBytes caps how much of a candidate wrapper is read. Generated
// wrappers are a few hundred bytes; anything bigger is not one.
const maxWrapperBytes = 1 << 20

// Resolver owns the per-instance memoization for wrapper resolution, so
// independent resolvers (and tests) never share global state.
type Resolver struct {
	sys       System
	whichFn   func(name string, opts which.Options) ([]string, error)
	platforms map[string]*volta.Platform
}

// New returns a Resolver backed by sys; a nil sys uses the real OS.
func New(sys System) *Resolver {
	if sys == nil {
		sys = RealSystem{}
	}
	return &Resolver{
		sys:       sys,
		whichFn:   which.Which,
		platforms: map[string]*volta.Platform{},
	}
}

// BinPath resolves path to the executable that actually runs when it is
// invoked. Resolution is best-effort and never fails for a simply-missing
// file: when a stage cannot improve the path, the best normalized guess so
// far is returned unchanged. The result is always forward-slash normalized.
func (r *Resolver) BinPath(path string) string {
	norm := paths.Normalize(path)
	if norm == "" {
		return norm
	}

	// Bare names go through the search path first; an unmatched name is
	// returned as-is and left for the eventual spawn to reject.
	if !paths.IsAbs(norm) {
		matches, err := r.whichFn(norm, which.Options{})
		if err != nil || len(matches) == 0 {
			return norm
		}
		norm = matches[0]
	}

	// Symlink resolution degrades to the normalized literal path on any
	// failure: not-found and not-a-directory are expected for shims whose
	// targets are gone, and the remaining error classes (permission denied
	// among them) are treated the same so that resolution stays total.
	resolved := norm
	if real, err := r.sys.EvalSymlinks(filepath.FromSlash(norm)); err == nil {
		resolved = paths.Normalize(real)
	}

	if retargeted, ok := r.retargetVersionManager(resolved); ok {
		resolved = retargeted
	}

	if target, ok := r.decodeWrapper(resolved); ok {
		resolved = target
	}

	return resolved
}

// retargetVersionManager maps a version-manager shim to the pinned binary it
// dispatches to. Missing or unreadable pin records leave the shim path
// unchanged.
func (r *Resolver) retargetVersionManager(resolved string) (string, bool) {
	layout, ok := volta.DetectShim(r.sys.Getenv, resolved)
	if !ok {
		return "", false
	}
	base := baseName(resolved)
	if base == volta.RuntimeName {
		return "", false
	}

	if volta.IsPackageManagerEntry(base) {
		platform, ok := r.pinnedPlatform(layout)
		if !ok {
			return "", false
		}
		for _, candidate := range layout.PackageManagerCandidates(base, *platform) {
			if r.exists(candidate) {
				return candidate, true
			}
		}
		return "", false
	}

	data, err := r.sys.ReadFile(filepath.FromSlash(layout.ToolRecordPath(base)))
	if err != nil {
		return "", false
	}
	record, err := volta.ParseToolRecord(data)
	if err != nil || record.Package == "" {
		return "", false
	}
	if v, err := version.Normalize(record.Version); err == nil {
		record.Version = v
	}
	for _, candidate := range layout.ToolCandidates(record, base, r.sys.GOOS()) {
		if r.exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// pinnedPlatform reads and memoizes the layout's pinned-runtime record.
// The miss is memoized too, so a broken install is probed once.
func (r *Resolver) pinnedPlatform(layout volta.Layout) (*volta.Platform, bool) {
	if cached, seen := r.platforms[layout.Home]; seen {
		return cached, cached != nil
	}
	data, err := r.sys.ReadFile(filepath.FromSlash(layout.PlatformPath()))
	if err != nil {
		r.platforms[layout.Home] = nil
		return nil, false
	}
	platform, err := volta.ParsePlatform(data)
	if err != nil {
		r.platforms[layout.Home] = nil
		return nil, false
	}
	// Pin records written by some manager versions carry a "v" prefix.
	if v, err := version.Normalize(platform.Node.Runtime); err == nil {
		platform.Node.Runtime = v
	}
	if v, err := version.Normalize(platform.Node.NPM); err == nil {
		platform.Node.NPM = v
	}
	r.platforms[layout.Home] = &platform
	return &platform, true
}

// decodeWrapper parses a generated wrapper script and returns the target it
// execs. Unreadable files, binaries, and unrecognized content report false.
func (r *Resolver) decodeWrapper(resolved string) (string, bool) {
	goos := r.sys.GOOS()
	base := baseName(resolved)

	windowsScript := hasExt(base, ".cmd", ".bat", ".ps1")
	if windowsScript && goos != "windows" {
		return "", false
	}

	info, err := r.sys.Stat(filepath.FromSlash(resolved))
	if err != nil || info.IsDir() || info.Size() > maxWrapperBytes {
		return "", false
	}

	data, err := r.sys.ReadFile(filepath.FromSlash(resolved))
	if err != nil {
		return "", false
	}
	if !windowsScript && looksBinary(data) {
		return "", false
	}

	return decodeWrapperContent(wrapperInfo{
		path:    resolved,
		dir:     dirName(resolved),
		base:    base,
		content: string(data),
		goos:    goos,
	})
}

// looksBinary reports whether data carries a recognized binary signature
// rather than script text.
func looksBinary(data []byte) bool {
	if len(data) >= 2 && data[0] == '#' && data[1] == '!' {
		return false
	}
	if len(data) >= 4 {
		switch {
		case bytes.HasPrefix(data, []byte{0x7f, 'E', 'L', 'F'}): // ELF
			return true
		case bytes.HasPrefix(data, []byte{'M', 'Z'}): // PE
			return true
		case bytes.HasPrefix(data, []byte{0xfe, 0xed, 0xfa, 0xce}),
			bytes.HasPrefix(data, []byte{0xfe, 0xed, 0xfa, 0xcf}),
			bytes.HasPrefix(data, []byte{0xcf, 0xfa, 0xed, 0xfe}),
			bytes.HasPrefix(data, []byte{0xca, 0xfe, 0xba, 0xbe}): // Mach-O
			return true
		}
	}
	probe := data
	if len(probe) > 512 {
		probe = probe[:512]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// exists reports whether the normalized path names an existing regular file.
func (r *Resolver) exists(norm string) bool {
	info, err := r.sys.Stat(filepath.FromSlash(norm))
	return err == nil && !info.IsDir()
}

func baseName(norm string) string {
	if idx := strings.LastIndex(norm, "/"); idx >= 0 {
		return norm[idx+1:]
	}
	return norm
}

func dirName(norm string) string {
	idx := strings.LastIndex(norm, "/")
	if idx < 0 {
		return "."
	}
	if idx == 0 {
		return "/"
	}
	return norm[:idx]
}
