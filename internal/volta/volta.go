// Package volta models the Volta version-manager directory layout: a bin/
// directory of dispatching shims, a tools/user area that pins runtime and
// tool versions, and a tools/image area that holds the installed binaries
// keyed by version.
package volta

import (
	"encoding/json"
	"strings"

	"github.com/conn-castle/shimbin/internal/paths"
)

// EnvHome names the environment variable pointing at the Volta home directory.
const EnvHome = "VOLTA_HOME"

// RuntimeName is the runtime interpreter whose shims are never re-targeted.
const RuntimeName = "node"

// Layout describes one Volta-style installation rooted at Home
// (forward-slash normalized).
type Layout struct {
	Home string
}

// DetectShim reports whether the normalized path is a shim inside a Volta
// bin directory, and returns the owning layout when it is.
func DetectShim(getenv func(string) string, path string) (Layout, bool) {
	norm := paths.Normalize(path)
	dir, _, ok := splitDir(norm)
	if !ok || !strings.HasSuffix(dir, "/bin") {
		return Layout{}, false
	}

	if home := paths.Normalize(getenv(EnvHome)); home != "" && dir == home+"/bin" {
		return Layout{Home: home}, true
	}

	// Conventional install under ~/.volta without the env var set.
	if idx := strings.Index(norm, "/.volta/bin/"); idx >= 0 {
		return Layout{Home: norm[:idx] + "/.volta"}, true
	}
	return Layout{}, false
}

// Platform is the pinned-runtime record from tools/user/platform.json.
type Platform struct {
	Node struct {
		Runtime string `json:"runtime"`
		NPM     string `json:"npm"`
	} `json:"node"`
}

// ToolRecord is the per-tool "which package provides this" record from
// tools/user/bin/<tool>.json.
type ToolRecord struct {
	Package string `json:"package"`
	Version string `json:"version"`
}

// PlatformPath returns the location of the pinned-runtime record.
func (l Layout) PlatformPath() string {
	return l.Home + "/tools/user/platform.json"
}

// ToolRecordPath returns the location of the per-tool record for name.
func (l Layout) ToolRecordPath(name string) string {
	return l.Home + "/tools/user/bin/" + name + ".json"
}

// ParsePlatform decodes a pinned-runtime record.
func ParsePlatform(data []byte) (Platform, error) {
	var p Platform
	if err := json.Unmarshal(data, &p); err != nil {
		return Platform{}, err
	}
	return p, nil
}

// ParseToolRecord decodes a per-tool record.
func ParseToolRecord(data []byte) (ToolRecord, error) {
	var r ToolRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return ToolRecord{}, err
	}
	return r, nil
}

// IsPackageManagerEntry reports whether name is the package manager's own
// CLI entry point.
func IsPackageManagerEntry(name string) bool {
	return name == "npm" || name == "npx"
}

// PackageManagerCandidates returns the candidate CLI script locations for
// the package manager entry name, most specific first: the copy installed as
// a dependency of the pinned runtime, then the standalone copy installed
// alongside the runtime's bundled package manager.
func (l Layout) PackageManagerCandidates(name string, p Platform) []string {
	var out []string
	if p.Node.Runtime != "" {
		out = append(out, l.Home+"/tools/image/node/"+p.Node.Runtime+"/lib/node_modules/npm/bin/"+name+"-cli.js")
	}
	if p.Node.NPM != "" {
		out = append(out, l.Home+"/tools/image/npm/"+p.Node.NPM+"/bin/"+name+"-cli.js")
	}
	return out
}

// ToolCandidates returns the candidate binary locations for a tool shim
// backed by record. On Windows the batch-file variant of the same name is
// also tried.
func (l Layout) ToolCandidates(record ToolRecord, name string, goos string) []string {
	pkg := record.Package
	if pkg == "" {
		return nil
	}
	if record.Version != "" {
		pkg = pkg + "@" + record.Version
	}
	base := l.Home + "/tools/image/packages/" + pkg + "/bin/" + name
	out := []string{base}
	if goos == "windows" {
		out = append(out, base+".cmd")
	}
	return out
}

// splitDir splits a normalized path into its parent directory and base name.
func splitDir(norm string) (dir string, base string, ok bool) {
	idx := strings.LastIndex(norm, "/")
	if idx <= 0 || idx == len(norm)-1 {
		return "", "", false
	}
	return norm[:idx], norm[idx+1:], true
}
