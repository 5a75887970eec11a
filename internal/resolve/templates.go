package resolve

import (
	"regexp"
	"strings"

	"github.com/conn-castle/shimbin/internal/paths"
)

// wrapperInfo carries one wrapper file's identity and content through
// template matching.
type wrapperInfo struct {
	// path is the normalized resolved path of the wrapper itself.
	path    string
	dir     string
	base    string
	content string
	goos    string
}

// wrapperTemplate is one recognized generated-wrapper grammar: a match
// predicate and an extractor producing the target the wrapper execs.
// Templates are evaluated in priority order; the first match wins.
type wrapperTemplate struct {
	name    string
	match   func(info wrapperInfo) bool
	extract func(info wrapperInfo) (string, bool)
}

var (
	// Bundled npm/npx entry scripts compute a CLI_BASEDIR from their own
	// location and exec lib/node_modules/npm/bin/{npm,npx}-cli.js.
	reNpmCliBasedir = regexp.MustCompile(`"\$(?:NPM_|NPX_)?CLI_BASEDIR/((?:[^"\n]+/)?np[mx]-cli\.js)"`)

	// cmd-shim style npm wrappers reference the CLI script through $basedir,
	// where basedir is re-derived at run time (some generator generations
	// derive it from the working directory rather than the script location).
	reNpmCliShim = regexp.MustCompile(`"\$basedir/((?:[^"\n]+/)?node_modules/npm/bin/np[mx]-cli\.js)"`)

	// Generic cmd-shim sh wrappers exec a target through "$basedir/<rel>".
	reBasedirTarget = regexp.MustCompile(`"\$basedir/([^"\n]+)"`)

	// Batch-file shims reference the target through %~dp0 (the script's own
	// directory, with a trailing backslash).
	reBatchTarget = regexp.MustCompile(`"%~dp0\\([^"\r\n]+)"`)

	// PowerShell shims mirror the sh form with a $basedir derived via
	// Split-Path.
	rePowershellTarget = regexp.MustCompile(`"\$basedir/([^"\n]+)"`)
)

// wrapperTemplates is the ordered grammar table. More specific forms come
// first; platform-gated forms match only on their platform.
var wrapperTemplates = []wrapperTemplate{
	{
		name: "npm-cli-bundled",
		match: func(info wrapperInfo) bool {
			return reNpmCliBasedir.MatchString(info.content)
		},
		extract: func(info wrapperInfo) (string, bool) {
			m := reNpmCliBasedir.FindStringSubmatch(info.content)
			if m == nil {
				return "", false
			}
			return paths.Join(info.dir, m[1]), true
		},
	},
	{
		name: "npm-cli-shim",
		match: func(info wrapperInfo) bool {
			return reNpmCliShim.MatchString(info.content)
		},
		extract: func(info wrapperInfo) (string, bool) {
			m := reNpmCliShim.FindStringSubmatch(info.content)
			if m == nil {
				return "", false
			}
			return paths.Join(info.dir, m[1]), true
		},
	},
	{
		name: "basedir-parent-relative",
		match: func(info wrapperInfo) bool {
			rel, ok := basedirRel(info.content)
			return ok && strings.HasPrefix(rel, "../")
		},
		extract: func(info wrapperInfo) (string, bool) {
			rel, ok := basedirRel(info.content)
			if !ok {
				return "", false
			}
			return paths.Join(info.dir, rel), true
		},
	},
	{
		// Some CI setup actions generate a .bin/<tool> sh wrapper whose
		// content points at .bin/<tool>/bin/<tool>.cjs, a path the wrapper's
		// own location contradicts. The path implied by the content wins.
		name: "ci-self-nested",
		match: func(info wrapperInfo) bool {
			if !paths.IsShadowBinPath(info.path) {
				return false
			}
			rel, ok := basedirRel(info.content)
			return ok && strings.HasPrefix(rel, info.base+"/")
		},
		extract: func(info wrapperInfo) (string, bool) {
			rel, ok := basedirRel(info.content)
			if !ok {
				return "", false
			}
			return paths.Join(info.dir, rel), true
		},
	},
	{
		name: "basedir-generic",
		match: func(info wrapperInfo) bool {
			_, ok := basedirRel(info.content)
			return ok
		},
		extract: func(info wrapperInfo) (string, bool) {
			rel, ok := basedirRel(info.content)
			if !ok {
				return "", false
			}
			return paths.Join(info.dir, rel), true
		},
	},
	{
		name: "batch-shim",
		match: func(info wrapperInfo) bool {
			return info.goos == "windows" && hasExt(info.base, ".cmd", ".bat") &&
				reBatchTarget.MatchString(info.content)
		},
		extract: func(info wrapperInfo) (string, bool) {
			m := reBatchTarget.FindStringSubmatch(info.content)
			if m == nil {
				return "", false
			}
			return paths.Join(info.dir, m[1]), true
		},
	},
	{
		name: "powershell-shim",
		match: func(info wrapperInfo) bool {
			return info.goos == "windows" && hasExt(info.base, ".ps1") &&
				rePowershellTarget.MatchString(info.content)
		},
		extract: func(info wrapperInfo) (string, bool) {
			m := rePowershellTarget.FindStringSubmatch(info.content)
			if m == nil {
				return "", false
			}
			return paths.Join(info.dir, m[1]), true
		},
	},
}

// basedirRel extracts the first "$basedir/<rel>" reference in content.
func basedirRel(content string) (string, bool) {
	m := reBasedirTarget.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func hasExt(base string, exts ...string) bool {
	lower := strings.ToLower(base)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// decodeWrapperContent runs the grammar table over one wrapper file and
// returns the target path it execs, if any template recognizes it.
func decodeWrapperContent(info wrapperInfo) (string, bool) {
	for _, tmpl := range wrapperTemplates {
		if !tmpl.match(info) {
			continue
		}
		if target, ok := tmpl.extract(info); ok {
			return target, true
		}
	}
	return "", false
}
