// Package paths provides forward-slash path normalization and the
// package-manager path predicates used across resolution.
package paths

import (
	"path"
	"path/filepath"
	"strings"
)

// Normalize converts a path to forward-slash form with no repeated or
// trailing separators. A leading double separator (UNC-style network share)
// is preserved so the two-segment leading form stays recognizable. The empty
// string normalizes to itself.
func Normalize(path string) string {
	if path == "" {
		return ""
	}
	s := strings.ReplaceAll(path, "\\", "/")
	doubleLead := strings.HasPrefix(s, "//")
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	if doubleLead {
		s = "/" + s
	}
	if len(s) > 1 && strings.HasSuffix(s, "/") {
		trimmed := strings.TrimRight(s, "/")
		if trimmed == "" {
			trimmed = "/"
		}
		if doubleLead && trimmed == "/" {
			trimmed = "//"
		}
		s = trimmed
	}
	return s
}

// Join joins a normalized directory and a relative fragment, resolving "."
// and ".." segments lexically while preserving a UNC-style double lead.
func Join(dir string, rel string) string {
	base := Normalize(dir)
	doubleLead := strings.HasPrefix(base, "//")
	joined := path.Clean(base + "/" + Normalize(rel))
	if doubleLead && !strings.HasPrefix(joined, "//") {
		joined = "/" + joined
	}
	return joined
}

// IsAbs reports whether the normalized path is absolute. A drive-prefixed
// path ("C:/...") counts as absolute regardless of host platform.
func IsAbs(path string) bool {
	s := Normalize(path)
	if strings.HasPrefix(s, "/") {
		return true
	}
	if len(s) >= 2 && s[1] == ':' && isDriveLetter(s[0]) {
		return true
	}
	return filepath.IsAbs(path)
}

// IsShadowBinPath reports whether the path contains a "node_modules" segment
// immediately followed by a ".bin" segment. Matching is case-sensitive and
// independent of separator style.
func IsShadowBinPath(path string) bool {
	segs := segments(path)
	for i := 0; i+1 < len(segs); i++ {
		if segs[i] == "node_modules" && segs[i+1] == ".bin" {
			return true
		}
	}
	return false
}

// IsInManagedTree reports whether the path contains a "node_modules" segment
// anywhere. Callers use it to bypass shim logic inside installed dependency
// trees.
func IsInManagedTree(path string) bool {
	for _, seg := range segments(path) {
		if seg == "node_modules" {
			return true
		}
	}
	return false
}

// segments splits a path into its non-empty forward-slash segments,
// ignoring drive prefixes and any leading "." or "..".
func segments(path string) []string {
	s := Normalize(path)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
