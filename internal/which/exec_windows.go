//go:build windows

package which

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// defaultPathExt mirrors the cmd.exe default when PATHEXT is unset.
const defaultPathExt = ".COM;.EXE;.BAT;.CMD"

// executableCandidates returns the file names to probe for one search-path
// entry. A name without an extension is expanded with each PATHEXT entry; a
// name that already carries one is probed as-is first.
func executableCandidates(path string) []string {
	exts := pathExtList()
	if ext := filepath.Ext(path); ext != "" {
		return append([]string{path}, withExts(path, exts)...)
	}
	return withExts(path, exts)
}

func withExts(path string, exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, path+ext)
	}
	return out
}

func pathExtList() []string {
	raw := getenv("PATHEXT")
	if raw == "" {
		raw = defaultPathExt
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		out = append(out, strings.ToLower(part))
	}
	return out
}

// findExecutable reports nil when path names a regular file; executability
// on Windows is carried by the extension, which executableCandidates already
// applied.
func findExecutable(path string) error {
	info, err := osStat(path)
	if err != nil {
		return err
	}
	if info.Mode().IsDir() {
		return fs.ErrInvalid
	}
	return nil
}
