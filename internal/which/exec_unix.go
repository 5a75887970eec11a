//go:build !windows

package which

import (
	"io/fs"
	"syscall"
)

// executableCandidates returns the file names to probe for one search-path
// entry. On Unix the name is probed as-is.
func executableCandidates(path string) []string {
	return []string{path}
}

// findExecutable reports nil when path names an executable regular file.
func findExecutable(path string) error {
	info, err := osStat(path)
	if err != nil {
		return err
	}
	mode := info.Mode()
	if mode.IsDir() {
		return syscall.EISDIR
	}
	if mode&0o111 != 0 {
		return nil
	}
	return fs.ErrPermission
}
