package resolve

import (
	"os"
	"path/filepath"
	"runtime"
)

// System abstracts the OS operations needed by wrapper resolution.
// The interface is package-local so tests can run in parallel without shared
// global state; other packages define their own System interfaces with the
// operations specific to their needs.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	EvalSymlinks(path string) (string, error)
	Getenv(key string) string
	GOOS() string
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// Stat returns file info for the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// EvalSymlinks returns the native real path after symlink evaluation.
func (RealSystem) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// GOOS returns the running operating system identifier.
func (RealSystem) GOOS() string {
	return runtime.GOOS
}
