package dlx

import "os"

// System abstracts OS lookups needed by the download cache. The interface is
// intentionally package-local so tests can run in parallel without shared
// global state; file operations go through stubbable function vars instead.
type System interface {
	UserCacheDir() (string, error)
	Getenv(key string) string
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// UserCacheDir returns the default user cache directory.
func (RealSystem) UserCacheDir() (string, error) {
	return os.UserCacheDir()
}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}
