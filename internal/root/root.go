// Package root locates project-local shadow binaries by walking ancestor
// directories.
package root

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/shimbin/internal/messages"
)

// FindShadowBin searches upwards from start for a node_modules/.bin/<name>
// entry and returns its path. It reports found=false, with no error, when no
// ancestor carries one.
func FindShadowBin(start string, name string) (string, bool, error) {
	if start == "" || name == "" {
		return "", false, fmt.Errorf(messages.RootStartPathRequired)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf(messages.RootResolvePathFmt, start, err)
	}

	for {
		candidate := filepath.Join(dir, "node_modules", ".bin", name)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", false, fmt.Errorf(messages.RootCheckPathFmt, candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
