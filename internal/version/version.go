// Package version normalizes the X.Y.Z version strings read from
// version-manager pin records.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/conn-castle/shimbin/internal/messages"
)

// Normalize validates raw as a semantic X.Y.Z version, tolerating a leading
// "v" and surrounding whitespace, and returns it without the prefix.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf(messages.VersionEmpty)
	}
	trimmed = strings.TrimPrefix(trimmed, "v")
	parts := strings.Split(trimmed, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf(messages.VersionInvalidFmt, raw)
	}
	for _, part := range parts {
		if part == "" {
			return "", fmt.Errorf(messages.VersionInvalidFmt, raw)
		}
		if _, err := strconv.Atoi(part); err != nil {
			return "", fmt.Errorf(messages.VersionInvalidFmt, raw)
		}
	}
	return trimmed, nil
}
