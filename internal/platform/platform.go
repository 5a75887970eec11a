// Package platform identifies the running OS and architecture for cache
// keys and download targeting, with best-effort Linux distro details.
package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/conn-castle/shimbin/internal/messages"
)

// Info describes the platform a binary is cached and executed for.
type Info struct {
	OS   string // "linux", "darwin", "windows"
	Arch string // "amd64", "arm64"

	// Distro fields are populated on Linux only, and stay empty when
	// detection fails; cache keys never depend on them.
	Distro        string // distro ID, e.g. "ubuntu"
	DistroVersion string // e.g. "22.04"
}

var supportedOS = map[string]bool{
	"linux":   true,
	"darwin":  true,
	"windows": true,
}

var supportedArch = map[string]bool{
	"amd64": true,
	"arm64": true,
}

// Validate checks an OS/arch pair, as supplied by callers overriding the
// detected platform.
func Validate(goos, goarch string) error {
	if !supportedOS[goos] {
		return fmt.Errorf(messages.PlatformUnsupportedOSFmt, goos)
	}
	if !supportedArch[goarch] {
		return fmt.Errorf(messages.PlatformUnsupportedArchFmt, goarch)
	}
	return nil
}

// Detect returns the running platform. Distro detection failures on Linux
// degrade to an Info without distro fields; an unsupported build target is
// an error.
func Detect(ctx context.Context) (Info, error) {
	info := Info{OS: runtime.GOOS, Arch: runtime.GOARCH}
	if err := Validate(info.OS, info.Arch); err != nil {
		return Info{}, err
	}

	if info.OS == "linux" {
		distro, _, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return Info{}, ctx.Err()
			}
			return info, nil
		}
		info.Distro = distro
		info.DistroVersion = version
	}

	return info, nil
}

// ExeSuffix returns the native executable suffix for goos.
func ExeSuffix(goos string) string {
	if goos == "windows" {
		return ".exe"
	}
	return ""
}

// IsWindows reports whether the info describes a Windows target.
func (i Info) IsWindows() bool {
	return i.OS == "windows"
}

// String renders the canonical "<os>/<arch>" form used in cache keys and
// user-facing output.
func (i Info) String() string {
	return i.OS + "/" + i.Arch
}
