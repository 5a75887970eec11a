// Package config loads the optional shimbin user configuration from
// config.toml under the user config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/shimbin/internal/messages"
	"github.com/conn-castle/shimbin/internal/paths"
)

// Stubbable for tests.
var (
	userConfigDir = os.UserConfigDir
	homedirExpand = homedir.Expand
)

const defaultMaxDownloadBytes = int64(100 * 1024 * 1024) // 100 MiB

// Config is the user-facing configuration. Environment variables take
// precedence over every field here; the file only supplies defaults.
type Config struct {
	// CacheDir overrides the download-cache root; supports a leading ~.
	CacheDir string `toml:"cache_dir"`
	// CacheTTLHours bounds download-cache entry freshness.
	CacheTTLHours int `toml:"cache_ttl_hours"`
	// NoNetwork disables downloads, matching SHIMBIN_NO_NETWORK.
	NoNetwork bool `toml:"no_network"`
	// MaxDownloadBytes caps a single download.
	MaxDownloadBytes int64 `toml:"max_download_bytes"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		CacheTTLHours:    7 * 24,
		MaxDownloadBytes: defaultMaxDownloadBytes,
	}
}

// CacheTTL returns the configured TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// Path returns the config file location under the user config directory.
func Path() (string, error) {
	base, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigResolveDirFmt, err)
	}
	return filepath.Join(base, "shimbin", "config.toml"), nil
}

// Load reads the user configuration, returning defaults when the file does
// not exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

// LoadFile reads and validates the configuration at path. A missing file
// yields the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates TOML config data; source names the origin in
// error messages. Absent fields keep their defaults.
func Parse(data []byte, source string) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf(messages.ConfigParseFailedFmt, source, err)
	}

	if cfg.CacheTTLHours < 0 {
		return Config{}, fmt.Errorf(messages.ConfigInvalidTTLFmt, cfg.CacheTTLHours)
	}
	if cfg.MaxDownloadBytes <= 0 {
		return Config{}, fmt.Errorf(messages.ConfigInvalidLimitFmt, cfg.MaxDownloadBytes)
	}

	if cfg.CacheDir != "" {
		expanded, err := homedirExpand(cfg.CacheDir)
		if err != nil {
			return Config{}, fmt.Errorf(messages.ConfigExpandPathFmt, cfg.CacheDir, err)
		}
		cfg.CacheDir = paths.Normalize(expanded)
	}
	return cfg, nil
}
