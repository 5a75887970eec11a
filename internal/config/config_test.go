package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 168, cfg.CacheTTLHours)
	assert.False(t, cfg.NoNetwork)
}

func TestLoadFileParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
cache_dir = "/opt/shimbin-cache/"
cache_ttl_hours = 12
no_network = true
max_download_bytes = 1024
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/shimbin-cache", cfg.CacheDir)
	assert.Equal(t, 12, cfg.CacheTTLHours)
	assert.True(t, cfg.NoNetwork)
	assert.Equal(t, int64(1024), cfg.MaxDownloadBytes)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`cache_ttl_hours = 1`), "test")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.CacheTTLHours)
	assert.Equal(t, Default().MaxDownloadBytes, cfg.MaxDownloadBytes)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	_, err := Parse([]byte(`cache_ttl_hours = -1`), "test")
	require.ErrorContains(t, err, "invalid cache_ttl_hours")

	_, err = Parse([]byte(`max_download_bytes = 0`), "test")
	require.ErrorContains(t, err, "invalid max_download_bytes")

	_, err = Parse([]byte(`cache_ttl_hours = "soon"`), "test")
	require.ErrorContains(t, err, "parse config test")
}

func TestParseExpandsHome(t *testing.T) {
	original := homedirExpand
	homedirExpand = func(path string) (string, error) {
		if len(path) > 0 && path[0] == '~' {
			return "/home/u" + path[1:], nil
		}
		return path, nil
	}
	t.Cleanup(func() { homedirExpand = original })

	cfg, err := Parse([]byte(`cache_dir = "~/cache/shimbin"`), "test")
	require.NoError(t, err)
	assert.Equal(t, "/home/u/cache/shimbin", cfg.CacheDir)
}

func TestParseNormalizesCacheDir(t *testing.T) {
	cfg, err := Parse([]byte(`cache_dir = 'C:\Users\u\cache\'`), "test")
	require.NoError(t, err)
	assert.Equal(t, "C:/Users/u/cache", cfg.CacheDir)
}

func TestPathUsesUserConfigDir(t *testing.T) {
	original := userConfigDir
	userConfigDir = func() (string, error) { return "/home/u/.config", nil }
	t.Cleanup(func() { userConfigDir = original })

	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/u/.config", "shimbin", "config.toml"), path)
}

func TestCacheTTLDuration(t *testing.T) {
	cfg := Config{CacheTTLHours: 12}
	assert.Equal(t, "12h0m0s", cfg.CacheTTL().String())
}
