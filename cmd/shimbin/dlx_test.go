package main

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/shimbin/internal/config"
	"github.com/conn-castle/shimbin/internal/dlx"
)

func serveScript(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDlxRunRequiresURL(t *testing.T) {
	_, _, err := runCLI(t, "dlx", "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}

func TestDlxRunDownloadsAndRuns(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures are not runnable on windows")
	}
	srv := serveScript(t, "#!/bin/sh\necho from-dlx\n")
	t.Setenv(dlx.EnvCacheDir, t.TempDir())

	out, _, err := runCLI(t, "dlx", "run", "--url", srv.URL+"/tool")
	require.NoError(t, err)
	assert.Equal(t, "from-dlx\n", out)
}

func TestDlxListAndClean(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures are not runnable on windows")
	}
	srv := serveScript(t, "#!/bin/sh\n")
	t.Setenv(dlx.EnvCacheDir, t.TempDir())

	out, _, err := runCLI(t, "dlx", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "dlx cache is empty")

	_, _, err = runCLI(t, "dlx", "run", "--url", srv.URL+"/listed-tool")
	require.NoError(t, err)

	out, _, err = runCLI(t, "dlx", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "listed-tool")
	assert.Contains(t, out, srv.URL)

	out, _, err = runCLI(t, "dlx", "clean", "--max-age", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 cache entries")

	out, _, err = runCLI(t, "dlx", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "dlx cache is empty")
}

func TestDlxRunChecksumMismatch(t *testing.T) {
	srv := serveScript(t, "#!/bin/sh\n")
	t.Setenv(dlx.EnvCacheDir, t.TempDir())

	_, _, err := runCLI(t, "dlx", "run",
		"--url", srv.URL+"/tool",
		"--checksum", "0000000000000000000000000000000000000000000000000000000000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Checksum mismatch")
}

func TestConfigSystemPrecedence(t *testing.T) {
	sys := configSystem{cfg: config.Config{CacheDir: "/from/config", CacheTTLHours: 48, NoNetwork: true, MaxDownloadBytes: 42}}

	t.Setenv(dlx.EnvCacheDir, "")
	assert.Equal(t, "/from/config", sys.Getenv(dlx.EnvCacheDir))
	assert.Equal(t, "1", sys.Getenv(dlx.EnvNoNetwork))
	assert.Equal(t, "48h0m0s", sys.Getenv(dlx.EnvCacheTTL))
	assert.Equal(t, "42", sys.Getenv(dlx.EnvMaxDownloadBytes))

	t.Setenv(dlx.EnvCacheTTL, "1h")
	assert.Equal(t, "1h", sys.Getenv(dlx.EnvCacheTTL))

	t.Setenv(dlx.EnvCacheDir, "/from/env")
	assert.Equal(t, "/from/env", sys.Getenv(dlx.EnvCacheDir))

	assert.Empty(t, configSystem{}.Getenv("UNRELATED_KEY"))
}
