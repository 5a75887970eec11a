// Package dlx caches downloaded binaries under the user cache directory,
// verifying their checksums and evicting stale or corrupt entries.
//
// Each cache entry lives in its own key directory holding the binary and a
// .dlx-metadata.json sidecar. Population is write-temp-then-rename under a
// per-key file lock; cross-process races degrade to last-writer-wins because
// entry content is fully described by the URL and checksum.
package dlx

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/conn-castle/shimbin/internal/execbin"
	"github.com/conn-castle/shimbin/internal/messages"
	"github.com/conn-castle/shimbin/internal/paths"
	"github.com/conn-castle/shimbin/internal/platform"
)

// Cache environment keys. Each overrides the corresponding config value.
const (
	EnvCacheDir         = "SHIMBIN_CACHE_DIR"
	EnvNoNetwork        = "SHIMBIN_NO_NETWORK"
	EnvCacheTTL         = "SHIMBIN_CACHE_TTL"
	EnvMaxDownloadBytes = "SHIMBIN_MAX_DOWNLOAD_BYTES"
)

const (
	metadataFileName = ".dlx-metadata.json"
	lockFileName     = ".lock"
	tempFileMarker   = ".tmp-"
)

// DefaultTTL is how long a cache entry stays fresh when no TTL is given.
const DefaultTTL = 7 * 24 * time.Hour

var timeNow = time.Now

// Metadata is the sidecar record persisted next to each cached binary.
type Metadata struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
	Checksum  string `json:"checksum,omitempty"`
	Size      int64  `json:"size"`
}

// Entry is one valid cache entry as reported by List.
type Entry struct {
	Name string
	Key  string
	Metadata
	Age time.Duration
}

// SpawnOptions customizes the execution started for a cached binary.
type SpawnOptions struct {
	Dir string
	Env []string
}

// Options control a Binary call. URL is required; everything else has a
// usable zero value.
type Options struct {
	// Name overrides the binary filename; empty derives it from the URL,
	// with the native executable suffix applied on Windows targets.
	Name     string
	URL      string
	Checksum string
	// CacheTTL bounds entry freshness; zero or negative means DefaultTTL.
	CacheTTL time.Duration
	Force    bool
	// Platform and Arch override the detected target; empty fields fall
	// back to the running platform.
	Platform string
	Arch     string
	// Spawn, when non-nil, starts the cached binary and returns the
	// running handle in Outcome.Run.
	Spawn *SpawnOptions
}

// Outcome reports the result of a Binary call. Run is non-nil only when
// Options.Spawn asked for an execution; the caller may await or ignore it.
type Outcome struct {
	BinaryPath string
	Downloaded bool
	Run        *Run
}

// Run is a handle to an already-started execution of a cached binary.
type Run struct {
	name   string
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// Wait blocks until the process exits and returns its captured output. A
// non-zero exit yields an *execbin.ExitError carrying the same Result.
func (r *Run) Wait() (execbin.Result, error) {
	err := r.cmd.Wait()
	result := execbin.Result{Stdout: r.stdout.String(), Stderr: r.stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, &execbin.ExitError{Name: r.name, Result: result}
		}
		return result, err
	}
	return result, nil
}

// Cache is a download cache rooted at CachePath.
type Cache struct {
	sys      System
	progress io.Writer
}

// New returns a Cache; a nil sys uses the real OS and a nil progress writer
// discards progress lines.
func New(sys System, progress io.Writer) *Cache {
	if sys == nil {
		sys = RealSystem{}
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Cache{sys: sys, progress: progress}
}

// CachePath returns the cache root: SHIMBIN_CACHE_DIR when set, otherwise a
// fixed subdirectory of the user cache directory. The result is forward-slash
// normalized with no trailing separator.
func (c *Cache) CachePath() (string, error) {
	if override := strings.TrimSpace(c.sys.Getenv(EnvCacheDir)); override != "" {
		return paths.Normalize(override), nil
	}
	base, err := c.sys.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf(messages.DlxResolveUserCacheDirFmt, err)
	}
	return paths.Normalize(base) + "/shimbin/dlx", nil
}

// Binary ensures the binary for opts.URL is cached and verified, downloading
// it when the entry is missing, stale, or forced, then optionally starts it
// with args. Download failures and checksum mismatches persist nothing.
func (c *Cache) Binary(ctx context.Context, args []string, opts Options) (Outcome, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return Outcome{}, errors.New(messages.DlxURLRequired)
	}
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return Outcome{}, fmt.Errorf(messages.DlxParseURLFmt, opts.URL, err)
	}

	goos, goarch, err := c.targetPlatform(ctx, opts)
	if err != nil {
		return Outcome{}, err
	}
	root, err := c.CachePath()
	if err != nil {
		return Outcome{}, err
	}

	key := cacheKey(opts.URL, goos, goarch)
	name := binaryName(opts.Name, parsed, goos)
	entryDir := filepath.Join(filepath.FromSlash(root), key)
	binPath := filepath.Join(entryDir, name)
	ttl := c.cacheTTL(opts)

	if !opts.Force && c.entryFresh(entryDir, binPath, ttl) {
		return c.finish(ctx, args, opts, binPath, false)
	}

	if strings.TrimSpace(c.sys.Getenv(EnvNoNetwork)) != "" {
		return Outcome{}, fmt.Errorf(messages.DlxNoNetworkFmt, name, paths.Normalize(binPath), EnvNoNetwork)
	}

	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		return Outcome{}, fmt.Errorf(messages.DlxCreateCacheDirFmt, err)
	}

	downloaded := false
	if err := withFileLock(filepath.Join(entryDir, lockFileName), func() error {
		// Another process may have populated the key while we waited.
		if !opts.Force && c.entryFresh(entryDir, binPath, ttl) {
			return nil
		}
		size, err := c.populate(entryDir, binPath, name, opts)
		if err != nil {
			return err
		}
		// Record the platform the bytes were fetched for, not the one
		// this process runs on.
		meta := Metadata{
			URL:       opts.URL,
			Timestamp: timeNow().UnixMilli(),
			Platform:  goos,
			Arch:      goarch,
			Checksum:  opts.Checksum,
			Size:      size,
		}
		if err := writeMetadata(entryDir, meta); err != nil {
			return err
		}
		downloaded = true
		_, _ = fmt.Fprintf(c.progress, messages.DlxDownloadedFmt, name, size)
		return nil
	}); err != nil {
		return Outcome{}, err
	}

	return c.finish(ctx, args, opts, binPath, downloaded)
}

// populate downloads, verifies, and atomically installs the binary for one
// cache key. Nothing is persisted on failure.
func (c *Cache) populate(entryDir, binPath, name string, opts Options) (int64, error) {
	tmp, err := osCreateTemp(entryDir, name+tempFileMarker+"*")
	if err != nil {
		return 0, fmt.Errorf(messages.DlxCreateTempFileFmt, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	_, _ = fmt.Fprintf(c.progress, messages.DlxDownloadingFmt, name)
	if err := downloadToFile(c.sys, opts.URL, tmp); err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf(messages.DlxSyncTempFileFmt, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf(messages.DlxCloseTempFileFmt, err)
	}

	if opts.Checksum != "" {
		if err := verifyChecksum(tmpName, opts.Checksum); err != nil {
			return 0, err
		}
	}

	info, err := osStat(tmpName)
	if err != nil {
		return 0, fmt.Errorf(messages.DlxCheckCachedBinaryFmt, tmpName, err)
	}
	if err := osChmod(tmpName, 0o755); err != nil {
		return 0, fmt.Errorf(messages.DlxChmodBinaryFmt, err)
	}
	if err := osRename(tmpName, binPath); err != nil {
		return 0, fmt.Errorf(messages.DlxMoveBinaryFmt, err)
	}
	committed = true
	return info.Size(), nil
}

func (c *Cache) finish(ctx context.Context, args []string, opts Options, binPath string, downloaded bool) (Outcome, error) {
	out := Outcome{BinaryPath: paths.Normalize(binPath), Downloaded: downloaded}
	if opts.Spawn == nil {
		return out, nil
	}

	cmd := exec.CommandContext(ctx, binPath, args...)
	cmd.Dir = opts.Spawn.Dir
	cmd.Env = opts.Spawn.Env
	run := &Run{name: filepath.Base(binPath), cmd: cmd}
	cmd.Stdout = &run.stdout
	cmd.Stderr = &run.stderr
	if err := cmd.Start(); err != nil {
		return Outcome{}, fmt.Errorf(messages.ExecBinStartFmt, binPath, err)
	}
	out.Run = run
	return out, nil
}

// List enumerates the valid cache entries, skipping directories whose
// metadata is missing or unparseable.
func (c *Cache) List() ([]Entry, error) {
	root, err := c.CachePath()
	if err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(filepath.FromSlash(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.DlxReadCacheRootFmt, root, err)
	}

	now := timeNow()
	var out []Entry
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		dir := filepath.Join(filepath.FromSlash(root), de.Name())
		meta, err := readMetadata(dir)
		if err != nil {
			continue
		}
		name, ok := entryBinaryName(dir)
		if !ok {
			continue
		}
		out = append(out, Entry{
			Name:     name,
			Key:      de.Name(),
			Metadata: meta,
			Age:      entryAge(meta, now),
		})
	}
	return out, nil
}

// Clean removes every entry older than maxAge (zero removes everything) plus
// any key directory lacking valid metadata or a binary, and returns the
// number of entries removed. A missing cache root is not an error.
func (c *Cache) Clean(maxAge time.Duration) (int, error) {
	root, err := c.CachePath()
	if err != nil {
		return 0, err
	}
	dirEntries, err := os.ReadDir(filepath.FromSlash(root))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf(messages.DlxReadCacheRootFmt, root, err)
	}

	now := timeNow()
	removed := 0
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		dir := filepath.Join(filepath.FromSlash(root), de.Name())

		expired := false
		meta, err := readMetadata(dir)
		if err != nil {
			expired = true
		} else if _, ok := entryBinaryName(dir); !ok {
			expired = true
		} else if maxAge <= 0 || entryAge(meta, now) > maxAge {
			expired = true
		}
		if !expired {
			continue
		}
		if err := os.RemoveAll(dir); err == nil {
			removed++
		}
	}
	return removed, nil
}

// entryFresh reports whether the key directory holds a parseable sidecar and
// an existing binary younger than ttl.
func (c *Cache) entryFresh(entryDir, binPath string, ttl time.Duration) bool {
	meta, err := readMetadata(entryDir)
	if err != nil {
		return false
	}
	info, err := osStat(binPath)
	if err != nil || info.IsDir() {
		return false
	}
	return entryAge(meta, timeNow()) <= ttl
}

// cacheTTL resolves the freshness bound: an explicit option wins, then the
// SHIMBIN_CACHE_TTL duration, then DefaultTTL. Malformed values fall back.
func (c *Cache) cacheTTL(opts Options) time.Duration {
	if opts.CacheTTL > 0 {
		return opts.CacheTTL
	}
	if raw := strings.TrimSpace(c.sys.Getenv(EnvCacheTTL)); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return DefaultTTL
}

func (c *Cache) targetPlatform(ctx context.Context, opts Options) (string, string, error) {
	if opts.Platform == "" && opts.Arch == "" {
		info, err := platform.Detect(ctx)
		if err != nil {
			return "", "", err
		}
		return info.OS, info.Arch, nil
	}
	goos, goarch := opts.Platform, opts.Arch
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	if err := platform.Validate(goos, goarch); err != nil {
		return "", "", err
	}
	return goos, goarch, nil
}

// cacheKey derives the entry directory name from the URL and target
// platform: the first 16 hex characters of a SHA-256 over all three.
func cacheKey(rawURL, goos, goarch string) string {
	sum := sha256.Sum256([]byte(rawURL + "\n" + goos + "/" + goarch))
	return fmt.Sprintf("%x", sum)[:16]
}

// binaryName picks the cached filename: the explicit name when given,
// otherwise the URL's final path segment with the target's executable suffix.
func binaryName(explicit string, parsed *url.URL, goos string) string {
	if explicit != "" {
		return explicit
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "/" || base == "" {
		base = "binary"
	}
	suffix := platform.ExeSuffix(goos)
	if suffix != "" && !strings.HasSuffix(strings.ToLower(base), suffix) {
		base += suffix
	}
	return base
}

func entryAge(meta Metadata, now time.Time) time.Duration {
	created := time.UnixMilli(meta.Timestamp)
	age := now.Sub(created)
	if age < 0 {
		return 0
	}
	return age
}

func readMetadata(entryDir string) (Metadata, error) {
	data, err := os.ReadFile(filepath.Join(entryDir, metadataFileName))
	if err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, err
	}
	if meta.URL == "" || meta.Timestamp <= 0 {
		return Metadata{}, errors.New("incomplete metadata")
	}
	return meta, nil
}

// writeMetadata persists the sidecar with the same temp-then-rename dance as
// the binary itself.
func writeMetadata(entryDir string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf(messages.DlxWriteMetadataFmt, err)
	}
	tmp, err := osCreateTemp(entryDir, metadataFileName+tempFileMarker+"*")
	if err != nil {
		return fmt.Errorf(messages.DlxWriteMetadataFmt, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf(messages.DlxWriteMetadataFmt, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf(messages.DlxWriteMetadataFmt, err)
	}
	if err := osRename(tmpName, filepath.Join(entryDir, metadataFileName)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf(messages.DlxWriteMetadataFmt, err)
	}
	return nil
}

// entryBinaryName finds the cached binary inside a key directory: the first
// regular file that is not the sidecar, the lock, or a leftover temp file.
func entryBinaryName(entryDir string) (string, bool) {
	dirEntries, err := os.ReadDir(entryDir)
	if err != nil {
		return "", false
	}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if name == metadataFileName || name == lockFileName || strings.Contains(name, tempFileMarker) {
			continue
		}
		return name, true
	}
	return "", false
}
