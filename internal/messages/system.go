package messages

// System messages for internal operations.
const (
	// WhichNotFound is the sentinel text for an empty search-path result.
	WhichNotFound = "executable not found on PATH"

	// ExecBinNotFoundFmt is the distinguished not-found condition from
	// execbin. The prefix is fixed so callers can grep for it.
	ExecBinNotFoundFmt  = "binary not found: %s"
	ExecBinExitFmt      = "%s exited with code %d"
	ExecBinStartFmt     = "start %s: %w"
	ExecBinNameRequired = "binary name is required"

	DlxResolveUserCacheDirFmt = "resolve user cache dir: %w"
	DlxURLRequired            = "download url is required"
	DlxParseURLFmt            = "parse download url %s: %w"
	DlxCreateCacheDirFmt      = "create cache dir: %w"
	DlxCreateTempFileFmt      = "create temp file: %w"
	DlxSyncTempFileFmt        = "sync temp file: %w"
	DlxCloseTempFileFmt       = "close temp file: %w"
	DlxTruncateTempFileFmt    = "truncate temp file: %w"
	DlxResetTempFileOffsetFmt = "reset temp file offset: %w"
	DlxChmodBinaryFmt         = "chmod cached binary: %w"
	DlxMoveBinaryFmt          = "move cached binary into place: %w"
	DlxCheckCachedBinaryFmt   = "check cached binary %s: %w"
	DlxDownloadFailedFmt      = "download %s: %w"
	DlxDownloadStatusFmt      = "download %s: unexpected status %s"
	DlxDownloadTooLargeFmt    = "download %s: response too large (%d bytes > limit %d bytes)"
	DlxWriteMetadataFmt       = "write cache metadata: %w"
	DlxReadCacheRootFmt       = "read cache root %s: %w"
	DlxOpenFileFmt            = "open %s: %w"
	DlxHashFileFmt            = "hash %s: %w"

	// DlxChecksumMismatchFmt must keep the "Checksum mismatch" prefix; callers
	// and users grep for it.
	DlxChecksumMismatchFmt = "Checksum mismatch for %s (expected %s, got %s)"

	DlxNoNetworkFmt = "binary for %s is not cached (expected at %s); network access disabled via %s"

	DlxDownloadingFmt = "Downloading %s...\n"
	DlxDownloadedFmt  = "Downloaded %s (%d bytes)\n"

	LockOpenFmt    = "open lock %s: %w"
	LockAcquireFmt = "lock %s: %w"
	LockTimeoutFmt = "timed out waiting for lock after %s"

	PlatformUnsupportedOSFmt   = "unsupported OS %q"
	PlatformUnsupportedArchFmt = "unsupported architecture %q"

	// RootStartPathRequired indicates start path is required for shadow bin lookup.
	RootStartPathRequired = "start path is required"
	RootResolvePathFmt    = "resolve path %s: %w"
	RootCheckPathFmt      = "check %s: %w"

	VersionEmpty      = "version is empty"
	VersionInvalidFmt = "invalid version %q: expected X.Y.Z"

	ConfigReadFailedFmt   = "read config %s: %w"
	ConfigParseFailedFmt  = "parse config %s: %w"
	ConfigExpandPathFmt   = "expand path %s: %w"
	ConfigResolveDirFmt   = "resolve user config dir: %w"
	ConfigInvalidTTLFmt   = "invalid cache_ttl_hours %d: must be >= 0"
	ConfigInvalidLimitFmt = "invalid max_download_bytes %d: must be > 0"
)
