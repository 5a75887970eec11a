package messages

// CLI strings for command definitions and human-facing output.
const (
	RootUse   = "shimbin"
	RootShort = "Locate, verify, and execute external command-line binaries"

	WhichUse   = "which <name>"
	WhichShort = "Search PATH for a binary and print its absolute path"

	ResolveUse   = "resolve <path-or-name>"
	ResolveShort = "Resolve wrappers, shims, and version-manager indirection to the real binary"

	ExecUse   = "exec <name> [-- args...]"
	ExecShort = "Resolve a binary and run it, capturing its output"

	DlxUse   = "dlx"
	DlxShort = "Download, cache, and run binaries that are not locally installed"

	DlxRunUse   = "run --url <url> [-- args...]"
	DlxRunShort = "Fetch a binary (or reuse the cached copy) and run it"

	DlxListUse   = "list"
	DlxListShort = "List cached downloaded binaries"

	DlxCleanUse   = "clean"
	DlxCleanShort = "Remove stale or corrupt cache entries"

	DlxListHeaderFmt   = "%-24s %-10s %-12s %s\n"
	DlxListRowFmt      = "%-24s %-10s %-12s %s\n"
	DlxListEmpty       = "dlx cache is empty"
	DlxCleanRemovedFmt = "Removed %d cache entries\n"

	VersionTemplate  = "shimbin {{.Version}}\n"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"

	FlagAllDesc      = "print every match in PATH order"
	FlagStrictDesc   = "fail with an error when nothing is found"
	FlagURLDesc      = "download URL for the binary"
	FlagChecksumDesc = "expected SHA-256 of the downloaded content"
	FlagNameDesc     = "binary name inside the cache entry (default: derived from the URL)"
	FlagTTLDesc      = "maximum cache entry age before re-download"
	FlagForceDesc    = "re-download even when a fresh cache entry exists"
	FlagCwdDesc      = "working directory for the spawned process"
	FlagEnvDesc      = "extra KEY=VALUE environment entries for the spawned process"
	FlagMaxAgeDesc   = "remove entries older than this age (0 removes everything)"
)
