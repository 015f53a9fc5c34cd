package hconfig

//nolint:gochecknoglobals // set via ldflags at build time.
var (
	// Version is the hconfig version, set via ldflags.
	Version = "dev"
	// Commit is the source revision, set via ldflags.
	Commit = "none"
	// CompiledAt is the build timestamp, set via ldflags.
	CompiledAt = "unknown"
)
