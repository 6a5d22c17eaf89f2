// Package version exposes build metadata set via ldflags.
package version

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit hash of the build.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
