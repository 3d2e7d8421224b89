// Package version holds build information for the viewer and its tools.
package version

import "fmt"

// Set with -ldflags "-X imageview/internal/version.Version=...".
var (
	// Version is the release version.
	Version = "0.1.0"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"
)

// String returns the version with commit and build time.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime)
}
