// Package version exposes build metadata stamped in at link time.
package version

import "runtime"

// Set via -ldflags at build time.
var (
	// GitRelease is the release tag or "dev" for untagged builds.
	GitRelease = "dev"
	// GitCommit is the short commit hash.
	GitCommit = "unknown"
	// GitCommitDate is the commit timestamp.
	GitCommitDate = "unknown"
)

// GoInfo reports the Go toolchain version used for the build.
var GoInfo = runtime.Version()
