// Package version holds build metadata injected at link time.
package version

import "runtime"

// Set via -ldflags at build time, e.g.
//
//	go build -ldflags "-X github.com/drillbook/drillbook/version.GitRelease=v0.2.0"
var (
	// GitRelease is the release tag or version string.
	GitRelease = "dev"

	// GitCommit is the commit hash the binary was built from.
	GitCommit = "unknown"

	// GitCommitDate is the commit date.
	GitCommitDate = "unknown"
)

// GoInfo reports the Go toolchain used for the build.
var GoInfo = runtime.Version()
