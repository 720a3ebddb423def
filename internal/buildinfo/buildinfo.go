// Package buildinfo carries the version stamped in by the release build.
package buildinfo

import "fmt"

// Set at build time via -ldflags "-X c201/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the window title and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	}
	return "dev"
}

// String describes the build in full.
func String() string {
	return fmt.Sprintf("c201 %s (commit %s, built %s)", Version, Commit, Date)
}
