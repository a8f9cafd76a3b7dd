package version

import "fmt"

var (
	// Version is the semantic version, set via -ldflags "-X".
	Version = "0.1.0"
	// Commit is the short git SHA, or "none" for local builds.
	Commit = "none"
	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// Short returns the semantic version alone.
func Short() string {
	return Version
}

// Full returns version, commit and build time on one line.
func Full() string {
	return fmt.Sprintf("nfc-timer %s (commit %s, built %s)", Version, Commit, BuildTime)
}
