package version

import "fmt"

// Stamped at build time through -ldflags; left as "unknown" for plain
// go-build binaries.
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String renders the human-readable version line shown by --version.
func String() string {
	return fmt.Sprintf("sage dev (commit: %s, built: %s)", shortCommit(), BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
