package buildinfo

import "fmt"

// Set with -ldflags "-X loan-amortizer/buildinfo.Version=..." at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("amortizer %s (commit=%s, date=%s)", Version, Commit, Date)
}
