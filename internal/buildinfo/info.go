// Package buildinfo carries version details stamped in at link time, e.g.
//
//	go build -ldflags "-X github.com/cleared-dev/ledgerdash/internal/buildinfo.Version=v0.3.0" ./cmd/ledgerdash
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the line printed by ledgerdash --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
