// Package version holds build metadata injected via ldflags:
//
//	-X github.com/kailas-cloud/nearby/internal/version.Version=v1.2.0
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

const shortCommit = 7

// Info is a snapshot of the build metadata.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the metadata of the running binary.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Short renders the version with an abbreviated commit, e.g. "v1.2.0+3f2a9c1".
// Unknown commits are omitted.
func (i Info) Short() string {
	if i.Commit == "" || i.Commit == "unknown" {
		return i.Version
	}
	c := i.Commit
	if len(c) > shortCommit {
		c = c[:shortCommit]
	}
	return i.Version + "+" + c
}
