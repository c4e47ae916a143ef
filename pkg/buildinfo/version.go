// Package buildinfo carries the version stamped into release builds.
//
// The release build sets the variables with ldflags:
//
//	go build -ldflags "-X github.com/mrpoffice-collab/Whispering-Art/pkg/buildinfo.Version=v0.4.0 \
//	    -X github.com/mrpoffice-collab/Whispering-Art/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/mrpoffice-collab/Whispering-Art/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/whisperart
package buildinfo

import "fmt"

var (
	// Version is the semantic version, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies artwork downloads and API responses.
func UserAgent() string {
	return "whisperart/" + Version
}
