// Package version reports build information of the partialdefault command.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build information, set at build time via ldflags:
//
//	-X github.com/teranos/partialdefault/version.Version=v0.3.0
var (
	// Version is the semantic version (if tagged)
	Version = "dev"

	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"
)

// Info contains version and build information
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information. Binaries installed with
// go install carry no ldflags; their module version and VCS stamp are
// used instead.
func Get() Info {
	info := Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(&info, bi)
	}
	return info
}

func fromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.CommitHash == "dev" {
				info.CommitHash = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = s.Value
			}
		}
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("partialdefault %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
