// Package version reports what build is running.
package version

import "runtime/debug"

// Version and Commit are set at build time with
// -ldflags "-X github.com/keshon/botkit/internal/version.Version=v1.2.0 -X ...Commit=abc1234".
var (
	Version = "development"
	Commit  = "unknown"
)

// String returns Version, plus the commit when one is known.
func String() string {
	return format(Version, commit(debug.ReadBuildInfo))
}

func format(version, commit string) string {
	if commit == "" || commit == "unknown" {
		return version
	}
	return version + "+" + commit
}

// commit falls back to the VCS revision stamped by the go tool when Commit
// was not set with ldflags.
func commit(read func() (*debug.BuildInfo, bool)) string {
	if Commit != "unknown" {
		return Commit
	}
	info, ok := read()
	if !ok {
		return Commit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return Commit
}
