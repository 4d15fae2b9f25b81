// Package buildinfo exposes version metadata set with -ldflags at build time:
//
//	go build -ldflags "-X loadplan/internal/buildinfo.Version=1.2.0 -X loadplan/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "runtime/debug"

var (
	Version = "dev"
	Commit  = ""
	BuiltAt = ""
)

// Info returns the build metadata. When Commit was not set by ldflags the VCS
// revision recorded by the Go toolchain is used, if any.
func Info() map[string]string {
	commit, builtAt := Commit, BuiltAt
	if bi, ok := debug.ReadBuildInfo(); ok && (commit == "" || builtAt == "") {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "":
				commit = s.Value
			case s.Key == "vcs.time" && builtAt == "":
				builtAt = s.Value
			}
		}
	}
	return map[string]string{
		"version": Version,
		"commit":  commit,
		"builtAt": builtAt,
	}
}
