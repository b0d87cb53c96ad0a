package version

import (
	"runtime/debug"
	"strings"
)

// Set through -ldflags at release time.
var (
	Version = "0.1.0"
	Commit  = "unknown"
	Date    = "unknown"
)

// Resolve returns the version string. Release builds return Version as is;
// builds from a source checkout append the VCS revision recorded by the Go
// toolchain, plus "-dirty" when the tree had local modifications.
func Resolve() string {
	return resolveVersion(Version, Commit, readBuildSettings)
}

func resolveVersion(base, commit string, settings func() (map[string]string, bool)) string {
	if base == "" {
		base = "0.0.0"
	}

	if commit != "" && commit != "unknown" {
		return base
	}

	values, ok := settings()
	if !ok {
		return base
	}

	revision := values["vcs.revision"]
	if revision == "" {
		return base
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}

	suffix := "g" + revision
	if strings.EqualFold(values["vcs.modified"], "true") {
		suffix += "-dirty"
	}
	return base + "-" + suffix
}

func readBuildSettings() (map[string]string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, false
	}

	values := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		values[setting.Key] = setting.Value
	}
	return values, true
}
