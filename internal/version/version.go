// Package version carries build information injected with
// -ldflags "-X github.com/gotrs-io/boardcheck/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release tag or branch of the build.
	Version = "dev"

	// GitCommit is the short commit SHA.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"

	// PlaywrightDriver is the playwright-go release the driver was
	// installed for.
	PlaywrightDriver = "v0.5200.0"
)

// Info is the build information as reported by `boardcheck version`.
type Info struct {
	Version          string `json:"version"`
	GitCommit        string `json:"git_commit"`
	BuildDate        string `json:"build_date"`
	GoVersion        string `json:"go_version"`
	PlaywrightDriver string `json:"playwright_driver"`
}

// GetInfo returns the current build info.
func GetInfo() Info {
	return Info{
		Version:          Version,
		GitCommit:        GitCommit,
		BuildDate:        BuildDate,
		GoVersion:        runtime.Version(),
		PlaywrightDriver: PlaywrightDriver,
	}
}

// String returns "v1.2.0 (abc1234)".
func String() string {
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}

// Full adds the build date, Go release and playwright driver.
func Full() string {
	i := GetInfo()
	return fmt.Sprintf("%s (%s) built %s with %s, playwright-go %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.PlaywrightDriver)
}
