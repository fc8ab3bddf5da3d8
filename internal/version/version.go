// Package version exposes build metadata for the agentlab binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is set at build time via -ldflags. When built with plain
// `go build` it falls back to the module version from build info.
var Version = "dev"

// Short returns only the version number
func Short() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// Info returns a multi-line description of the build
func Info() string {
	commit := "unknown"
	modified := ""
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				commit = setting.Value
			case "vcs.modified":
				if setting.Value == "true" {
					modified = " (modified)"
				}
			}
		}
	}

	return fmt.Sprintf("agentlab %s\ncommit: %s%s\ngo: %s\nplatform: %s/%s",
		Short(), commit, modified, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
