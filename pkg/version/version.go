package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Set through ldflags at build time
var (
	GitTag    string
	GitBranch string
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the release tag, branch or revision for the build
func Version() string {
	if GitTag != "" {
		return GitTag
	}
	if GitBranch != "" {
		return GitBranch
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				return s.Value[:12]
			}
		}
	}
	return "dev"
}

// Map returns build metadata for the status and version outputs
func Map(execName string) map[string]string {
	metadata := map[string]string{
		"name":     execName,
		"version":  Version(),
		"compiler": runtime.Version(),
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path != "" {
			metadata["source"] = info.Main.Path
		}
		var goos, goarch string
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					metadata["hash"] = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					metadata["build_time"] = s.Value
				}
			case "GOOS":
				goos = s.Value
			case "GOARCH":
				goarch = s.Value
			}
		}
		if goos != "" && goarch != "" {
			metadata["platform"] = goos + "/" + goarch
		}
	}
	return metadata
}

// JSON returns the build metadata as indented JSON
func JSON(execName string) []byte {
	data, err := json.MarshalIndent(Map(execName), "", "  ")
	if err != nil {
		panic(err)
	}
	return data
}
