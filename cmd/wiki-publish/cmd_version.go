/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return fmt.Errorf("version: could not read build info")
		}
		fmt.Printf("wiki-publish version %s\n", describeBuild(Version, info.Settings))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "unknown"

// describeBuild folds the release tag and the vcs.* build settings into e.g. "v1.0.0-rev-abc123-dirty",
// or "devel" when nothing is known.
func describeBuild(version string, settings []debug.BuildSetting) string {
	revision := ""
	dirty := false
	for _, kv := range settings {
		switch kv.Key {
		case "vcs.revision":
			revision = kv.Value
		case "vcs.modified":
			dirty = kv.Value == "true"
		}
	}

	parts := make([]string, 0, 4)
	if version != "unknown" && version != "(devel)" && version != "" {
		parts = append(parts, version)
	}
	if revision != "" {
		parts = append(parts, "rev", revision)
		if dirty {
			parts = append(parts, "dirty")
		}
	}
	if len(parts) == 0 {
		return "devel"
	}
	return strings.Join(parts, "-")
}
