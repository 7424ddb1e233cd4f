/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var configUsage = strings.TrimSpace(`
Commands in this namespace help you check where wiki-publish reads its settings from, and what
publishing targets (the apps section: fix-version, space-key, parent-path, report) it ended up with.
`)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the Confluence site and publishing targets in use",
	Long:  configUsage,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
