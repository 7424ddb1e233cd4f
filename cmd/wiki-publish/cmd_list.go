/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/toothbrush/wiki-publish/internal/termfmt"
	"golang.org/x/exp/maps"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Commands to list items",
	Long: `
Commands in this namespace are to help you explore what's configured.
`,
}

var listAppsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Print the apps configured for publishing",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		names := maps.Keys(ParsedConfig.Apps)
		slices.Sort(names)

		fmt.Printf("apps:\n")
		for _, name := range names {
			app := ParsedConfig.Apps[name]
			fmt.Printf("  - %v: '%s' -> %s:%s\n", termfmt.Bold().V(name), app.FixVersion, app.Space(), app.ParentPath)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listAppsCmd)
}
