/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var whichCmd = &cobra.Command{
	Use:   "which",
	Short: "Print the config file in use",
	Long: `
Print the config file wiki-publish resolved from --config, WIKI_PUBLISH_CONFIG or the default, and
whether it exists.  Without one, every target has to be given with flags.
`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(describeConfigPath(ConfigActual))
		return nil
	},
}

func describeConfigPath(path string) string {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Sprintf("Config path: %s (not found, using flags only)", path)
	}
	return fmt.Sprintf("Config path: %s (%d apps configured)", path, len(ParsedConfig.Apps))
}

func init() {
	configCmd.AddCommand(whichCmd)
}
