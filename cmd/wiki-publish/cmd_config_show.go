/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Note, you can only talk about persistent flags here.  Command-specific ones won't be
		// visible.
		fmt.Printf("Dump current config state:\n\n")

		fmt.Printf("  Config file: %s\n", ConfigActual)
		fmt.Printf("  Debug: %v\n", Debug)
		fmt.Printf("  BaseURL: %s\n", BaseURL)
		fmt.Printf("  AuthUsername: %s\n", AuthUsername)
		fmt.Printf("  AuthTokenCmd: %v\n", AuthTokenCmd)
		fmt.Printf("  SessionCookieEnv: %s (set: %v)\n", SessionCookieEnv, sessionCookieSet())
		fmt.Printf("  RequestTimeout: %s\n", RequestTimeout)
		fmt.Printf("  WithVCR: %v\n", WithVCR)
		fmt.Println()

		out, err := yaml.Marshal(ParsedConfig)
		if err != nil {
			return fmt.Errorf("config: couldn't marshal parsed config: %w", err)
		}
		fmt.Printf("  Parsed YAML:\n%s\n", out)

		return nil
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}
