/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/wiki-publish/internal/termfmt"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
)

var listSpacesUsage = strings.TrimSpace(`
If you're not sure which space-key to put in your config, use this command to see what spaces your
Confluence wiki has.
`)

var IncludePersonal bool

var listSpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Print list of spaces",
	Long:  listSpacesUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		api, stop, err := newAPI()
		if err != nil {
			return err
		}
		defer stop()

		logger.Info("Listing Confluence spaces", zap.String("base_url", BaseURL))
		spaces, err := api.ListAllSpaces(ctx, IncludePersonal)
		if err != nil {
			return fmt.Errorf("list: couldn't list Confluence spaces: %w", err)
		}

		keys := maps.Keys(spaces)
		slices.Sort(keys)

		fmt.Printf("spaces:\n")
		for _, key := range keys {
			fmt.Printf("  - %v: %s\n", termfmt.Bold().V(key), spaces[key].Name)
		}

		return nil
	},
}

func init() {
	listCmd.AddCommand(listSpacesCmd)

	listSpacesCmd.Flags().BoolVar(&IncludePersonal, "include-personal-spaces", false, "list individuals' personal spaces")
}
