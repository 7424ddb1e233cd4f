/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/wiki-publish/publish"
)

var resolveUsage = strings.TrimSpace(`
Walk a title path down the page tree of a space and print the ID of the last page.  Handy to check
a parent-path before publishing underneath it.
`)

var (
	ResolveSpace  string
	ResolveStrict bool
	Whoami        bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve PATH",
	Short: "Print the page ID a title path points at",
	Long:  resolveUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		path, err := publish.ParsePath(args[0])
		if err != nil {
			return fmt.Errorf("resolve: %w", err)
		}

		api, stop, err := newAPI()
		if err != nil {
			return err
		}
		defer stop()

		if Whoami {
			user, err := api.CurrentUser(ctx)
			if err != nil {
				return fmt.Errorf("resolve: couldn't query current user: %w", err)
			}
			fmt.Printf("Logged in as '%s (%s)'...\n", user.DisplayName, user.Username)
		}

		opts := []publish.Option{publish.WithLogger(logger)}
		if ResolveStrict {
			opts = append(opts, publish.WithStrictMatching())
		}

		id, err := publish.NewResolver(api, opts...).Resolve(ctx, ResolveSpace, path)
		if err != nil {
			return fmt.Errorf("resolve: %w", err)
		}

		fmt.Println(id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&ResolveSpace, "space", defaultSpaceKey, "space key to search in")
	resolveCmd.Flags().BoolVar(&ResolveStrict, "strict", false, "fail if a title matches more than one page")
	resolveCmd.Flags().BoolVar(&Whoami, "whoami", false, "print the authenticated user first")
}
