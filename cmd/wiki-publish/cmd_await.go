/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/toothbrush/wiki-publish/internal/termfmt"
	"github.com/toothbrush/wiki-publish/readiness"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var awaitUsage = strings.TrimSpace(`
Wait for a Confluence long-running task (space export, page copy, ...) to finish.  Exits zero once
the task succeeded, non-zero if it failed or didn't finish before --deadline.
`)

var (
	AwaitDeadline time.Duration
	AwaitInterval time.Duration
	NoProgress    bool
)

var awaitCmd = &cobra.Command{
	Use:   "await TASK-ID",
	Short: "Wait for a long-running task to finish",
	Long:  awaitUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAwait(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(awaitCmd)

	awaitCmd.Flags().DurationVar(&AwaitDeadline, "deadline", 10*time.Minute, "give up after this long")
	awaitCmd.Flags().DurationVar(&AwaitInterval, "interval", 5*time.Second, "time between status checks")
	awaitCmd.Flags().BoolVar(&NoProgress, "no-progress", false, "don't draw a progress bar")
}

func runAwait(ctx context.Context, taskID string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	api, stop, err := newAPI()
	if err != nil {
		return err
	}
	defer stop()

	opts := []readiness.Option{
		readiness.ConfluenceTerminals(),
		readiness.WithLogger(logger),
	}

	var (
		p   *mpb.Progress
		bar *mpb.Bar
	)
	if !NoProgress && AwaitInterval > 0 {
		// one tick per poll; a final cut-short wait can add one more.
		maxPolls := int64(AwaitDeadline/AwaitInterval) + 2
		p = mpb.NewWithContext(ctx, mpb.WithWidth(64))
		bar = p.AddBar(maxPolls,
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("task %s:", taskID), decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			),
			mpb.AppendDecorators(
				decor.Elapsed(decor.ET_STYLE_GO),
				decor.Spinner([]string{" /", " -", " \\", " |"}),
			),
		)
		opts = append(opts, readiness.WithObserver(func(o readiness.Observation) {
			bar.Increment()
		}))
	}

	poller := readiness.NewPoller(readiness.LongTaskSource{API: api}, opts...)
	state, err := poller.AwaitReady(ctx, taskID, AwaitDeadline, AwaitInterval)

	if bar != nil {
		if state == readiness.Ready {
			bar.SetTotal(-1, true)
		} else {
			bar.Abort(false)
		}
		p.Wait()
	}

	if err != nil {
		fmt.Printf("%v task %s: %s\n", termfmt.Bold().Fg(termfmt.Red).V("✗"), taskID, state)
		return fmt.Errorf("await: %w", err)
	}

	fmt.Printf("%v task %s: %s\n", termfmt.Bold().Fg(termfmt.Green).V("✓"), taskID, state)
	return nil
}
