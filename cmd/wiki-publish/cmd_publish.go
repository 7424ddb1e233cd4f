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
	"github.com/toothbrush/wiki-publish/publish"
	"github.com/toothbrush/wiki-publish/report"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"
)

var publishUsage = strings.TrimSpace(`
Create a Confluence page from a rendered HTML report.  Targets come from the apps section of the
config file (--app, --all) or entirely from flags (--space, --parent-path, --title, --report).

Every run creates new pages: publishing the same report twice gives two pages, unless
--on-duplicate=reject is set.
`)

var (
	PublishApps    []string
	PublishAll     bool
	PublishSpace   string
	PublishPath    string
	PublishTitle   string
	PublishReport  string
	DryRun         bool
	OnDuplicate    string
	StrictMatching bool
	PublishWorkers int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish reports as Confluence pages",
	Long:  publishUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringSliceVar(&PublishApps, "app", []string{}, "publish the named app(s) from the config file")
	publishCmd.Flags().BoolVar(&PublishAll, "all", false, "publish every app in the config file")
	publishCmd.Flags().StringVar(&PublishSpace, "space", "", "space key (overrides the app's space-key)")
	publishCmd.Flags().StringVar(&PublishPath, "parent-path", "", "slash-separated titles of the parent page (overrides the app's parent-path)")
	publishCmd.Flags().StringVar(&PublishTitle, "title", "", "page title (overrides the app's fix-version)")
	publishCmd.Flags().StringVar(&PublishReport, "report", "", "HTML report to publish (overrides the app's report)")
	publishCmd.Flags().BoolVar(&DryRun, "dry-run", false, "print a Markdown preview instead of publishing")
	publishCmd.Flags().StringVar(&OnDuplicate, "on-duplicate", "create", "what to do if the parent already has a page with this title: create or reject")
	publishCmd.Flags().BoolVar(&StrictMatching, "strict", false, "fail if a path title matches more than one page")
	publishCmd.Flags().IntVar(&PublishWorkers, "workers", 4, "how many apps to publish at once")
}

// target is one fully-specified page to publish.
type target struct {
	Name    string
	Request publish.Request
	Report  report.Report
}

type namedApp struct {
	name string
	cfg  AppConfig
}

type outcome struct {
	Location string
	Err      error
}

func runPublish(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	policy, err := parseDuplicatePolicy(OnDuplicate)
	if err != nil {
		return err
	}

	targets, err := collectTargets()
	if err != nil {
		return err
	}

	if DryRun {
		return previewTargets(targets)
	}

	api, stop, err := newAPI()
	if err != nil {
		return err
	}
	defer stop()

	opts := []publish.Option{
		publish.WithLogger(logger),
		publish.WithDuplicatePolicy(policy),
	}
	if StrictMatching {
		opts = append(opts, publish.WithStrictMatching())
	}
	publisher := publish.NewPublisher(api, opts...)

	outcomes := make([]outcome, len(targets))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(max(PublishWorkers, 1))
	for i, t := range targets {
		i, t := i, t
		grp.Go(func() error {
			location, err := publisher.Publish(gctx, t.Request)
			outcomes[i] = outcome{Location: location, Err: err}
			// one app failing shouldn't stop the others.
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return fmt.Errorf("publish: failure: %w", err)
	}

	failed := 0
	for i, t := range targets {
		o := outcomes[i]
		if o.Err != nil {
			failed++
			logger.Error("Page creation failed", zap.String("app", t.Name), zap.Error(o.Err))
			fmt.Printf("%v %s: %v\n", termfmt.Bold().Fg(termfmt.Red).V("✗"), t.Name, o.Err)
			continue
		}
		fmt.Printf("%v %s: %v\n",
			termfmt.Bold().Fg(termfmt.Green).V("✓"),
			t.Name,
			termfmt.Linked(o.Location).V(o.Location))
	}

	if failed > 0 {
		return fmt.Errorf("publish: %d of %d pages failed", failed, len(targets))
	}
	return nil
}

func parseDuplicatePolicy(s string) (publish.DuplicatePolicy, error) {
	switch s {
	case "", "create":
		return publish.CreateDuplicate, nil
	case "reject":
		return publish.RejectDuplicate, nil
	}
	return publish.CreateDuplicate, fmt.Errorf("publish: --on-duplicate must be create or reject, got '%s'", s)
}

// collectTargets works out what to publish and loads every report up front, so that a typo in one
// app's config is caught before anything is created.
func collectTargets() ([]target, error) {
	names := PublishApps
	if PublishAll {
		names = maps.Keys(ParsedConfig.Apps)
		slices.Sort(names)
		if len(names) == 0 {
			return nil, fmt.Errorf("publish: --all given but the config file has no apps")
		}
	}

	var apps []namedApp
	if len(names) == 0 {
		// flags only
		apps = append(apps, namedApp{name: "page"})
	}
	for _, name := range names {
		cfg, ok := ParsedConfig.Apps[name]
		if !ok {
			return nil, fmt.Errorf("publish: app %s not found in config", name)
		}
		apps = append(apps, namedApp{name: name, cfg: cfg})
	}

	targets := make([]target, 0, len(apps))
	for _, app := range apps {
		t, err := buildTarget(app.name, applyOverrides(app.cfg))
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}

	return targets, nil
}

func applyOverrides(cfg AppConfig) AppConfig {
	if PublishSpace != "" {
		cfg.SpaceKey = PublishSpace
	}
	if PublishPath != "" {
		cfg.ParentPath = PublishPath
	}
	if PublishTitle != "" {
		cfg.FixVersion = PublishTitle
	}
	if PublishReport != "" {
		cfg.Report = PublishReport
	}
	return cfg
}

func buildTarget(name string, cfg AppConfig) (target, error) {
	if cfg.Report == "" {
		return target{}, fmt.Errorf("publish(%s): no report given, set report or --report", name)
	}
	if cfg.ParentPath == "" {
		return target{}, fmt.Errorf("publish(%s): no parent path given, set parent-path or --parent-path", name)
	}

	path, err := publish.ParsePath(cfg.ParentPath)
	if err != nil {
		return target{}, fmt.Errorf("publish(%s): bad parent path '%s': %w", name, cfg.ParentPath, err)
	}

	rep, err := report.Load(cfg.Report)
	if err != nil {
		return target{}, fmt.Errorf("publish(%s): %w", name, err)
	}

	title := cfg.FixVersion
	if title == "" {
		title = rep.Title
	}
	if title == "" {
		return target{}, fmt.Errorf("publish(%s): no title given, set fix-version or --title", name)
	}

	return target{
		Name:   name,
		Report: rep,
		Request: publish.Request{
			Space:   cfg.Space(),
			Path:    path,
			Title:   title,
			Content: rep.Body,
		},
	}, nil
}

func previewTargets(targets []target) error {
	base := BaseURL
	if base == "" {
		base = "https://confluence.invalid"
	}

	for _, t := range targets {
		markdown, err := report.Preview(t.Request.Content, base)
		if err != nil {
			return fmt.Errorf("publish(%s): %w", t.Name, err)
		}

		fmt.Printf("%v\n", termfmt.Bold().V(fmt.Sprintf("%s: would create '%s' in %s under %s",
			t.Name, t.Request.Title, t.Request.Space, t.Request.Path)))
		fmt.Printf("  source: %s\n\n%s\n\n", t.Report.Source, markdown)
	}
	return nil
}
