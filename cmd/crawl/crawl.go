// Package crawl implements the crawl command: build the target list and
// run the orchestrator against it.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/matchcrawl/cmd/common"
	"github.com/jonesrussell/matchcrawl/internal/config"
	"github.com/jonesrussell/matchcrawl/internal/crawler"
)

// Options selects what a crawl run covers.
type Options struct {
	// Regions are ad-hoc target region keys, or the --all region filter.
	Regions []string
	// Competitions zip with Regions to form ad-hoc targets.
	Competitions []string
	// SeasonURLs zip with Regions and Competitions.
	SeasonURLs []string
	// All crawls the whole discovered catalog.
	All bool
}

// Command returns the crawl command.
func Command() *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Run an incremental crawl",
		Long: `Crawl the configured targets, ad-hoc targets given as repeated
--region/--competition/--season-url triples, or the whole discovered
catalog with --all. Records already persisted are never re-fetched;
interrupting the run keeps everything extracted so far.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Regions, "region", nil,
		"target region key; with --all, restricts the crawl to these regions")
	cmd.Flags().StringSliceVar(&opts.Competitions, "competition", nil,
		"target competition key, paired with --region")
	cmd.Flags().StringSliceVar(&opts.SeasonURLs, "season-url", nil,
		"season results URL, paired with --region and --competition")
	cmd.Flags().BoolVar(&opts.All, "all", false,
		"crawl every competition in the discovered catalog")

	return cmd
}

// Run builds a fresh crawl stack and executes one crawl over the
// selected targets. The schedule command reuses it per tick.
func Run(ctx context.Context, opts Options) error {
	deps, err := common.BuildDeps()
	if err != nil {
		return err
	}
	log := deps.Logger

	components, err := common.BuildComponents(deps)
	if err != nil {
		return err
	}

	// Stop gracefully on SIGINT/SIGTERM: finish the current record,
	// skip the rest, close the browser, keep accumulated state.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog discovery during target selection needs a live page source,
	// so the session starts before targets are selected. The orchestrator
	// shares it; Start tolerates the second call from Run.
	if err := components.Session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer components.Session.Close()

	selector, err := targetSelector(deps, components, opts)
	if err != nil {
		return err
	}

	targets, err := selector.SelectTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to select targets: %w", err)
	}
	if len(targets) == 0 {
		return errors.New("no crawl targets: configure targets, pass --region/--competition/--season-url, or pass --all")
	}

	stats, runErr := components.Crawler.Run(ctx, targets)
	snapshot := stats.Snapshot()
	log.Info("Run summary",
		"run_id", snapshot.RunID,
		"attempted", snapshot.Attempted,
		"succeeded", snapshot.Succeeded,
		"failed", snapshot.Failed,
		"skipped_targets", snapshot.SkippedTargets,
	)
	return runErr
}

// targetSelector picks the strategy: ad-hoc flag triples when given,
// the full catalog with --all, static configured targets otherwise.
func targetSelector(
	deps *common.Deps,
	components *common.Components,
	opts Options,
) (crawler.TargetSelector, error) {
	if opts.All {
		return &crawler.CatalogTargets{
			Cache:   components.Cache,
			Regions: opts.Regions,
		}, nil
	}

	if len(opts.SeasonURLs) > 0 {
		if len(opts.Regions) != len(opts.SeasonURLs) ||
			len(opts.Competitions) != len(opts.SeasonURLs) {
			return nil, errors.New(
				"--region, --competition and --season-url must be given the same number of times")
		}
		targets := make([]config.TargetConfig, 0, len(opts.SeasonURLs))
		for i := range opts.SeasonURLs {
			targets = append(targets, config.TargetConfig{
				Region:      opts.Regions[i],
				Competition: opts.Competitions[i],
				SeasonURL:   opts.SeasonURLs[i],
			})
		}
		return crawler.StaticTargets(targets), nil
	}

	return crawler.StaticTargets(deps.Config.GetTargets()), nil
}
