// Package schedule implements the schedule command: run crawls on a
// recurring cron schedule.
package schedule

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/matchcrawl/cmd/common"
	crawlcmd "github.com/jonesrussell/matchcrawl/cmd/crawl"
)

// Command returns the schedule command.
func Command() *cobra.Command {
	var (
		spec    string
		regions []string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run crawls on a recurring schedule",
		Long: `Run the crawl command on a cron schedule until interrupted. Each
tick builds a fresh crawl stack, so a crashed browser never poisons
later runs. Ticks that would overlap a still-running crawl are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), spec, regions, all)
		},
	}

	cmd.Flags().StringVar(&spec, "cron", "0 3 * * *",
		"cron expression for crawl runs")
	cmd.Flags().StringSliceVar(&regions, "region", nil,
		"restrict --all crawls to these region keys")
	cmd.Flags().BoolVar(&all, "all", false,
		"crawl every competition in the discovered catalog")

	return cmd
}

func run(ctx context.Context, spec string, regions []string, all bool) error {
	deps, err := common.BuildDeps()
	if err != nil {
		return err
	}
	log := deps.Logger.WithComponent("schedule")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One crawl at a time; a tick that fires while the previous run is
	// still going is dropped rather than queued.
	var running sync.Mutex

	c := cron.New()
	_, err = c.AddFunc(spec, func() {
		if !running.TryLock() {
			log.Warn("Previous crawl still running, skipping tick")
			return
		}
		defer running.Unlock()

		log.Info("Scheduled crawl starting")
		if err := crawlcmd.Run(ctx, crawlcmd.Options{Regions: regions, All: all}); err != nil {
			log.Error("Scheduled crawl failed", "error", err)
			return
		}
		log.Info("Scheduled crawl finished")
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	log.Info("Schedule started", "cron", spec)
	c.Start()

	<-ctx.Done()
	log.Info("Shutting down schedule")

	// Let an in-flight crawl observe cancellation and finish cleanly.
	<-c.Stop().Done()
	running.Lock()
	return nil
}
