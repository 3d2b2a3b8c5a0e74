// Package catalog implements the catalog command: show the discovered
// region and competition hierarchy.
package catalog

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/matchcrawl/cmd/common"
	"github.com/jonesrussell/matchcrawl/internal/catalog"
	"github.com/jonesrussell/matchcrawl/internal/domain"
)

// Command returns the catalog command.
func Command() *cobra.Command {
	var regions []string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the discovered catalog",
		Long: `List the regions known to the crawler, served from the discovery
cache when it is still valid. Pass --region to expand one or more
regions into their competitions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), regions)
		},
	}

	cmd.Flags().StringSliceVar(&regions, "region", nil,
		"expand these region keys into their competitions")

	return cmd
}

func run(ctx context.Context, regionKeys []string) error {
	deps, err := common.BuildDeps()
	if err != nil {
		return err
	}

	components, err := common.BuildComponents(deps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The cache answers from disk when it can; starting the browser up
	// front keeps the probe usable on a miss.
	if err := components.Session.Start(ctx); err != nil {
		deps.Logger.Warn("Browser unavailable, discovery limited to cache and seed",
			"error", err)
	}
	defer components.Session.Close()

	regions, err := components.Cache.GetOrDiscover(ctx, catalog.RegionsScope())
	if err != nil {
		return err
	}

	if len(regionKeys) == 0 {
		renderNodes(regions)
		return nil
	}

	for _, region := range regions {
		if !slices.Contains(regionKeys, region.Key) {
			continue
		}
		competitions, err := components.Cache.GetOrDiscover(
			ctx, catalog.CompetitionsScope(region))
		if err != nil {
			return err
		}
		renderNodes(competitions)
	}
	return nil
}

func renderNodes(nodes []domain.CatalogNode) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Kind", "Key", "Name", "Parent", "URL"})
	for _, n := range nodes {
		t.AppendRow(table.Row{n.Kind, n.Key, n.Name, n.ParentKey, n.URL})
	}
	t.Render()
}
