// Package cache implements the cache command: report the state of the
// on-disk discovery cache.
package cache

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/matchcrawl/cmd/common"
)

// Command returns the cache command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the discovery cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show cache entries and their age",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	})

	return cmd
}

func runStatus() error {
	deps, err := common.BuildDeps()
	if err != nil {
		return err
	}

	components, err := common.BuildComponents(deps)
	if err != nil {
		return err
	}

	entries, err := components.Cache.Status()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("cache is empty")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Key", "Age", "Expired"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Key, e.Age.Round(time.Second), e.Expired})
	}
	t.Render()
	return nil
}
