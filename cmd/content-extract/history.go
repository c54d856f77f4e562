// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pdiddy/content-extract/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show past extractions from the ledger",
	Long: `History lists recorded extractions, newest first. Given an id, it prints
that extraction's full result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries")
	historyCmd.Flags().String("url", "", "only entries for this URL")
	historyCmd.Flags().Bool("failed", false, "only failed extractions")
	addFormatFlag(historyCmd.Flags(), "print as json or yaml instead of a table")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	format := formatOf(cmd)
	if !cfg.Ledger.Enabled {
		return errors.New("the ledger is disabled in the config ([ledger] enabled = false)")
	}
	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		e, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if format == "" {
			format = "json"
		}
		return writeFormatted(os.Stdout, format, e)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	url, _ := cmd.Flags().GetString("url")
	failed, _ := cmd.Flags().GetBool("failed")
	entries, err := store.List(cmd.Context(), ledger.ListOptions{Limit: limit, URL: url, FailedOnly: failed})
	if err != nil {
		return err
	}
	if format != "" {
		return writeFormatted(os.Stdout, format, entries)
	}
	if len(entries) == 0 {
		pterm.Info.Println("No extractions recorded.")
		return nil
	}

	data := pterm.TableData{{"ID", "When", "Status", "Type", "URL", "Resources", "Hooks"}}
	for _, e := range entries {
		status := pterm.Green("ok")
		if !e.Success {
			status = pterm.Red("failed")
		}
		data = append(data, []string{
			e.ID[:8],
			e.CreatedAt.Local().Format(time.DateTime),
			status,
			e.ResourceType,
			e.URL,
			countWithFailures(e.Resources, e.ResourceFailures),
			countWithFailures(e.Hooks, e.HookFailures),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func countWithFailures(n, failed int) string {
	if failed == 0 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%d (%d failed)", n, failed)
}
