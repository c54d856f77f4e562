// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pdiddy/content-extract/internal/adapters"
	"github.com/pdiddy/content-extract/internal/extractor"
)

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "List adapters in resolution order",
	Long: `Adapters prints the order in which URLs are matched against adapters. The
first adapter that accepts a URL handles it. Primary URLs fall back to the
generic web adapter; linked resources fall back to catalog, which records
the link without fetching it.`,
	RunE: runAdapters,
}

func init() {
	addFormatFlag(adaptersCmd.Flags(), "print as json or yaml instead of a table")
	rootCmd.AddCommand(adaptersCmd)
}

func runAdapters(cmd *cobra.Command, _ []string) error {
	format := formatOf(cmd)
	deps := adapters.Deps{Config: cfg}
	primary := adapters.DefaultRegistry(deps).Entries()
	resources := adapters.DefaultResourceRegistry(deps).Entries()

	if format != "" {
		return writeFormatted(os.Stdout, format, map[string][]extractor.Entry{
			"primary":   primary,
			"resources": resources,
		})
	}

	data := pterm.TableData{{"#", "Primary", "Resources"}}
	for i := range primary {
		data = append(data, []string{
			strconv.Itoa(primary[i].Position),
			entryLabel(primary[i]),
			entryLabel(resources[i]),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}

func entryLabel(e extractor.Entry) string {
	if e.Fallback {
		return e.ResourceType + " (fallback)"
	}
	return e.ResourceType
}
