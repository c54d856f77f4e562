// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-extract/internal/batch"
	"github.com/pdiddy/content-extract/internal/extractor"
	"github.com/pdiddy/content-extract/internal/hooks"
	"github.com/pdiddy/content-extract/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Extract URLs as they are added to a list file",
	Long: `Watch extracts every URL in FILE, then keeps watching it and extracts URLs
as they are appended. URLs the ledger already records as extracted are
skipped. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("skip-resources", false, "extract only the primary article, not linked resources")
	watchCmd.Flags().StringArray("hook", nil, "post-extraction hook script or manifest (repeatable)")
	watchCmd.Flags().Bool("no-config-hooks", false, "ignore hooks declared in the config file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	skip, _ := cmd.Flags().GetBool("skip-resources")
	hookPaths, _ := cmd.Flags().GetStringArray("hook")
	noConfigHooks, _ := cmd.Flags().GetBool("no-config-hooks")

	explicit, err := hooks.LoadScripts(hookPaths)
	if err != nil {
		return err
	}
	a, err := newApp(appOptions{noConfigHooks: noConfigHooks, record: true})
	if err != nil {
		return err
	}
	defer a.Close()

	opts := extractor.Options{OutputDir: cfg.OutputDir, Hooks: explicit, SkipResources: skip}
	handle := func(ctx context.Context, url string) {
		agg := a.ext.ExtractURL(ctx, url, opts)
		fmt.Fprintln(cmd.OutOrStdout(), batch.Status(agg))
	}

	var wopts []watch.Option
	if a.ledger != nil {
		wopts = append(wopts, watch.WithSeen(a.ledger))
	}
	return watch.New(args[0], handle, wopts...).Run(cmd.Context())
}
