// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-extract/internal/batch"
	"github.com/pdiddy/content-extract/internal/extractor"
	"github.com/pdiddy/content-extract/internal/hooks"
	"github.com/pdiddy/content-extract/internal/watch"
)

func init() {
	f := rootCmd.Flags()
	f.String("from", "", "read URLs from FILE, one per line (# comments allowed)")
	f.Bool("skip-resources", false, "extract only the primary article, not linked resources")
	f.StringArray("hook", nil, "post-extraction hook script or manifest (repeatable)")
	f.Bool("no-config-hooks", false, "ignore hooks declared in the config file")
	f.Int("concurrency", 1, "number of URLs to extract at once")
	f.String("since", "", "YouTube channels: only videos since 7d, 2w, 1m, YYYY-MM-DD or YYYYMMDD")
	addFormatFlag(f, "print results to stdout as json or yaml")
}

func runExtract(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	skip, _ := cmd.Flags().GetBool("skip-resources")
	hookPaths, _ := cmd.Flags().GetStringArray("hook")
	noConfigHooks, _ := cmd.Flags().GetBool("no-config-hooks")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	since, _ := cmd.Flags().GetString("since")
	format := formatOf(cmd)

	if len(args) == 0 && from == "" {
		return cmd.Help()
	}
	urls := args
	if from != "" {
		listed, err := watch.ReadURLs(from)
		if err != nil {
			return fmt.Errorf("reading %s: %w", from, err)
		}
		urls = append(urls, listed...)
	}
	urls = batch.Dedup(urls)
	if len(urls) == 0 {
		return fmt.Errorf("provide one or more URLs or --from FILE")
	}

	explicit, err := hooks.LoadScripts(hookPaths)
	if err != nil {
		return err
	}

	a, err := newApp(appOptions{noConfigHooks: noConfigHooks, since: since, sessions: concurrency, record: true})
	if err != nil {
		return err
	}
	defer a.Close()

	var status io.Writer = os.Stdout
	if format != "" {
		status = os.Stderr
	}
	res := batch.Run(cmd.Context(), a.ext, urls, batch.Options{
		Extract: extractor.Options{
			OutputDir:     cfg.OutputDir,
			Hooks:         explicit,
			SkipResources: skip,
		},
		Concurrency: concurrency,
		Delay:       cfg.Delay,
	}, status)

	if format != "" {
		if err := writeFormatted(os.Stdout, format, res.Results); err != nil {
			return err
		}
	}
	if res.HasFailures() {
		return fmt.Errorf("%d of %d URL(s) failed", res.Failed, res.Total())
	}
	return nil
}
