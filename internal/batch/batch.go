// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch extracts a list of URLs, sequentially with a pause between
// them or concurrently with a bound, and prints one status line per URL.
package batch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/content-extract/internal/extractor"
	"github.com/pdiddy/content-extract/pkg/types"
)

// Extractor runs one extraction. *extractor.Extractor satisfies it.
type Extractor interface {
	ExtractURL(ctx context.Context, url string, opts extractor.Options) types.AggregateResult
}

// Options controls a batch run.
type Options struct {
	Extract extractor.Options

	// Concurrency above 1 runs that many extractions at once and disables
	// Delay.
	Concurrency int

	// Delay is the pause between consecutive sequential extractions.
	Delay time.Duration
}

// Result counts a batch run. Results are in input order.
type Result struct {
	Succeeded int
	Failed    int
	Results   []types.AggregateResult
}

// Total returns the number of URLs processed.
func (r Result) Total() int {
	return r.Succeeded + r.Failed
}

// HasFailures reports whether any primary extraction failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

var pause = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Dedup drops blank and repeated URLs, keeping first occurrences in order.
func Dedup(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// Run extracts urls and writes a status line for each to w, then a
// summary. URLs are not deduplicated here. In concurrent mode, URLs that map
// to the same article directory run one after another in input order.
func Run(ctx context.Context, ext Extractor, urls []string, opts Options, w io.Writer) Result {
	results := make([]types.AggregateResult, len(urls))
	var mu sync.Mutex
	report := func(agg types.AggregateResult) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, Status(agg))
	}

	if opts.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for _, group := range byArticleDir(urls, opts.Extract.OutputDir) {
			g.Go(func() error {
				for _, i := range group {
					results[i] = ext.ExtractURL(gctx, urls[i], opts.Extract)
					report(results[i])
				}
				return nil
			})
		}
		g.Wait()
	} else {
		for i, u := range urls {
			if i > 0 && opts.Delay > 0 {
				if err := pause(ctx, opts.Delay); err != nil {
					results = results[:i]
					break
				}
			}
			results[i] = ext.ExtractURL(ctx, u, opts.Extract)
			report(results[i])
		}
	}

	res := Result{Results: results}
	for _, agg := range results {
		if agg.Success {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d failed (total: %d)\n", res.Succeeded, res.Failed, res.Total())
	return res
}

// byArticleDir groups the indexes of urls by article directory, in order of
// first appearance.
func byArticleDir(urls []string, outputDir string) [][]int {
	pos := make(map[string]int, len(urls))
	var groups [][]int
	for i, u := range urls {
		dir := extractor.ArticleDir(outputDir, u)
		n, ok := pos[dir]
		if !ok {
			n = len(groups)
			pos[dir] = n
			groups = append(groups, nil)
		}
		groups[n] = append(groups[n], i)
	}
	return groups
}

// Status formats the one-line outcome of agg.
func Status(agg types.AggregateResult) string {
	if !agg.Success {
		return fmt.Sprintf("failed:  %s (%s)", agg.URL, agg.Primary.Error)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ok:      %s -> %s [%s]", agg.URL, agg.ArticleDir, agg.Primary.ResourceType)
	if n := len(agg.Resources); n > 0 {
		fmt.Fprintf(&b, ", %d resources", n)
		if f := agg.ResourceFailures(); f > 0 {
			fmt.Fprintf(&b, " (%d failed)", f)
		}
	}
	if n := len(agg.Hooks); n > 0 {
		fmt.Fprintf(&b, ", %d hooks", n)
		if f := agg.HookFailures(); f > 0 {
			fmt.Fprintf(&b, " (%d failed)", f)
		}
	}
	if agg.Primary.Note != "" {
		fmt.Fprintf(&b, "; %s", agg.Primary.Note)
	}
	return b.String()
}
