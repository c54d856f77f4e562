// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"context"
	"errors"
	"strings"

	"github.com/pdiddy/content-extract/internal/article"
	"github.com/pdiddy/content-extract/pkg/types"
)

// fakeAdapter records every Extract call. A nil extract succeeds without
// writing anything.
type fakeAdapter struct {
	rt      string
	match   func(url, hint string) bool
	extract func(ctx context.Context, url, linkText, dir string) types.ExtractionResult
	calls   []string
	dirs    []string
}

func (f *fakeAdapter) ResourceType() string { return f.rt }

func (f *fakeAdapter) CanHandle(url, hint string) bool {
	if f.match == nil {
		return false
	}
	return f.match(url, hint)
}

func (f *fakeAdapter) Extract(ctx context.Context, url, linkText, dir string) types.ExtractionResult {
	f.calls = append(f.calls, url)
	f.dirs = append(f.dirs, dir)
	if f.extract == nil {
		return types.Succeeded(f.rt)
	}
	return f.extract(ctx, url, linkText, dir)
}

type deepFake struct {
	*fakeAdapter
	depth int
}

func (d deepFake) TraversalDepth() int { return d.depth }

func hostMatch(fragment string) func(string, string) bool {
	return func(url, _ string) bool { return strings.Contains(url, fragment) }
}

func hintMatch(hint string) func(string, string) bool {
	return func(_, h string) bool { return h == hint }
}

func always(string, string) bool { return true }

// writesLinks returns an extract func that writes metadata.json with the
// given links, the way browser-backed adapters do.
func writesLinks(rt string, links ...types.LinkedResource) func(context.Context, string, string, string) types.ExtractionResult {
	return func(_ context.Context, url, _, dir string) types.ExtractionResult {
		meta := types.Metadata{"url": url, types.MetaResourceType: rt, types.MetaLinks: links}
		path, err := article.WriteMetadata(dir, meta)
		if err != nil {
			return types.Failed(rt, err)
		}
		return types.Succeeded(rt, path)
	}
}

func failsWith(rt, msg string) func(context.Context, string, string, string) types.ExtractionResult {
	return func(context.Context, string, string, string) types.ExtractionResult {
		return types.Failed(rt, errors.New(msg))
	}
}

type recorderFunc func(context.Context, types.AggregateResult) error

func (f recorderFunc) Record(ctx context.Context, res types.AggregateResult) error {
	return f(ctx, res)
}
