// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/article"
	"github.com/pdiddy/content-extract/internal/hooks"
	"github.com/pdiddy/content-extract/internal/slug"
	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

// DefaultOutputDir is used when Options.OutputDir is empty.
const DefaultOutputDir = "output"

// Recorder persists the outcome of each extraction.
type Recorder interface {
	Record(ctx context.Context, res types.AggregateResult) error
}

// Options controls one ExtractURL call.
type Options struct {
	// OutputDir is the parent of the article directory.
	OutputDir string

	// Hooks run before any config-declared hooks.
	Hooks []hooks.Hook

	// SkipResources disables dispatch of linked resources.
	SkipResources bool
}

// Extractor composes registry lookup, primary extraction, resource
// dispatch, and the hook pipeline. An Extractor holds no per-call state;
// concurrent ExtractURL calls are safe as long as they target distinct
// article directories.
type Extractor struct {
	registry  *Registry
	resources *Registry
	hooks     []hooks.Hook
	recorder  Recorder
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithResourceRegistry routes dispatched resources through reg instead of
// the primary registry.
func WithResourceRegistry(reg *Registry) Option {
	return func(e *Extractor) { e.resources = reg }
}

// WithConfigHooks sets the config-declared hooks, run after explicit hooks.
func WithConfigHooks(hs ...hooks.Hook) Option {
	return func(e *Extractor) { e.hooks = hs }
}

// WithRecorder records every aggregate result.
func WithRecorder(r Recorder) Option {
	return func(e *Extractor) { e.recorder = r }
}

// New returns an Extractor that resolves primary URLs through reg.
func New(reg *Registry, opts ...Option) *Extractor {
	e := &Extractor{registry: reg}
	for _, opt := range opts {
		opt(e)
	}
	if e.resources == nil {
		e.resources = reg
	}
	return e
}

// Registry returns the primary registry.
func (e *Extractor) Registry() *Registry { return e.registry }

// ResourceRegistry returns the registry used for dispatched resources.
func (e *Extractor) ResourceRegistry() *Registry { return e.resources }

// ArticleDir returns the article directory for url under outputDir. The
// same inputs always give the same path, and the path never leaves
// outputDir.
func ArticleDir(outputDir, url string) string {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	name := slug.FromURL(url)
	if !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		name = unknownResourceType
	}
	return filepath.Join(outputDir, name)
}

// ExtractURL extracts url and everything hanging off it. It always returns
// an aggregate; Success reflects only the primary extraction. Resources are
// dispatched and hooks run only after a successful primary extraction.
// Files already written stay on disk whatever happens later.
func (e *Extractor) ExtractURL(ctx context.Context, url string, opts Options) types.AggregateResult {
	dir := ArticleDir(opts.OutputDir, url)
	agg := types.AggregateResult{
		URL:        url,
		ArticleDir: dir,
		Resources:  []types.ExtractionResult{},
		Hooks:      []types.HookResult{},
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		agg.Primary = withURL(types.Failed(unknownResourceType, fmt.Errorf("creating article directory: %w", err)), url)
		return e.finish(ctx, agg)
	}

	hint := string(urlkind.Detect(url))
	adapter, err := e.registry.Resolve(url, hint)
	if err != nil {
		log.Warn().Str("url", url).Err(err).Msg("url not routed")
		agg.Primary = withURL(types.Failed(unknownResourceType, err), url)
		return e.finish(ctx, agg)
	}

	log.Info().Str("url", url).Str("adapter", adapter.ResourceType()).Str("dir", dir).Msg("extracting")
	primary := adapter.Extract(ctx, url, "", dir).Normalize()
	if primary.ResourceType == "" {
		primary.ResourceType = adapter.ResourceType()
	}
	agg.Primary = withURL(primary, url)
	agg.Success = primary.Success
	if !primary.Success {
		log.Warn().Str("url", url).Str("error", primary.Error).Msg("extraction failed")
		return e.finish(ctx, agg)
	}

	meta := mergeMetadata(dir, primary)
	if !opts.SkipResources {
		agg.Resources = Dispatch(ctx, e.resources, meta.Links(), dir)
		if len(agg.Resources) > 0 {
			meta[types.MetaResourceExtraction] = agg.Resources
			log.Info().Str("url", url).Int("resources", len(agg.Resources)).
				Int("failed", agg.ResourceFailures()).Msg("resources dispatched")
		}
	}
	if _, err := article.WriteMetadata(dir, meta); err != nil {
		log.Warn().Str("dir", dir).Err(err).Msg("updating metadata")
	}

	agg.Hooks = hooks.Run(ctx, hooks.Merge(opts.Hooks, e.hooks), meta, dir)
	return e.finish(ctx, agg)
}

func (e *Extractor) finish(ctx context.Context, agg types.AggregateResult) types.AggregateResult {
	if e.recorder != nil {
		if err := e.recorder.Record(ctx, agg); err != nil {
			log.Warn().Str("url", agg.URL).Err(err).Msg("recording extraction")
		}
	}
	return agg
}

// mergeMetadata combines the metadata.json the adapter wrote with the
// metadata it returned in memory. The file wins on conflicting keys.
// resourceType is always present in the result.
func mergeMetadata(dir string, primary types.ExtractionResult) types.Metadata {
	meta, err := article.ReadMetadata(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("dir", dir).Err(err).Msg("reading metadata")
		}
		meta = types.Metadata{}
	}
	for k, v := range primary.Metadata {
		if _, ok := meta[k]; !ok {
			meta[k] = v
		}
	}
	if rt, _ := meta[types.MetaResourceType].(string); rt == "" {
		meta[types.MetaResourceType] = primary.ResourceType
	}
	return meta
}
