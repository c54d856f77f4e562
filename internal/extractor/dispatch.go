// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/article"
	"github.com/pdiddy/content-extract/internal/slug"
	"github.com/pdiddy/content-extract/pkg/types"
)

const (
	downloadsDir = "downloads"

	// MaxTraversalDepth caps how deep a DeepAdapter can ask dispatch to go.
	MaxTraversalDepth = 3

	unknownResourceType = "unknown"
)

// ResourceDir returns the deterministic destination for a resource of the
// given type: <articleDir>/downloads/<type>-<slug>.
func ResourceDir(articleDir, resourceType, url string) string {
	return filepath.Join(articleDir, downloadsDir, resourceType+"-"+slug.Resource(url))
}

// Dispatch extracts each linked resource through reg, in discovery order.
// Duplicate and empty URLs are skipped. Every resolved resource yields a
// result, failed or not; one resource failing never stops the rest.
//
// Dispatch goes one hop deep. Only resources handled by a DeepAdapter have
// their own links dispatched in turn, below their own directory.
func Dispatch(ctx context.Context, reg *Registry, links []types.LinkedResource, articleDir string) []types.ExtractionResult {
	d := &dispatcher{registry: reg, seen: make(map[string]struct{})}
	d.run(ctx, links, articleDir, 1, 1)
	return d.results
}

type dispatcher struct {
	registry *Registry
	seen     map[string]struct{}
	results  []types.ExtractionResult
}

func (d *dispatcher) run(ctx context.Context, links []types.LinkedResource, articleDir string, hop, limit int) {
	for _, link := range links {
		if link.URL == "" {
			continue
		}
		if _, dup := d.seen[link.URL]; dup {
			continue
		}
		d.seen[link.URL] = struct{}{}

		if err := ctx.Err(); err != nil {
			d.results = append(d.results, withURL(types.Failed(unknownResourceType, err), link.URL))
			continue
		}

		adapter, err := d.registry.Resolve(link.URL, link.ResourceTypeHint)
		if err != nil {
			log.Warn().Str("url", link.URL).Err(err).Msg("resource not routed")
			d.results = append(d.results, withURL(types.Failed(unknownResourceType, err), link.URL))
			continue
		}

		dir := ResourceDir(articleDir, adapter.ResourceType(), link.URL)
		log.Debug().Str("url", link.URL).Str("adapter", adapter.ResourceType()).Int("hop", hop).Msg("dispatching resource")

		res := adapter.Extract(ctx, link.URL, link.LinkText, dir).Normalize()
		if res.ResourceType == "" {
			res.ResourceType = adapter.ResourceType()
		}
		res = withURL(res, link.URL)
		if !res.Success {
			log.Warn().Str("url", link.URL).Str("error", res.Error).Msg("resource extraction failed")
		}
		d.results = append(d.results, res)

		next := limit
		if deep, ok := adapter.(DeepAdapter); ok {
			next = max(limit, min(deep.TraversalDepth(), MaxTraversalDepth))
		}
		if res.Success && hop < next {
			children := res.Metadata.Links()
			if children == nil {
				children = readLinks(dir)
			}
			d.run(ctx, children, dir, hop+1, next)
		}
	}
}

func withURL(r types.ExtractionResult, url string) types.ExtractionResult {
	r.URL = url
	return r
}

func readLinks(dir string) []types.LinkedResource {
	meta, err := article.ReadMetadata(dir)
	if err != nil {
		return nil
	}
	return meta.Links()
}
