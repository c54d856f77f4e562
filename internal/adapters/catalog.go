// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"context"

	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

// CatalogType is the registry name of the Catalog adapter.
const CatalogType = "catalog"

// Catalog records a resource without fetching it. It accepts every URL and
// is meant to be the fallback of the resource registry.
type Catalog struct{}

func (Catalog) ResourceType() string { return CatalogType }

func (Catalog) CanHandle(string, string) bool { return true }

// Extract writes nothing. The result's resource type is inferred from the
// URL so the article metadata still says what kind of link it was.
func (Catalog) Extract(_ context.Context, url, linkText, _ string) types.ExtractionResult {
	kind := urlkind.Detect(url)
	if kind == urlkind.Web {
		kind = urlkind.External
	}
	res := types.Succeeded(string(kind))
	res.Note = "catalogued only"
	res.Metadata = types.Metadata{
		"url":                  url,
		"linkText":             linkText,
		"domain":               urlkind.Domain(url),
		types.MetaResourceType: string(kind),
	}
	return res
}
