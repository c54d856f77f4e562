// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package adapters holds the source adapters and the default registries
// that order them.
package adapters

import (
	"github.com/pdiddy/content-extract/internal/browser"
	"github.com/pdiddy/content-extract/internal/extractor"
	"github.com/pdiddy/content-extract/internal/httputil"
	"github.com/pdiddy/content-extract/pkg/types"
)

// SessionSource lends pooled browser sessions and opens dedicated ones.
// *browser.Pool satisfies it.
type SessionSource interface {
	browser.Sessions
	DedicatedSessions
}

// Deps are the collaborators the default adapters share.
type Deps struct {
	Sessions SessionSource
	HTTP     *httputil.Client
	Config   types.Config

	// Since limits YouTube channel listings (YYYYMMDD). Empty lists all.
	Since string
}

func (d Deps) ordered() []extractor.Adapter {
	yt := NewYouTube(d.Config.YouTube)
	yt.DateAfter = d.Since
	return []extractor.Adapter{
		NewExcalidraw(d.Sessions, d.Config.Browser.ExcalidrawProfileDir),
		NewSubstack(d.Sessions),
		NewNotion(d.Sessions),
		NewDrive(d.HTTP),
		yt,
		NewMedium(d.Sessions),
	}
}

// DefaultRegistry routes primary URLs: Excalidraw, Substack, Notion, Drive,
// YouTube, Medium, and GenericWeb as the fallback.
func DefaultRegistry(d Deps) *extractor.Registry {
	reg := extractor.NewRegistry(d.ordered()...)
	reg.RegisterFallback(NewGenericWeb(d.Sessions))
	return reg
}

// DefaultResourceRegistry routes linked resources in the same order but
// falls back to Catalog, so arbitrary outbound links are recorded rather
// than scraped.
func DefaultResourceRegistry(d Deps) *extractor.Registry {
	reg := extractor.NewRegistry(d.ordered()...)
	reg.RegisterFallback(Catalog{})
	return reg
}
