// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"strings"

	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

// ClassifyLink tags l with a resource-type hint, or reports false for links
// that are not resources: anchors, scripts, mail links, CDN images, and
// Substack navigation that is not a post.
func ClassifyLink(l types.LinkedResource) (types.LinkedResource, bool) {
	u := strings.TrimSpace(l.URL)
	switch {
	case u == "",
		strings.HasPrefix(u, "#"),
		strings.HasPrefix(strings.ToLower(u), "javascript:"),
		strings.HasPrefix(strings.ToLower(u), "mailto:"),
		strings.Contains(u, "substackcdn.com/image"):
		return l, false
	}

	kind := urlkind.Detect(u)
	switch kind {
	case urlkind.Substack:
		if !strings.Contains(u, "/p/") {
			return l, false
		}
	case urlkind.Web:
		kind = urlkind.External
	}

	l.URL = u
	l.LinkText = strings.TrimSpace(l.LinkText)
	l.ResourceTypeHint = string(kind)
	if l.Context == "" {
		l.Context = "paragraph"
	}
	return l, true
}

// ClassifyLinks applies ClassifyLink to each link, keeping order and
// dropping non-resources. The result is never nil.
func ClassifyLinks(links []types.LinkedResource) []types.LinkedResource {
	out := make([]types.LinkedResource, 0, len(links))
	for _, l := range links {
		if c, ok := ClassifyLink(l); ok {
			out = append(out, c)
		}
	}
	return out
}
