// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/browser"
	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

// webContentJS picks the first container with a meaningful amount of text.
const webContentJS = `(() => {
  for (const sel of ['article', '[role="main"]', 'main', '.post-content', '.entry-content', '.content']) {
    const el = document.querySelector(sel);
    if (el && el.innerText.length > 200) return JSON.stringify({html: el.innerHTML});
  }
  return JSON.stringify({html: document.body ? document.body.innerHTML : ''});
})()`

const webMetaJS = `(() => {
  const m = {};
  const h1 = document.querySelector('h1');
  m.title = h1 ? h1.innerText.trim() : document.title;
  const ld = document.querySelector('script[type="application/ld+json"]');
  if (ld) {
    try {
      const d = JSON.parse(ld.textContent);
      const o = Array.isArray(d) ? d[0] : d;
      m.author = (o.author && (o.author.name || (o.author[0] && o.author[0].name))) || '';
      m.date = o.datePublished || '';
    } catch (e) {}
  }
  const meta = n => {
    const el = document.querySelector('meta[property="' + n + '"]') || document.querySelector('meta[name="' + n + '"]');
    return el ? el.content : '';
  };
  m.title = m.title || meta('og:title');
  m.author = m.author || meta('article:author') || meta('author');
  m.date = m.date || meta('article:published_time') || meta('date');
  return JSON.stringify(m);
})()`

// GenericWeb extracts any web page using readability-style container
// heuristics. It accepts every URL and is meant to be the primary fallback.
type GenericWeb struct {
	sessions browser.Sessions
}

func NewGenericWeb(s browser.Sessions) *GenericWeb { return &GenericWeb{sessions: s} }

func (*GenericWeb) ResourceType() string { return string(urlkind.Web) }

func (*GenericWeb) CanHandle(string, string) bool { return true }

func (a *GenericWeb) Extract(ctx context.Context, url, linkText, dir string) types.ExtractionResult {
	sess, err := a.sessions.Acquire(ctx)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	defer a.sessions.Release(sess)

	if err := sess.Open(ctx, url); err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	raw, err := sess.Eval(ctx, webContentJS)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	var content struct {
		HTML string `json:"html"`
	}
	if err := browser.DecodeJSON(raw, &content); err != nil {
		return types.Failed(a.ResourceType(), fmt.Errorf("extracting content from %s: %w", url, err))
	}
	if strings.TrimSpace(content.HTML) == "" {
		return types.Failed(a.ResourceType(), errors.New("no content found on page"))
	}

	p := page{ContentHTML: content.HTML}
	if raw, err := sess.Eval(ctx, webMetaJS); err != nil {
		log.Debug().Str("url", url).Err(err).Msg("page metadata unavailable")
	} else if err := browser.DecodeJSON(raw, &p); err != nil {
		log.Debug().Str("url", url).Err(err).Msg("page metadata unreadable")
	}
	p.ContentHTML = content.HTML
	return saveArticle(a.ResourceType(), url, linkText, dir, p)
}
