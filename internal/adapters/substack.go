// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/content-extract/internal/browser"
	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

const substackArticleJS = `(() => {
  document.querySelectorAll('[class*="modal"], [class*="overlay"], [class*="subscribe-prompt"]')
    .forEach(el => { if (el.style) el.style.display = 'none'; });
  document.querySelectorAll('button[aria-label="Close"], [class*="modal"] button, [class*="dismiss"]')
    .forEach(btn => { try { btn.click(); } catch (e) {} });

  const titleEl = document.querySelector('h1.post-title')
    || document.querySelector('.post-header h1')
    || document.querySelector('h1');
  let title = titleEl ? titleEl.textContent.trim() : '';
  const subEl = document.querySelector('h3.subtitle, .post-header h3, .subtitle');
  const subtitle = subEl ? subEl.textContent.trim() : '';
  const body = document.querySelector('.body.markup, .available-content .body, .post-content')
    || document.querySelector('article .body, article');
  const authorEl = document.querySelector('a.post-author, a[class*="author-name"], .post-header a[href*="/@"]');
  let author = authorEl ? authorEl.textContent.trim() : '';

  let date = '';
  const ld = document.querySelector('script[type="application/ld+json"]');
  if (ld) {
    try {
      const d = JSON.parse(ld.textContent);
      date = d.datePublished || d.dateModified || '';
      if (!title && d.headline) title = d.headline;
      if (!author && d.author) {
        const a = Array.isArray(d.author) ? d.author[0] : d.author;
        if (a && a.name) author = a.name;
      }
    } catch (e) {}
  }
  if (!date) {
    const t = document.querySelector('time');
    date = t ? (t.dateTime || t.textContent.trim()) : '';
  }

  let isPaywalled = false;
  for (const el of document.querySelectorAll('[class*="paywall"], [class*="truncated"]')) {
    if (el.offsetHeight > 0 && el.offsetWidth > 0) { isPaywalled = true; break; }
  }
  return JSON.stringify({
    title: title || document.title, subtitle, author, date,
    contentHTML: body ? body.innerHTML : '', isPaywalled
  });
})()`

// Substack extracts Substack posts through the shared browser profile, so
// subscriber-only posts come out whole once the profile is logged in.
type Substack struct {
	sessions browser.Sessions
}

func NewSubstack(s browser.Sessions) *Substack { return &Substack{sessions: s} }

func (*Substack) ResourceType() string { return string(urlkind.Substack) }

// CanHandle accepts post URLs only; archive and profile pages fall through
// to the generic adapter.
func (*Substack) CanHandle(url, _ string) bool {
	return urlkind.Detect(url) == urlkind.Substack && strings.Contains(url, "/p/")
}

func (a *Substack) Extract(ctx context.Context, url, linkText, dir string) types.ExtractionResult {
	p, err := scrapePage(ctx, a.sessions, url, substackArticleJS, nil)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	return saveArticle(a.ResourceType(), url, linkText, dir, p)
}

// scrapePage opens url, runs each prep script, then decodes the page
// script's result.
func scrapePage(ctx context.Context, sessions browser.Sessions, url, pageJS string, prep func(context.Context, browser.Session) error) (page, error) {
	var p page
	sess, err := sessions.Acquire(ctx)
	if err != nil {
		return p, err
	}
	defer sessions.Release(sess)

	if err := sess.Open(ctx, url); err != nil {
		return p, err
	}
	if prep != nil {
		if err := prep(ctx, sess); err != nil {
			return p, err
		}
	}
	raw, err := sess.Eval(ctx, pageJS)
	if err != nil {
		return p, err
	}
	if err := browser.DecodeJSON(raw, &p); err != nil {
		return p, fmt.Errorf("reading article data: %w", err)
	}
	return p, nil
}
