// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pdiddy/content-extract/internal/browser"
	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

const mediumDismissJS = `(() => {
  document.querySelectorAll('[data-testid="paywall"], [class*="meteredContent"], [class*="overlay"], [class*="paywall"]')
    .forEach(el => { if (el.style) el.style.display = 'none'; });
  document.body.style.overflow = 'auto';
  document.querySelectorAll('button[aria-label="close"], button[aria-label="Close"], [class*="dismiss"] button')
    .forEach(btn => { try { btn.click(); } catch (e) {} });
  return 'ok';
})()`

const mediumArticleJS = `(() => {
  const body = document.querySelector('article')
    || document.querySelector('section[data-testid="post-content"]')
    || document.querySelector('[role="main"] section');
  const h1 = document.querySelector('article h1') || document.querySelector('h1');
  let title = h1 ? h1.textContent.trim() : '';
  const authorEl = document.querySelector('a[data-testid="authorName"]')
    || document.querySelector('[rel="author"]')
    || document.querySelector('a[href*="/@"]');
  let author = authorEl ? authorEl.textContent.trim() : '';

  let date = '';
  for (const el of document.querySelectorAll('script[type="application/ld+json"]')) {
    try {
      const d = JSON.parse(el.textContent);
      if (d.datePublished) date = d.datePublished;
      if (!title && d.headline) title = d.headline;
      if (!author && d.author) {
        const a = Array.isArray(d.author) ? d.author[0] : d.author;
        if (a && a.name) author = a.name;
      }
      if (date) break;
    } catch (e) {}
  }
  if (!date) {
    const t = document.querySelector('time');
    date = t ? (t.dateTime || t.textContent.trim()) : '';
  }

  const wall = document.querySelector('[data-testid="paywall"]');
  const isPaywalled = !!(wall && wall.offsetHeight > 0)
    || document.body.innerText.includes('Member-only story');
  return JSON.stringify({
    title: title || document.title, author, date,
    contentHTML: body ? body.innerHTML : '', isPaywalled
  });
})()`

// Medium extracts Medium stories, including publications on custom domains.
type Medium struct {
	sessions browser.Sessions
}

func NewMedium(s browser.Sessions) *Medium { return &Medium{sessions: s} }

func (*Medium) ResourceType() string { return string(urlkind.Medium) }

func (*Medium) CanHandle(url, hint string) bool {
	return hint == string(urlkind.Medium) || urlkind.Detect(url) == urlkind.Medium
}

func (a *Medium) Extract(ctx context.Context, url, linkText, dir string) types.ExtractionResult {
	p, err := scrapePage(ctx, a.sessions, url, mediumArticleJS, dismissAndScroll)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	if strings.TrimSpace(p.ContentHTML) == "" {
		return types.Failed(a.ResourceType(), errors.New("empty or near-empty content extracted"))
	}
	return saveArticle(a.ResourceType(), url, linkText, dir, p)
}

func dismissAndScroll(ctx context.Context, s browser.Session) error {
	if _, err := s.Eval(ctx, mediumDismissJS); err != nil {
		return err
	}
	if err := pause(ctx, time.Second); err != nil {
		return err
	}
	for range 2 {
		if err := s.Scroll(ctx, 3); err != nil {
			return err
		}
	}
	return nil
}
