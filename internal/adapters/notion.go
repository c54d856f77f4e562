// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/article"
	"github.com/pdiddy/content-extract/internal/browser"
	"github.com/pdiddy/content-extract/internal/urlkind"
	"github.com/pdiddy/content-extract/pkg/types"
)

const notionTextJS = `(() => {
  const main = document.querySelector('main')
    || document.querySelector('.notion-page-content')
    || document.querySelector('[class*="layout-content"]')
    || document.body;
  return main ? main.innerText : '';
})()`

const notionTitleJS = `(() => {
  const h1 = document.querySelector('h1');
  return h1 ? h1.innerText.trim() : document.title;
})()`

const notionLinksJS = `(() => {
  const main = document.querySelector('main') || document.body;
  const out = [];
  main.querySelectorAll('a[href]').forEach(a => out.push({url: a.href, linkText: a.textContent.trim()}));
  return JSON.stringify(out);
})()`

const (
	notionMinText   = 50
	notionLoginText = 200
	notionScrolls   = 3

	// NotionDepth lets Drive files and diagrams linked from a Notion page
	// be fetched too.
	NotionDepth = 2
)

var loginPhrases = []string{"log in", "sign up", "continue with google", "continue with apple"}

// Notion extracts the text of a Notion page. Pages need the shared browser
// profile to be logged in when they are not public.
type Notion struct {
	sessions browser.Sessions
}

func NewNotion(s browser.Sessions) *Notion { return &Notion{sessions: s} }

func (*Notion) ResourceType() string { return string(urlkind.Notion) }

func (*Notion) CanHandle(url, hint string) bool {
	return hint == string(urlkind.Notion) || urlkind.Detect(url) == urlkind.Notion
}

func (*Notion) TraversalDepth() int { return NotionDepth }

func (a *Notion) Extract(ctx context.Context, url, linkText, dir string) types.ExtractionResult {
	sess, err := a.sessions.Acquire(ctx)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	defer a.sessions.Release(sess)

	if err := sess.Open(ctx, url); err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	for range notionScrolls {
		if err := sess.Scroll(ctx, 3); err != nil {
			return types.Failed(a.ResourceType(), err)
		}
	}

	text, err := sess.Eval(ctx, notionTextJS)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	text = strings.TrimSpace(text)
	if len(text) < notionMinText {
		return types.Failed(a.ResourceType(), errors.New("empty page or failed to load"))
	}
	if loginWall(text) {
		return types.Failed(a.ResourceType(), errors.New("login required"))
	}

	title, err := sess.Eval(ctx, notionTitleJS)
	if err != nil {
		log.Debug().Str("url", url).Err(err).Msg("notion title unavailable")
	}
	title = firstNonEmpty(title, linkText, "Notion Page")

	var links []types.LinkedResource
	if raw, err := sess.Eval(ctx, notionLinksJS); err == nil {
		if err := browser.DecodeJSON(raw, &links); err != nil {
			log.Debug().Str("url", url).Err(err).Msg("notion links unreadable")
		}
	}
	links = ClassifyLinks(links)

	name, err := notionFilename(dir, url)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	content := fmt.Sprintf("# %s\n\n> Source: %s\n> Extracted via: agent-browser\n\n---\n\n%s\n", title, url, text)
	mainPath, err := article.WriteFile(dir, name, []byte(content))
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}

	meta := types.Metadata{
		"title":                title,
		"url":                  url,
		types.MetaResourceType: a.ResourceType(),
		"characters":           len(text),
		types.MetaLinks:        links,
	}
	metaPath, err := article.WriteMetadata(dir, meta)
	if err != nil {
		return types.Failed(a.ResourceType(), err)
	}
	log.Info().Str("url", url).Str("file", name).Int("chars", len(text)).Msg("notion page saved")

	res := types.Succeeded(a.ResourceType(), mainPath, metaPath)
	res.Metadata = meta
	return res
}

// loginWall reports whether text looks like a sign-in screen rather than
// page content.
func loginWall(text string) bool {
	if len(text) >= notionLoginText {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range loginPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// notionFilename returns notion-content.md for the first page saved in dir
// and notion-<page id>.md for any further ones.
func notionFilename(dir, url string) (string, error) {
	existing, err := filepath.Glob(filepath.Join(dir, "notion-*.md"))
	if err != nil {
		return "", err
	}
	if len(existing) == 0 {
		return "notion-content.md", nil
	}
	last := path.Base(strings.TrimRight(strings.SplitN(url, "?", 2)[0], "/"))
	if i := strings.LastIndex(last, "-"); i >= 0 {
		last = last[i+1:]
	}
	if len(last) > 12 {
		last = last[:12]
	}
	return "notion-" + last + ".md", nil
}
