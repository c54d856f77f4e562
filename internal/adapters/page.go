// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pdiddy/content-extract/internal/article"
	"github.com/pdiddy/content-extract/internal/markdown"
	"github.com/pdiddy/content-extract/internal/slug"
	"github.com/pdiddy/content-extract/pkg/types"
)

const (
	extractionMethod = "agent-browser eval"
	lowWordCount     = 100
)

// pause waits between browser steps. Tests replace it.
var pause = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var printer = message.NewPrinter(language.English)

// page is what the article scripts report back from the browser.
type page struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Author      string `json:"author"`
	Date        string `json:"date"`
	ContentHTML string `json:"contentHTML"`
	IsPaywalled bool   `json:"isPaywalled"`
}

// Quality summarizes how complete an extracted article is.
type Quality struct {
	WordCount        int      `json:"wordCount"`
	ExtractionMethod string   `json:"extractionMethod"`
	Warnings         []string `json:"warnings"`
}

// saveArticle converts p to Markdown, harvests its links, and writes
// main-article.md and metadata.json under dir.
func saveArticle(resourceType, url, linkText, dir string, p page) types.ExtractionResult {
	body, err := markdown.Convert(p.ContentHTML, url)
	if err != nil {
		return types.Failed(resourceType, err)
	}
	raw, err := markdown.Links(p.ContentHTML, url)
	if err != nil {
		return types.Failed(resourceType, err)
	}
	links := ClassifyLinks(raw)

	title := firstNonEmpty(p.Title, linkText, "Untitled")
	date := slug.FormatDate(p.Date)
	words := len(strings.Fields(body))

	q := Quality{WordCount: words, ExtractionMethod: extractionMethod, Warnings: []string{}}
	label := "Complete"
	if p.IsPaywalled {
		q.Warnings = append(q.Warnings, "content may be truncated (paywall detected)")
		label = "Partial (paywall)"
	}
	if words < lowWordCount {
		q.Warnings = append(q.Warnings, fmt.Sprintf("low word count (%d)", words))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if p.Subtitle != "" {
		fmt.Fprintf(&b, "*%s*\n\n", p.Subtitle)
	}
	if p.Author != "" {
		fmt.Fprintf(&b, "**Author**: %s\n", p.Author)
	}
	if date != "" {
		fmt.Fprintf(&b, "**Date**: %s\n", date)
	}
	fmt.Fprintf(&b, "**Source**: %s\n\n", url)
	fmt.Fprintf(&b, "**Word Count**: %s words\n", printer.Sprintf("%d", words))
	fmt.Fprintf(&b, "**Extraction Quality**: %s\n\n---\n\n", label)
	b.WriteString(body)
	b.WriteString("\n")

	mainPath, err := article.WriteFile(dir, article.MainFile, []byte(b.String()))
	if err != nil {
		return types.Failed(resourceType, err)
	}

	meta := types.Metadata{
		"title":                title,
		"author":               p.Author,
		"date":                 date,
		"url":                  url,
		types.MetaResourceType: resourceType,
		"quality":              q,
		types.MetaLinks:        links,
	}
	metaPath, err := article.WriteMetadata(dir, meta)
	if err != nil {
		return types.Failed(resourceType, err)
	}

	log.Info().Str("url", url).Str("dir", filepath.Base(dir)).Int("words", words).
		Int("links", len(links)).Bool("paywalled", p.IsPaywalled).Msg("article saved")

	res := types.Succeeded(resourceType, mainPath, metaPath)
	res.Metadata = meta
	res.Note = printer.Sprintf("%d words", words)
	if p.IsPaywalled {
		res.Note += ", paywalled"
	}
	return res
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
