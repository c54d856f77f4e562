// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown converts article HTML to Markdown and harvests the
// anchors it contains.
package markdown

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/content-extract/pkg/types"
)

const maxContext = 200

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Convert renders html as CommonMark. Relative links and images are made
// absolute against baseURL when it is set.
func Convert(html, baseURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	if base, err := url.Parse(baseURL); err == nil && base.IsAbs() {
		absolutize(doc, base, "a[href]", "href")
		absolutize(doc, base, "img[src]", "src")
	}
	rendered, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	out, err := md.NewConverter("", true, nil).ConvertString(rendered)
	if err != nil {
		return "", fmt.Errorf("converting html: %w", err)
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(out, "\n\n")), nil
}

func absolutize(doc *goquery.Document, base *url.URL, selector, attr string) {
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		ref, err := url.Parse(strings.TrimSpace(s.AttrOr(attr, "")))
		if err != nil || ref.String() == "" {
			return
		}
		s.SetAttr(attr, base.ResolveReference(ref).String())
	})
}

// Links returns every anchor in html with an href, in document order,
// resolved against baseURL. Duplicate URLs keep their first occurrence.
// Context is the trimmed text of the anchor's enclosing block.
func Links(html, baseURL string) ([]types.LinkedResource, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	base, _ := url.Parse(baseURL)

	var out []types.LinkedResource
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				href = base.ResolveReference(ref).String()
			}
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		out = append(out, types.LinkedResource{
			URL:      href,
			LinkText: collapse(a.Text()),
			Context:  truncate(collapse(a.Closest("p, li, blockquote, figcaption, h1, h2, h3, h4, td").Text()), maxContext),
		})
	})
	return out, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
