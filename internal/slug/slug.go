// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slug derives filesystem-safe names from URLs and titles.
package slug

import (
	"crypto/sha256"
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/content-extract/internal/urlkind"
)

const maxResourceSlug = 60

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// FromURL derives the article directory name for raw. It is deterministic,
// so extracting the same URL twice lands in the same directory.
//
//	https://x.substack.com/p/my-post          -> my-post
//	https://youtube.com/watch?v=abc           -> youtube-abc
//	https://www.youtube.com/@handle/videos    -> youtube-handle
//	https://example.com/blog/my-post          -> my-post
//	https://example.com/                      -> example-com
func FromURL(raw string) string {
	u, err := urlkind.Parse(raw)
	if err != nil {
		return "unknown"
	}
	p := strings.TrimRight(u.Path, "/")

	if _, after, ok := strings.Cut(p, "/p/"); ok && after != "" {
		first, _, _ := strings.Cut(after, "/")
		if seg := segment(first); seg != "" {
			return seg
		}
	}

	host := strings.ToLower(u.Hostname())
	if urlkind.HostIs(host, "youtube.com", "youtu.be") {
		if id := segment(youtubeID(host, p, u.Query().Get("v"), u.Query().Get("list"))); id != "" {
			return "youtube-" + id
		}
	}

	if seg := segment(path.Base(p)); p != "" && len(seg) > 2 {
		return seg
	}
	if h := segment(strings.ReplaceAll(host, ".", "-")); h != "" {
		return h
	}
	return "unknown"
}

// segment reduces s to a single path element: runs of anything other than
// letters, digits, '-', '_' and '.' become '-', and leading or trailing dots
// and hyphens are trimmed. The result is never "." or "..".
func segment(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.Trim(b.String(), ".-")
}

func youtubeID(host, p, v, list string) string {
	if v != "" {
		return v
	}
	trimmed := strings.Trim(p, "/")
	if host == "youtu.be" {
		return trimmed
	}
	parts := strings.Split(trimmed, "/")
	switch {
	case strings.HasPrefix(parts[0], "@"):
		return strings.TrimPrefix(parts[0], "@")
	case (parts[0] == "channel" || parts[0] == "c" || parts[0] == "user") && len(parts) > 1:
		return parts[1]
	case parts[0] == "playlist" && list != "":
		return list
	}
	return ""
}

// Make lower-cases text, folds accents, and joins alphanumeric runs with
// hyphens. Returns "" when nothing usable remains.
func Make(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	s := nonAlnum.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(s, "-")
}

// Resource derives the directory suffix for a dispatched resource. Long
// slugs are truncated; URLs that yield no slug fall back to a hash.
func Resource(raw string) string {
	s := Make(FromURL(raw))
	if len(s) > maxResourceSlug {
		s = strings.TrimRight(s[:maxResourceSlug], "-")
	}
	if s == "" || s == "unknown" {
		return fmt.Sprintf("url-%x", sha256.Sum256([]byte(raw)))[:16]
	}
	return s
}
