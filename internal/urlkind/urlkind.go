// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package urlkind classifies URLs by the source that hosts them.
package urlkind

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Kind identifies a class of source. The string values double as adapter
// resource types and link resource-type hints.
type Kind string

const (
	Substack   Kind = "substack"
	Medium     Kind = "medium"
	YouTube    Kind = "youtube"
	Notion     Kind = "notion"
	Drive      Kind = "drive"
	Excalidraw Kind = "excalidraw"
	Web        Kind = "web"

	// External marks links that are not one of the known sources.
	External Kind = "external"
)

// MediumDomains lists Medium and the publications it hosts on custom domains.
var MediumDomains = []string{"medium.com", "towardsdatascience.com", "betterprogramming.pub"}

var (
	youtubeDomains    = []string{"youtube.com", "youtu.be"}
	notionDomains     = []string{"notion.so", "notion.site"}
	driveDomains      = []string{"drive.google.com", "docs.google.com"}
	excalidrawDomains = []string{"excalidraw.com"}
)

// Detect returns the source kind for raw, or Web when nothing specific matches.
func Detect(raw string) Kind {
	host := Host(raw)
	switch {
	case HostIs(host, "substack.com"):
		return Substack
	case HostIs(host, MediumDomains...):
		return Medium
	case HostIs(host, youtubeDomains...):
		return YouTube
	case HostIs(host, notionDomains...):
		return Notion
	case HostIs(host, driveDomains...):
		return Drive
	case HostIs(host, excalidrawDomains...):
		return Excalidraw
	}
	return Web
}

// Parse parses raw, assuming https when the scheme is missing.
func Parse(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return url.Parse(raw)
}

// Host returns the lower-cased hostname of raw, or "" if it does not parse.
func Host(raw string) string {
	u, err := Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// HostIs reports whether host equals one of domains or is a subdomain of one.
func HostIs(host string, domains ...string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Domain returns the registrable domain (eTLD+1) of raw. Hosts the public
// suffix list cannot reduce, such as localhost or IP addresses, are
// returned unchanged.
func Domain(raw string) string {
	host := Host(raw)
	if host == "" {
		return ""
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

// IsYouTubeCollection reports whether raw names a YouTube channel or
// playlist rather than a single video.
func IsYouTubeCollection(raw string) bool {
	u, err := Parse(raw)
	if err != nil || !HostIs(strings.ToLower(u.Hostname()), "youtube.com") {
		return false
	}
	path := strings.Trim(u.Path, "/")
	first, _, _ := strings.Cut(path, "/")
	switch {
	case strings.HasPrefix(first, "@") && len(first) > 1:
		return true
	case first == "c" || first == "channel" || first == "user":
		return strings.Contains(path, "/")
	case first == "playlist":
		return u.Query().Get("list") != ""
	}
	return false
}
