// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slug

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://sub.substack.com/p/my-article", "my-article"},
		{"https://sub.substack.com/p/my-article/comments", "my-article"},
		{"https://youtube.com/watch?v=abc123", "youtube-abc123"},
		{"https://youtu.be/abc123", "youtube-abc123"},
		{"https://www.youtube.com/@indydevdan", "youtube-indydevdan"},
		{"https://www.youtube.com/@indydevdan/videos", "youtube-indydevdan"},
		{"https://www.youtube.com/channel/UCxyz123", "youtube-UCxyz123"},
		{"https://www.youtube.com/playlist?list=PLxyz123", "youtube-PLxyz123"},
		{"https://example.com/blog/my-post", "my-post"},
		{"https://example.com/blog/my-post/", "my-post"},
		{"https://example.com/", "example-com"},
		{"https://example.com/ab", "example-com"},
		{"https://evil.substack.com/p/..", "evil-substack-com"},
		{"https://evil.substack.com/p/..%2F..%2Fetc", "etc"},
		{"https://www.youtube.com/watch?v=../../../tmp/pwn", "youtube-tmp-pwn"},
		{"https://www.youtube.com/playlist?list=..", "playlist"},
		{"https://youtu.be/../../etc", "youtube-etc"},
		{"https://example.com/a/..", "example-com"},
		{"https://example.com/my%20post", "my-post"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FromURL(tt.url))
		})
	}
}

func TestFromURLStaysLocal(t *testing.T) {
	urls := []string{
		"https://evil.substack.com/p/..",
		"https://evil.substack.com/p/.../x",
		"https://www.youtube.com/watch?v=..%2F..%2Fx",
		"https://youtu.be/..",
		"https://example.com/%2E%2E",
		"https://example.com/a\\..\\..\\b",
	}
	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			s := FromURL(u)
			assert.True(t, filepath.IsLocal(s), s)
			assert.NotContains(t, s, "/")
			assert.NotContains(t, s, "\\")
		})
	}
}

func TestFromURLIsDeterministic(t *testing.T) {
	u := "https://www.notion.so/team/Prompt-Library-1a2b3c4d5e6f"
	assert.Equal(t, FromURL(u), FromURL(u))
}

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Diagram", "my-diagram"},
		{"  Café Déjà Vu!  ", "cafe-deja-vu"},
		{"already-a-slug", "already-a-slug"},
		{"***", ""},
		{"Über_System  v2", "uber-system-v2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestResource(t *testing.T) {
	assert.Equal(t, "prompt-library-1a2b3c", Resource("https://notion.so/Prompt-Library-1a2b3c"))
	assert.Equal(t, "drive-google-com", Resource("https://drive.google.com/d1"))

	long := Resource("https://example.com/" + strings.Repeat("segment-", 20))
	assert.LessOrEqual(t, len(long), maxResourceSlug)
	assert.False(t, strings.HasSuffix(long, "-"))

	hashed := Resource("https://example.com/%%%")
	assert.True(t, strings.HasPrefix(hashed, "url-"), hashed)
	assert.Len(t, hashed, 16)
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-11-18T16:56:38+01:00", "Nov 18, 2025"},
		{"2025-11-18T16:56:38.123Z", "Nov 18, 2025"},
		{"2025-01-05", "Jan 05, 2025"},
		{"Nov 18, 2025", "Nov 18, 2025"},
		{"", ""},
		{"last tuesday", "last tuesday"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.in))
		})
	}
}
