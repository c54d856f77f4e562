// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	substack := &fakeAdapter{rt: "substack", match: hostMatch("substack.com")}
	notion := &fakeAdapter{rt: "notion", match: hostMatch("notion.so")}
	web := &fakeAdapter{rt: "web", match: always}

	reg := NewRegistry(substack, notion)
	reg.RegisterFallback(web)

	tests := []struct {
		name string
		url  string
		hint string
		want string
	}{
		{"substack post", "https://author.substack.com/p/post", "", "substack"},
		{"notion page", "https://www.notion.so/Page-abc", "", "notion"},
		{"unknown host falls back", "https://example.com/article", "", "web"},
		{"empty url falls back", "", "", "web"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := reg.Resolve(tt.url, tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.ResourceType())
		})
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	first := &fakeAdapter{rt: "first", match: always}
	second := &fakeAdapter{rt: "second", match: always}

	a, err := NewRegistry(first, second).Resolve("https://example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "first", a.ResourceType())

	a, err = NewRegistry(second, first).Resolve("https://example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "second", a.ResourceType())
}

func TestResolveUsesHint(t *testing.T) {
	drive := &fakeAdapter{rt: "drive", match: hintMatch("drive")}
	reg := NewRegistry(drive)

	a, err := reg.Resolve("https://short.link/x", "drive")
	require.NoError(t, err)
	assert.Equal(t, "drive", a.ResourceType())

	_, err = reg.Resolve("https://short.link/x", "")
	assert.Error(t, err)
}

func TestResolveNoAdapter(t *testing.T) {
	reg := NewRegistry(&fakeAdapter{rt: "notion", match: hostMatch("notion.so")})

	_, err := reg.Resolve("https://example.com", "web")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoAdapterFound))

	var rerr *RoutingError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "https://example.com", rerr.URL)
	assert.Equal(t, "web", rerr.Hint)
}

func TestRegisterFallbackReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFallback(&fakeAdapter{rt: "web"})
	reg.RegisterFallback(&fakeAdapter{rt: "external"})

	a, err := reg.Resolve("https://example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "external", a.ResourceType())
}

func TestEntries(t *testing.T) {
	reg := NewRegistry(&fakeAdapter{rt: "substack"}, &fakeAdapter{rt: "notion"})
	reg.RegisterFallback(&fakeAdapter{rt: "web"})

	assert.Equal(t, []Entry{
		{Position: 1, ResourceType: "substack"},
		{Position: 2, ResourceType: "notion"},
		{Position: 3, ResourceType: "web", Fallback: true},
	}, reg.Entries())

	assert.Empty(t, NewRegistry().Entries())
}

func TestAdaptersIsACopy(t *testing.T) {
	substack := &fakeAdapter{rt: "substack"}
	web := &fakeAdapter{rt: "web"}
	reg := NewRegistry(substack)
	reg.RegisterFallback(web)

	got := reg.Adapters()
	require.Len(t, got, 2)
	assert.Same(t, substack, got[0])
	assert.Same(t, web, got[1])

	got[0] = web
	assert.Same(t, substack, reg.Adapters()[0])
}
