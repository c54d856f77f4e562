// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionResultNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        ExtractionResult
		wantError string
	}{
		{
			name:      "failure without message gets generic message",
			in:        ExtractionResult{ResourceType: "web"},
			wantError: genericExtractionError,
		},
		{
			name:      "failure keeps its message",
			in:        ExtractionResult{ResourceType: "web", Error: "paywall"},
			wantError: "paywall",
		},
		{
			name:      "success drops stray error",
			in:        ExtractionResult{Success: true, Error: "leftover"},
			wantError: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantError, got.Error)
			assert.Equal(t, got.Success, got.Error == "")
			assert.NotNil(t, got.FilesCreated)
		})
	}
}

func TestFailedAndSucceeded(t *testing.T) {
	f := Failed("drive", errors.New("not found"))
	assert.False(t, f.Success)
	assert.Equal(t, "not found", f.Error)
	assert.Error(t, f.Err())

	f = Failed("drive", nil)
	assert.Equal(t, genericExtractionError, f.Error)

	s := Succeeded("notion", "notion-content.md")
	assert.True(t, s.Success)
	assert.Empty(t, s.Error)
	assert.NoError(t, s.Err())
	assert.Equal(t, []string{"notion-content.md"}, s.FilesCreated)
}

func TestHookResultInvariant(t *testing.T) {
	h := HookFailed("summarize", nil)
	assert.False(t, h.Success)
	assert.Equal(t, genericHookError, h.Error)
	assert.Equal(t, "summarize", h.Hook)

	ok := HookSucceeded()
	assert.True(t, ok.Success)
	assert.Empty(t, ok.Error)
	assert.NotNil(t, ok.FilesCreated)
}

func TestAggregateFailureCounts(t *testing.T) {
	agg := AggregateResult{
		Resources: []ExtractionResult{{Success: true}, {Error: "x"}, {Error: "y"}},
		Hooks:     []HookResult{{Success: true}, {Error: "z"}},
	}
	assert.Equal(t, 2, agg.ResourceFailures())
	assert.Equal(t, 1, agg.HookFailures())
}

func TestMetadataLinks(t *testing.T) {
	t.Run("typed slice", func(t *testing.T) {
		m := Metadata{MetaLinks: []LinkedResource{
			{URL: "https://notion.so/a", ResourceTypeHint: "notion"},
			{URL: ""},
		}}
		links := m.Links()
		require.Len(t, links, 1)
		assert.Equal(t, "notion", links[0].ResourceTypeHint)
	})

	t.Run("decoded json", func(t *testing.T) {
		raw := `{"resourceType":"notion","links":[{"url":"https://drive.google.com/d1","linkText":"doc","resourceType":"drive"},{"linkText":"no url"}]}`
		var m Metadata
		require.NoError(t, json.Unmarshal([]byte(raw), &m))

		links := m.Links()
		require.Len(t, links, 1)
		assert.Equal(t, LinkedResource{URL: "https://drive.google.com/d1", LinkText: "doc", ResourceTypeHint: "drive"}, links[0])
		assert.Equal(t, "notion", m.ResourceType())
	})

	t.Run("missing links", func(t *testing.T) {
		assert.Empty(t, Metadata{}.Links())
	})
}

func TestMetadataResourceTypeFallback(t *testing.T) {
	assert.Equal(t, "substack", Metadata{"resource_type": "substack"}.ResourceType())
	assert.Equal(t, "notion", Metadata{"resourceType": "notion", "resource_type": "substack"}.ResourceType())
	assert.Equal(t, "", Metadata(nil).ResourceType())
}

func TestMetadataCloneIsDeep(t *testing.T) {
	orig := Metadata{
		"title":   "Post",
		"quality": map[string]any{"wordCount": 10},
		"links":   []LinkedResource{{URL: "https://a.example"}},
	}
	cp := orig.Clone()
	cp["title"] = "changed"
	cp["quality"].(map[string]any)["wordCount"] = 99

	assert.Equal(t, "Post", orig["title"])
	assert.Equal(t, 10, orig["quality"].(map[string]any)["wordCount"])
	assert.Len(t, cp.Links(), 1)
}
