// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-extract/pkg/types"
)

func TestWriteFileCreatesDirAndLeavesNoTemp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "article")

	path, err := WriteFile(dir, MainFile, []byte("# Title\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, MainFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}

func TestMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()
	meta := types.Metadata{
		"title":        "A <b>bold</b> post",
		"resourceType": "substack",
		"links":        []types.LinkedResource{{URL: "https://notion.so/x", LinkText: "prompts", ResourceTypeHint: "notion"}},
	}

	_, err := WriteMetadata(dir, meta)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<b>bold</b>", "HTML is not escaped")

	got, err := ReadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, "substack", got.ResourceType())
	require.Len(t, got.Links(), 1)
	assert.Equal(t, "notion", got.Links()[0].ResourceTypeHint)
}

func TestReadMetadataErrors(t *testing.T) {
	_, err := ReadMetadata(t.TempDir())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte("{oops"), 0o644))
	_, err = ReadMetadata(dir)
	assert.Error(t, err)
}
