// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package article reads and writes the files that make up an article
// directory: main-article.md, metadata.json, and downloaded resources.
package article

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/content-extract/pkg/types"
)

const (
	MainFile     = "main-article.md"
	MetadataFile = "metadata.json"
)

// WriteFile writes data to name under dir through a temporary file and a
// rename, so readers never observe a partial file. dir is created if needed.
func WriteFile(dir, name string, data []byte) (string, error) {
	return Copy(dir, name, bytes.NewReader(data))
}

// Copy streams r into name under dir the same way WriteFile does.
func Copy(dir, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	destPath := filepath.Join(dir, name)

	tmpFile, err := os.CreateTemp(dir, ".extract-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", name, copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return destPath, nil
}

// WriteMetadata writes meta as indented JSON to dir/metadata.json.
func WriteMetadata(dir string, meta types.Metadata) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}
	return WriteFile(dir, MetadataFile, buf.Bytes())
}

// ReadMetadata decodes dir/metadata.json. A missing file returns an error
// wrapping os.ErrNotExist.
func ReadMetadata(dir string) (types.Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, err
	}
	var meta types.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", MetadataFile, err)
	}
	if meta == nil {
		meta = types.Metadata{}
	}
	return meta, nil
}
