// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hooks runs consumer-supplied post-extraction logic against an
// article directory. Hooks read the extraction metadata and may write new
// files under the article directory; they never change the primary result.
package hooks

import (
	"context"
	"fmt"

	"github.com/pdiddy/content-extract/pkg/types"
)

// Hook is post-extraction logic. ShouldRun gates Run; returning an error
// from either is recorded as a failed HookResult.
type Hook interface {
	ShouldRun(ctx context.Context, meta types.Metadata, articleDir string) (bool, error)
	Run(ctx context.Context, meta types.Metadata, articleDir string) (types.HookResult, error)
}

// Named is implemented by hooks that report a display name.
type Named interface {
	Name() string
}

// NameOf returns h's display name, falling back to its Go type.
func NameOf(h Hook) string {
	if n, ok := h.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("%T", h)
}

// Func builds a Hook from plain functions. A nil Should always runs.
type Func struct {
	HookName string
	Should   func(ctx context.Context, meta types.Metadata, articleDir string) (bool, error)
	Do       func(ctx context.Context, meta types.Metadata, articleDir string) (types.HookResult, error)
}

func (f Func) Name() string { return f.HookName }

func (f Func) ShouldRun(ctx context.Context, meta types.Metadata, articleDir string) (bool, error) {
	if f.Should == nil {
		return true, nil
	}
	return f.Should(ctx, meta, articleDir)
}

func (f Func) Run(ctx context.Context, meta types.Metadata, articleDir string) (types.HookResult, error) {
	if f.Do == nil {
		return types.HookSucceeded(), nil
	}
	return f.Do(ctx, meta, articleDir)
}

// Filter restricts h to primary results whose resource type is in
// resourceTypes. An empty list returns h unchanged.
func Filter(h Hook, resourceTypes []string) Hook {
	if len(resourceTypes) == 0 {
		return h
	}
	set := make(map[string]struct{}, len(resourceTypes))
	for _, rt := range resourceTypes {
		set[rt] = struct{}{}
	}
	return &filtered{inner: h, types: set}
}

type filtered struct {
	inner Hook
	types map[string]struct{}
}

func (f *filtered) Name() string { return NameOf(f.inner) }

func (f *filtered) ShouldRun(ctx context.Context, meta types.Metadata, articleDir string) (bool, error) {
	if _, ok := f.types[meta.ResourceType()]; !ok {
		return false, nil
	}
	return f.inner.ShouldRun(ctx, meta, articleDir)
}

func (f *filtered) Run(ctx context.Context, meta types.Metadata, articleDir string) (types.HookResult, error) {
	return f.inner.Run(ctx, meta, articleDir)
}
