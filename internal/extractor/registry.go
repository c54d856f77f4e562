// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extractor routes URLs to adapters, dispatches the resources they
// discover, and runs post-extraction hooks over the result.
package extractor

import (
	"context"

	"github.com/pdiddy/content-extract/pkg/types"
)

// Adapter extracts content from one class of source URL.
//
// Extract writes its output under articleDir and reports expected failures
// (network, auth, paywall, not found) as a failed result rather than
// panicking.
type Adapter interface {
	ResourceType() string
	CanHandle(url, hint string) bool
	Extract(ctx context.Context, url, linkText, articleDir string) types.ExtractionResult
}

// DeepAdapter is implemented by adapters whose extracted resources should
// themselves be dispatched. TraversalDepth is the number of hops, counted
// from the primary article, that the adapter asks for. Values above
// MaxTraversalDepth are clamped.
type DeepAdapter interface {
	Adapter
	TraversalDepth() int
}

// Registry is an ordered list of adapters plus an optional fallback.
// Registration order is priority order: the first adapter whose CanHandle
// accepts a URL wins, even when later adapters would also accept it.
type Registry struct {
	adapters []Adapter
	fallback Adapter
}

// NewRegistry returns a registry holding adapters in the given order.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register appends a to the priority list.
func (r *Registry) Register(a Adapter) {
	r.adapters = append(r.adapters, a)
}

// RegisterFallback sets the adapter used when nothing else matches,
// replacing any previous fallback.
func (r *Registry) RegisterFallback(a Adapter) {
	r.fallback = a
}

// Resolve returns the adapter for url. It fails with a *RoutingError only
// when nothing matches and no fallback is registered.
func (r *Registry) Resolve(url, hint string) (Adapter, error) {
	for _, a := range r.adapters {
		if a.CanHandle(url, hint) {
			return a, nil
		}
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, &RoutingError{URL: url, Hint: hint}
}

// Adapters returns the adapters in resolution order, fallback last.
func (r *Registry) Adapters() []Adapter {
	out := make([]Adapter, 0, len(r.adapters)+1)
	out = append(out, r.adapters...)
	if r.fallback != nil {
		out = append(out, r.fallback)
	}
	return out
}

// Entry describes one registry slot for listings.
type Entry struct {
	Position     int    `json:"position"`
	ResourceType string `json:"resourceType"`
	Fallback     bool   `json:"fallback"`
}

// Entries lists the adapters in resolution order, fallback last.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.adapters)+1)
	for i, a := range r.adapters {
		out = append(out, Entry{Position: i + 1, ResourceType: a.ResourceType()})
	}
	if r.fallback != nil {
		out = append(out, Entry{Position: len(r.adapters) + 1, ResourceType: r.fallback.ResourceType(), Fallback: true})
	}
	return out
}
