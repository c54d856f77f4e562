// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data contracts shared between the extractor core,
// adapters, hooks, and the CLI surface.
package types

import "errors"

const (
	genericExtractionError = "extraction failed"
	genericHookError       = "hook failed"
)

// ExtractionResult is the outcome of one adapter invocation.
//
// Error is non-empty exactly when Success is false. FilesCreated entries are
// paths written under the article directory the adapter was given.
type ExtractionResult struct {
	Success      bool     `json:"success" yaml:"success"`
	ResourceType string   `json:"resourceType" yaml:"resource_type"`
	URL          string   `json:"url,omitempty" yaml:"url,omitempty"`
	FilesCreated []string `json:"filesCreated" yaml:"files_created"`

	// Metadata is the adapter's view of what it extracted: title, author,
	// date, quality info, and discovered links. Opaque to the core except
	// for the "resourceType" and "links" keys.
	Metadata Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	Note  string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Succeeded builds a successful result for the given resource type.
func Succeeded(resourceType string, files ...string) ExtractionResult {
	if files == nil {
		files = []string{}
	}
	return ExtractionResult{
		Success:      true,
		ResourceType: resourceType,
		FilesCreated: files,
	}
}

// Failed builds a failed result carrying err's message.
func Failed(resourceType string, err error) ExtractionResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return ExtractionResult{
		ResourceType: resourceType,
		FilesCreated: []string{},
		Error:        msg,
	}.Normalize()
}

// Normalize enforces the success/error invariant: a failure always carries
// a message and a success never does.
func (r ExtractionResult) Normalize() ExtractionResult {
	if r.Success {
		r.Error = ""
	} else if r.Error == "" {
		r.Error = genericExtractionError
	}
	if r.FilesCreated == nil {
		r.FilesCreated = []string{}
	}
	return r
}

// Err returns the result's failure as an error, or nil on success.
func (r ExtractionResult) Err() error {
	if r.Success {
		return nil
	}
	return errors.New(r.Error)
}

// LinkedResource is a sub-resource discovered inside extracted content.
type LinkedResource struct {
	URL              string `json:"url" yaml:"url"`
	LinkText         string `json:"linkText" yaml:"link_text"`
	Context          string `json:"context,omitempty" yaml:"context,omitempty"`
	ResourceTypeHint string `json:"resourceType,omitempty" yaml:"resource_type,omitempty"`
}

// HookResult is the outcome of one hook invocation. Same success/error
// invariant as ExtractionResult.
type HookResult struct {
	Hook         string   `json:"hook,omitempty" yaml:"hook,omitempty"`
	Success      bool     `json:"success" yaml:"success"`
	FilesCreated []string `json:"filesCreated" yaml:"files_created"`
	Error        string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// HookSucceeded builds a successful hook result.
func HookSucceeded(files ...string) HookResult {
	if files == nil {
		files = []string{}
	}
	return HookResult{Success: true, FilesCreated: files}
}

// HookFailed builds a failed hook result for the named hook.
func HookFailed(name string, err error) HookResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return HookResult{Hook: name, Error: msg}.Normalize()
}

// Normalize enforces the success/error invariant.
func (r HookResult) Normalize() HookResult {
	if r.Success {
		r.Error = ""
	} else if r.Error == "" {
		r.Error = genericHookError
	}
	if r.FilesCreated == nil {
		r.FilesCreated = []string{}
	}
	return r
}

// AggregateResult is the final value returned for one extracted URL.
// Success mirrors Primary.Success; resource and hook failures are recorded
// in their own slices without changing it.
type AggregateResult struct {
	URL        string             `json:"url" yaml:"url"`
	ArticleDir string             `json:"articleDir" yaml:"article_dir"`
	Success    bool               `json:"success" yaml:"success"`
	Primary    ExtractionResult   `json:"primary" yaml:"primary"`
	Resources  []ExtractionResult `json:"resources" yaml:"resources"`
	Hooks      []HookResult       `json:"hooks" yaml:"hooks"`
}

// ResourceFailures counts dispatched resources that failed.
func (a AggregateResult) ResourceFailures() int {
	n := 0
	for _, r := range a.Resources {
		if !r.Success {
			n++
		}
	}
	return n
}

// HookFailures counts hooks that failed.
func (a AggregateResult) HookFailures() int {
	n := 0
	for _, h := range a.Hooks {
		if !h.Success {
			n++
		}
	}
	return n
}
