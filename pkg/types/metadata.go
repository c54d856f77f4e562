// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// Well-known metadata keys. Everything else in Metadata is adapter-defined.
const (
	MetaResourceType       = "resourceType"
	MetaLinks              = "links"
	MetaResourceExtraction = "resourceExtraction"
)

// Metadata is the structured description an adapter writes to
// metadata.json and hands to hooks.
type Metadata map[string]any

// ResourceType returns the "resourceType" entry, falling back to the
// snake-case "resource_type" key some producers use.
func (m Metadata) ResourceType() string {
	if v, ok := m[MetaResourceType].(string); ok && v != "" {
		return v
	}
	if v, ok := m["resource_type"].(string); ok {
		return v
	}
	return ""
}

// Links decodes the "links" entry. It accepts a typed slice (as set by
// adapters in-process) or the generic form produced by decoding
// metadata.json. Entries without a URL are dropped.
func (m Metadata) Links() []LinkedResource {
	switch v := m[MetaLinks].(type) {
	case []LinkedResource:
		out := make([]LinkedResource, 0, len(v))
		for _, l := range v {
			if l.URL != "" {
				out = append(out, l)
			}
		}
		return out
	case []any:
		out := make([]LinkedResource, 0, len(v))
		for _, item := range v {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			l := LinkedResource{
				URL:              stringField(entry, "url"),
				LinkText:         stringField(entry, "linkText"),
				Context:          stringField(entry, "context"),
				ResourceTypeHint: stringField(entry, "resourceType"),
			}
			if l.URL != "" {
				out = append(out, l)
			}
		}
		return out
	case []map[string]any:
		generic := make([]any, len(v))
		for i := range v {
			generic[i] = v[i]
		}
		return Metadata{MetaLinks: generic}.Links()
	}
	return nil
}

// Clone returns a deep copy. Values are round-tripped through JSON, so typed
// slices come back in their generic decoded form.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		out := make(Metadata, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	var out Metadata
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return Metadata{}
	}
	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
