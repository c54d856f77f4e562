// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"errors"
	"fmt"
)

// ErrNoAdapterFound is reported when no adapter matches and no fallback is
// registered.
var ErrNoAdapterFound = errors.New("no adapter found")

// RoutingError records a URL the registry could not route.
type RoutingError struct {
	URL  string
	Hint string
}

func (e *RoutingError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("no adapter for %s (hint %q)", e.URL, e.Hint)
	}
	return fmt.Sprintf("no adapter for %s", e.URL)
}

func (e *RoutingError) Unwrap() error { return ErrNoAdapterFound }
