// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapters

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pdiddy/content-extract/internal/browser"
)

func init() {
	pause = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
}

// fakeSession answers Eval through reply and records everything else.
type fakeSession struct {
	opened  []string
	scrolls int
	evals   []string
	closed  bool
	openErr error
	reply   func(js string) (string, error)
}

func (f *fakeSession) Open(_ context.Context, url string) error {
	f.opened = append(f.opened, url)
	return f.openErr
}

func (f *fakeSession) Eval(_ context.Context, js string) (string, error) {
	f.evals = append(f.evals, js)
	if f.reply == nil {
		return "", nil
	}
	return f.reply(js)
}

func (f *fakeSession) Scroll(context.Context, int) error {
	f.scrolls++
	return nil
}

func (f *fakeSession) Close(context.Context) error {
	f.closed = true
	return nil
}

// fakeSessions lends the same session every time.
type fakeSessions struct {
	sess       *fakeSession
	acquireErr error
	acquired   int
	released   int
	dedicated  []string
}

func (f *fakeSessions) Acquire(context.Context) (browser.Session, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.acquired++
	return f.sess, nil
}

func (f *fakeSessions) Release(browser.Session) { f.released++ }

func (f *fakeSessions) Dedicated(name, profile string) (browser.Session, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.dedicated = append(f.dedicated, name+"|"+profile)
	return f.sess, nil
}

// scripted answers with the first reply whose key is contained in the
// script; unmatched scripts return "".
func scripted(replies map[string]string) func(string) (string, error) {
	return func(js string) (string, error) {
		for key, out := range replies {
			if strings.Contains(js, key) {
				return out, nil
			}
		}
		return "", nil
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
