// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch follows a URL list file and hands each newly added URL to
// a handler, so URLs appended to an inbox file get extracted as they land.
package watch

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const defaultDebounce = 200 * time.Millisecond

// ReadURLs returns the URLs listed in path, one per line, in file order.
// Blank lines and lines starting with # are skipped.
func ReadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return urls, nil
}

// Handler processes one URL.
type Handler func(ctx context.Context, url string)

// Seen reports URLs that need no further work. *ledger.Store satisfies it.
type Seen interface {
	Seen(ctx context.Context, url string) (bool, error)
}

// Watcher hands each URL in a list file to a handler exactly once.
type Watcher struct {
	path     string
	handle   Handler
	seen     Seen
	debounce time.Duration
	done     map[string]struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSeen skips URLs that s already knows about.
func WithSeen(s Seen) Option {
	return func(w *Watcher) { w.seen = s }
}

// WithDebounce sets how long the file must be quiet before it is rescanned.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func New(path string, handle Handler, opts ...Option) *Watcher {
	w := &Watcher{path: filepath.Clean(path), handle: handle, debounce: defaultDebounce, done: make(map[string]struct{})}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes the URLs already in the file, then watches it until ctx is
// cancelled. The parent directory is watched so editors that replace the
// file on save are followed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", w.path, err)
	}
	log.Info().Str("file", w.path).Msg("watching")
	w.Scan(ctx)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			log.Info().Str("file", w.path).Msg("watch stopped")
			return nil

		case <-timerCh:
			timerCh = nil
			w.Scan(ctx)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

// Scan reads the file and handles every URL not handled before. It returns
// how many URLs were handed to the handler.
func (w *Watcher) Scan(ctx context.Context) int {
	urls, err := ReadURLs(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Str("file", w.path).Err(err).Msg("reading url list")
		}
		return 0
	}
	n := 0
	for _, u := range urls {
		if ctx.Err() != nil {
			return n
		}
		if _, ok := w.done[u]; ok {
			continue
		}
		w.done[u] = struct{}{}
		if w.seen != nil {
			seen, err := w.seen.Seen(ctx, u)
			if err != nil {
				log.Warn().Str("url", u).Err(err).Msg("checking ledger")
			} else if seen {
				log.Debug().Str("url", u).Msg("already extracted")
				continue
			}
		}
		w.handle(ctx, u)
		n++
	}
	return n
}
