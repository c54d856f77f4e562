// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/adapters"
	"github.com/pdiddy/content-extract/internal/browser"
	"github.com/pdiddy/content-extract/internal/extractor"
	"github.com/pdiddy/content-extract/internal/hooks"
	"github.com/pdiddy/content-extract/internal/httputil"
	"github.com/pdiddy/content-extract/internal/ledger"
)

// app holds the long-lived collaborators of one CLI invocation.
type app struct {
	ext    *extractor.Extractor
	pool   *browser.Pool
	ledger *ledger.Store
}

type appOptions struct {
	noConfigHooks bool
	since         string
	sessions      int

	// record attaches the ledger to the extractor as its recorder.
	record bool
}

func newApp(opts appOptions) (*app, error) {
	var since string
	if opts.since != "" {
		s, err := adapters.ParseSince(opts.since, time.Now())
		if err != nil {
			return nil, err
		}
		since = s
	}

	a := &app{pool: browser.NewPool(cfg.Browser, max(1, opts.sessions))}
	deps := adapters.Deps{
		Sessions: a.pool,
		HTTP:     httputil.NewClient(cfg.HTTP),
		Config:   cfg,
		Since:    since,
	}

	extOpts := []extractor.Option{extractor.WithResourceRegistry(adapters.DefaultResourceRegistry(deps))}
	if !opts.noConfigHooks {
		extOpts = append(extOpts, extractor.WithConfigHooks(hooks.FromConfig(cfg.Hooks)...))
	}
	if cfg.Ledger.Enabled {
		store, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return nil, err
		}
		a.ledger = store
		if opts.record {
			extOpts = append(extOpts, extractor.WithRecorder(store))
		}
	}
	a.ext = extractor.New(adapters.DefaultRegistry(deps), extOpts...)
	return a, nil
}

// Close ends every browser session and closes the ledger.
func (a *app) Close() {
	a.pool.CloseAll(context.Background())
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			log.Warn().Err(err).Msg("closing ledger")
		}
	}
}
