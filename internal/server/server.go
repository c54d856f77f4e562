// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes extraction over HTTP: run an extraction, list the
// adapter order, and browse the ledger.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/internal/extractor"
	"github.com/pdiddy/content-extract/internal/ledger"
	"github.com/pdiddy/content-extract/pkg/types"
)

// Extractor runs extractions. *extractor.Extractor satisfies it.
type Extractor interface {
	ExtractURL(ctx context.Context, url string, opts extractor.Options) types.AggregateResult
	Registry() *extractor.Registry
	ResourceRegistry() *extractor.Registry
}

// Ledger records and lists extractions. *ledger.Store satisfies it.
type Ledger interface {
	Add(ctx context.Context, agg types.AggregateResult) (ledger.Entry, error)
	List(ctx context.Context, opts ledger.ListOptions) ([]ledger.Entry, error)
	Get(ctx context.Context, id string) (ledger.Entry, error)
}

// Server holds the HTTP handlers.
type Server struct {
	ext       Extractor
	ledger    Ledger
	outputDir string

	mu    sync.Mutex
	locks map[string]*dirLock
}

// New returns a Server writing article directories under outputDir. l may
// be nil, in which case the ledger endpoints answer 503.
func New(ext Extractor, l Ledger, outputDir string) *Server {
	return &Server{ext: ext, ledger: l, outputDir: outputDir, locks: make(map[string]*dirLock)}
}

// Router mounts the API routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/adapters", s.listAdapters)
		r.Post("/extractions", s.createExtraction)
		r.Get("/extractions", s.listExtractions)
		r.Get("/extractions/{id}", s.getExtraction)
	})
	return r
}

// dirLock is a mutex shared by the requests holding or waiting on one
// article directory.
type dirLock struct {
	mu   sync.Mutex
	refs int
}

// lockDir serializes extractions that share an article directory. The
// returned func unlocks it; the entry is dropped once no request needs it.
func (s *Server) lockDir(dir string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[dir]
	if !ok {
		l = &dirLock{}
		s.locks[dir] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		defer s.mu.Unlock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, dir)
		}
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
