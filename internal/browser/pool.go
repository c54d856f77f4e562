// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/pkg/types"
)

// Sessions hands out browser sessions to adapters.
type Sessions interface {
	Acquire(ctx context.Context) (Session, error)
	Release(s Session)
}

// Pool lends up to size sessions. Sessions are created lazily and named
// after the configured base ("extract", "extract-2", ...), so concurrent
// extractions never share a tab. All sessions share one profile.
type Pool struct {
	cfg  types.BrowserConfig
	exec executor
	size int

	idle chan Session

	mu      sync.Mutex
	created []Session
	checked bool
	lookErr error
}

// NewPool returns a pool of at most size sessions. size below 1 means 1.
func NewPool(cfg types.BrowserConfig, size int) *Pool {
	return newPool(cfg, size, osExecutor{})
}

func newPool(cfg types.BrowserConfig, size int, ex executor) *Pool {
	size = max(size, 1)
	return &Pool{cfg: cfg, exec: ex, size: size, idle: make(chan Session, size)}
}

// Acquire returns an idle session, creates one while under the limit, or
// waits for a Release.
func (p *Pool) Acquire(ctx context.Context) (Session, error) {
	select {
	case s := <-p.idle:
		return s, nil
	default:
	}

	s, err := p.create()
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}

	select {
	case s := <-p.idle:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// create returns a new session, or nil when the pool is full.
func (p *Pool) create() (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.checked {
		p.checked = true
		bin := p.cfg.Binary
		if bin == "" {
			bin = DefaultBinary
		}
		if _, err := p.exec.LookPath(bin); err != nil {
			p.lookErr = fmt.Errorf("%w: %s not found on PATH", ErrUnavailable, bin)
		}
	}
	if p.lookErr != nil {
		return nil, p.lookErr
	}
	if len(p.created) >= p.size {
		return nil, nil
	}

	s := newSession(p.cfg, sessionName(p.cfg.Session, len(p.created)), p.cfg.ProfileDir, p.exec)
	p.created = append(p.created, s)
	log.Debug().Str("session", s.name).Msg("browser session created")
	return s, nil
}

// Release returns s to the pool.
func (p *Pool) Release(s Session) {
	if s == nil {
		return
	}
	select {
	case p.idle <- s:
	default:
	}
}

// CloseAll closes every session the pool created.
func (p *Pool) CloseAll(ctx context.Context) {
	p.mu.Lock()
	created := p.created
	p.created = nil
	p.mu.Unlock()

	for _, s := range created {
		s.Close(ctx)
	}
	for {
		select {
		case <-p.idle:
		default:
			return
		}
	}
}

// Dedicated returns a session outside the pool with its own name and
// profile. The caller closes it.
func (p *Pool) Dedicated(name, profile string) (Session, error) {
	bin := p.cfg.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	if _, err := p.exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("%w: %s not found on PATH", ErrUnavailable, bin)
	}
	return newSession(p.cfg, name, profile, p.exec), nil
}

func sessionName(base string, i int) string {
	if base == "" {
		base = DefaultSession
	}
	if i == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, i+1)
}
