// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser drives the agent-browser automation CLI. Each Session maps
// to one named agent-browser session backed by a persistent profile, so a
// login done once in the profile is reused by every extraction.
package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/content-extract/pkg/types"
)

const (
	DefaultBinary  = "agent-browser"
	DefaultSession = "extract"

	defaultSettle  = 2 * time.Second
	defaultTimeout = 30 * time.Second
	scrollPause    = time.Second
)

// ErrUnavailable is returned when the agent-browser binary is not on PATH.
var ErrUnavailable = errors.New("agent-browser not available")

// Session is one browser tab the adapters can drive.
type Session interface {
	// Open navigates to url and waits for the page to settle.
	Open(ctx context.Context, url string) error

	// Eval runs js in the page and returns its result as text.
	Eval(ctx context.Context, js string) (string, error)

	// Scroll moves down by the given number of viewport heights.
	Scroll(ctx context.Context, screens int) error

	// Close ends the session. Closing an already closed session is harmless.
	Close(ctx context.Context) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// sleep waits for d or until ctx is done. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// agentSession implements Session over the agent-browser CLI.
type agentSession struct {
	bin     string
	name    string
	profile string
	settle  time.Duration
	timeout time.Duration
	exec    executor
}

func newSession(cfg types.BrowserConfig, name, profile string, ex executor) *agentSession {
	s := &agentSession{
		bin:     cfg.Binary,
		name:    name,
		profile: profile,
		settle:  cfg.SettleDelay,
		timeout: cfg.CommandTimeout,
		exec:    ex,
	}
	if s.bin == "" {
		s.bin = DefaultBinary
	}
	if s.settle == 0 {
		s.settle = defaultSettle
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	return s
}

// Name returns the agent-browser session name.
func (s *agentSession) Name() string { return s.name }

func (s *agentSession) args(extra ...string) []string {
	args := []string{"--session", s.name}
	if s.profile != "" {
		args = append(args, "--profile", s.profile)
	}
	return append(args, extra...)
}

func (s *agentSession) Open(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.exec.RunSilent(cctx, s.bin, s.args("open", url)...); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	log.Debug().Str("session", s.name).Str("url", url).Msg("page opened")
	return sleep(ctx, s.settle)
}

func (s *agentSession) Eval(ctx context.Context, js string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	var out bytes.Buffer
	if err := s.exec.RunPiped(cctx, s.bin, s.args("--json", "eval", "--stdin"), strings.NewReader(js), &out); err != nil {
		return "", fmt.Errorf("evaluating script: %w", err)
	}
	return unwrap(out.String())
}

func (s *agentSession) Scroll(ctx context.Context, screens int) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.exec.RunSilent(cctx, s.bin, s.args("scroll", "down", strconv.Itoa(screens))...); err != nil {
		return fmt.Errorf("scrolling: %w", err)
	}
	return sleep(ctx, scrollPause)
}

func (s *agentSession) Close(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.exec.RunSilent(cctx, s.bin, s.args("close")...); err != nil {
		log.Debug().Str("session", s.name).Err(err).Msg("closing session")
	}
	return nil
}

// evalReply is the --json envelope: {"success":true,"data":{"result":...}}.
type evalReply struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Data    *struct {
		Result json.RawMessage `json:"result"`
	} `json:"data"`
}

// unwrap extracts the eval result from the --json envelope. Output that is
// not an envelope is returned as is.
func unwrap(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	var reply evalReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return raw, nil
	}
	if reply.Success != nil && !*reply.Success {
		if reply.Error == "" {
			reply.Error = "eval failed"
		}
		return "", errors.New(reply.Error)
	}
	if reply.Data == nil {
		return raw, nil
	}
	result := reply.Data.Result
	if len(result) == 0 || string(result) == "null" {
		return "", nil
	}
	var str string
	if err := json.Unmarshal(result, &str); err == nil {
		return str, nil
	}
	return string(result), nil
}

// DecodeJSON decodes the first JSON object or array in raw into v. Page
// scripts return JSON.stringify output, sometimes with noise around it.
func DecodeJSON(raw string, v any) error {
	i := strings.IndexAny(raw, "{[")
	if i < 0 {
		return fmt.Errorf("no JSON in script result %q", truncate(raw, 80))
	}
	if err := json.NewDecoder(strings.NewReader(raw[i:])).Decode(v); err != nil {
		return fmt.Errorf("decoding script result: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
