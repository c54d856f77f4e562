// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-extract/pkg/types"
)

// Hook script protocol. The script is invoked twice per article:
//
//	<script> [args...] should-run <article_dir>
//	<script> [args...] run <article_dir>
//
// Both calls receive the metadata as JSON on stdin and run with the article
// directory as working directory. should-run exits 0 to run and ExitSkip to
// skip. run prints a HookResult as JSON on stdout, for example
// {"success":true,"filesCreated":["summary.md"]}; "files_created" is accepted
// too. Empty output counts as success with no files. <article_dir> is always
// absolute.
const (
	PhaseShouldRun = "should-run"
	PhaseRun       = "run"

	ExitSkip = 3

	envArticleDir = "CONTENT_EXTRACT_ARTICLE_DIR"
	envPhase      = "CONTENT_EXTRACT_HOOK_PHASE"

	maxStderrTail = 400
)

var (
	ErrHookNotFound = errors.New("hook script not found")
	ErrInvalidHook  = errors.New("invalid hook")
)

// ExecHook runs an external program that speaks the hook script protocol.
type ExecHook struct {
	name    string
	command string
	args    []string
	env     []string
}

func newExecHook(name, command string, args, env []string) *ExecHook {
	return &ExecHook{name: name, command: command, args: args, env: env}
}

func (h *ExecHook) Name() string { return h.name }

func (h *ExecHook) ShouldRun(ctx context.Context, meta types.Metadata, articleDir string) (bool, error) {
	_, code, err := h.invoke(ctx, PhaseShouldRun, meta, articleDir)
	if err == nil {
		return true, nil
	}
	if code == ExitSkip {
		return false, nil
	}
	return false, err
}

func (h *ExecHook) Run(ctx context.Context, meta types.Metadata, articleDir string) (types.HookResult, error) {
	out, _, err := h.invoke(ctx, PhaseRun, meta, articleDir)
	if err != nil {
		return types.HookResult{}, err
	}
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return types.HookSucceeded(), nil
	}
	var res scriptResult
	if err := json.Unmarshal(out, &res); err != nil {
		return types.HookResult{}, fmt.Errorf("decoding %s output: %w", h.name, err)
	}
	if len(res.FilesCreated) == 0 {
		res.FilesCreated = res.FilesCreatedSnake
	}
	return res.HookResult, nil
}

// scriptResult is the run output of a hook script.
type scriptResult struct {
	types.HookResult
	FilesCreatedSnake []string `json:"files_created"`
}

// invoke runs one protocol phase and returns stdout and the exit code.
func (h *ExecHook) invoke(ctx context.Context, phase string, meta types.Metadata, articleDir string) ([]byte, int, error) {
	payload, err := json.Marshal(meta)
	if err != nil {
		return nil, -1, fmt.Errorf("encoding metadata: %w", err)
	}

	articleDir, err = filepath.Abs(articleDir)
	if err != nil {
		return nil, -1, fmt.Errorf("resolving article directory: %w", err)
	}

	args := make([]string, 0, len(h.args)+2)
	args = append(args, h.args...)
	args = append(args, phase, articleDir)

	cmd := exec.CommandContext(ctx, h.command, args...)
	cmd.Dir = articleDir
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Env = append(os.Environ(), envArticleDir+"="+articleDir, envPhase+"="+phase)
	cmd.Env = append(cmd.Env, h.env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return stdout.Bytes(), code, fmt.Errorf("%s %s: %w%s", h.name, phase, err, stderrTail(stderr.String()))
	}
	return stdout.Bytes(), 0, nil
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) > maxStderrTail {
		s = "..." + s[len(s)-maxStderrTail:]
	}
	return ": " + s
}

// manifest is the YAML form of a hook declaration, for hooks that need
// arguments, environment, or their own resource-type filter.
type manifest struct {
	Name          string            `yaml:"name"`
	Command       string            `yaml:"command"`
	Args          []string          `yaml:"args"`
	Env           map[string]string `yaml:"env"`
	ResourceTypes []string          `yaml:"resource_types"`
}

// LoadScript loads a hook from path. A .yaml or .yml file is read as a hook
// manifest; any other file must be an executable speaking the hook script
// protocol.
func LoadScript(path string) (Hook, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrHookNotFound, abs)
	}
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", abs, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidHook, abs)
	}

	switch strings.ToLower(filepath.Ext(abs)) {
	case ".yaml", ".yml":
		return loadManifest(abs)
	}

	if info.Mode().Perm()&0o111 == 0 {
		return nil, fmt.Errorf("%w: %s is not executable", ErrInvalidHook, abs)
	}
	return newExecHook(filepath.Base(abs), abs, nil, nil), nil
}

func loadManifest(path string) (Hook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidHook, path, err)
	}
	if strings.TrimSpace(m.Command) == "" {
		return nil, fmt.Errorf("%w: manifest %s does not name a command", ErrInvalidHook, path)
	}

	command := m.Command
	if strings.ContainsRune(command, filepath.Separator) && !filepath.IsAbs(command) {
		command = filepath.Join(filepath.Dir(path), command)
	}
	name := m.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	keys := make([]string, 0, len(m.Env))
	for k := range m.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+m.Env[k])
	}

	return Filter(newExecHook(name, command, m.Args, env), m.ResourceTypes), nil
}

// LoadScripts loads explicitly requested hooks. The first failure aborts
// loading.
func LoadScripts(paths []string) ([]Hook, error) {
	out := make([]Hook, 0, len(paths))
	for _, p := range paths {
		h, err := LoadScript(p)
		if err != nil {
			return nil, fmt.Errorf("loading hook %s: %w", p, err)
		}
		out = append(out, h)
	}
	return out, nil
}

// FromConfig loads config-declared hooks in declaration order. A hook that
// fails to load is logged and skipped.
func FromConfig(cfgs []types.HookConfig) []Hook {
	out := make([]Hook, 0, len(cfgs))
	for _, c := range cfgs {
		if c.Script == "" {
			continue
		}
		h, err := LoadScript(c.Script)
		if err != nil {
			log.Warn().Str("script", c.Script).Err(err).Msg("skipping hook")
			continue
		}
		out = append(out, Filter(h, c.ResourceTypes))
	}
	return out
}
