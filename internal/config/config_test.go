// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-extract/pkg/types"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, time.Second, cfg.Delay)
	assert.Equal(t, "agent-browser", cfg.Browser.Binary)
	assert.Equal(t, "extract", cfg.Browser.Session)
	assert.Equal(t, 2*time.Second, cfg.Browser.SettleDelay)
	assert.Equal(t, "yt-dlp", cfg.YouTube.Binary)
	assert.Equal(t, "en", cfg.YouTube.SubLang)
	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.True(t, cfg.Ledger.Enabled)
	assert.Empty(t, cfg.Hooks)
	assert.Empty(t, cfg.Path)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
output_dir = "articles"
delay = "250ms"

[browser]
profile_dir = "/home/me/.profile"
settle_delay = "3s"

[youtube]
sub_lang = "de"

[[hooks]]
script = "hooks/summarize.sh"
resource_types = ["substack", "medium"]

[[hooks]]
script = "/abs/notify.yaml"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "articles", cfg.OutputDir)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.Equal(t, "/home/me/.profile", cfg.Browser.ProfileDir)
	assert.Equal(t, 3*time.Second, cfg.Browser.SettleDelay)
	assert.Equal(t, "agent-browser", cfg.Browser.Binary, "defaults fill unset keys")
	assert.Equal(t, "de", cfg.YouTube.SubLang)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(abs, FileName), cfg.Path)
	assert.Equal(t, []types.HookConfig{
		{Script: filepath.Join(abs, "hooks", "summarize.sh"), ResourceTypes: []string{"substack", "medium"}},
		{Script: "/abs/notify.yaml"},
	}, cfg.Hooks)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONTENT_EXTRACT_OUTPUT_DIR", "from-env")
	t.Setenv("CONTENT_EXTRACT_BROWSER_PROFILE_DIR", "/env/profile")
	t.Setenv("CONTENT_EXTRACT_LEDGER_ENABLED", "false")

	path := writeConfig(t, t.TempDir(), `output_dir = "from-file"`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.OutputDir)
	assert.Equal(t, "/env/profile", cfg.Browser.ProfileDir)
	assert.False(t, cfg.Ledger.Enabled)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed toml", "output_dir = ", ""},
		{"hook without script", "[[hooks]]\nresource_types = [\"web\"]\n", "script"},
		{"unknown hook type", "[[hooks]]\nscript = \"a.sh\"\nresource_types = [\"podcast\"]\n", "unknown resource type"},
		{"negative delay", `delay = "-1s"`, "delay"},
		{"retries out of range", "[http]\nmax_retries = 50\n", "max_retries"},
		{"bad server addr", "[server]\naddr = \"localhost\"\n", "host:port"},
		{"empty output dir", `output_dir = ""`, "output_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			require.Error(t, err)

			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, path, ce.Path)
			assert.True(t, IsConfigError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, IsConfigError(err))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Find(dir))

	path := writeConfig(t, dir, "")
	assert.Equal(t, path, Find(dir))
}

func TestValidateServerAddr(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"", false},
		{":8080", false},
		{"127.0.0.1:9000", false},
		{"localhost", true},
		{"host:http", true},
		{"host:70000", true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			cfg := Default()
			cfg.Server.Addr = tt.addr
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
