package types

import "time"

// HTTPConfig holds shared HTTP settings used by adapters that download
// files directly.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "content-extract/0.1").
	UserAgent string `json:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 and 503 (default 3).
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`
}

// BrowserConfig holds settings for the agent-browser automation CLI.
type BrowserConfig struct {
	// Binary is the agent-browser executable name or path.
	Binary string `json:"binary" mapstructure:"binary"`

	// Session is the base session name. Concurrent extractions get numbered
	// sessions derived from it ("extract", "extract-2", ...).
	Session string `json:"session" mapstructure:"session"`

	// ProfileDir is the persistent browser profile holding login cookies.
	ProfileDir string `json:"profile_dir" mapstructure:"profile_dir"`

	// ExcalidrawProfileDir is the profile used by the dedicated Excalidraw session.
	ExcalidrawProfileDir string `json:"excalidraw_profile_dir" mapstructure:"excalidraw_profile_dir"`

	// SettleDelay is the pause after navigation before evaluating scripts (default 2s).
	SettleDelay time.Duration `json:"settle_delay" mapstructure:"settle_delay"`

	// CommandTimeout bounds each agent-browser invocation (default 30s).
	CommandTimeout time.Duration `json:"command_timeout" mapstructure:"command_timeout"`
}

// YouTubeConfig holds settings for the yt-dlp based YouTube adapter.
type YouTubeConfig struct {
	// Binary is the yt-dlp executable name or path.
	Binary string `json:"binary" mapstructure:"binary"`

	// SubLang is the subtitle language requested from yt-dlp (default "en").
	SubLang string `json:"sub_lang" mapstructure:"sub_lang"`

	// Timeout bounds one yt-dlp invocation (default 60s).
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// LedgerConfig controls the SQLite record of past extractions.
type LedgerConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// HookConfig declares one config-file hook.
type HookConfig struct {
	// Script is the hook path. Relative paths resolve against the directory
	// of the config file that declared them.
	Script string `json:"script" mapstructure:"script"`

	// ResourceTypes restricts the hook to primary results of these types.
	// Empty means all types.
	ResourceTypes []string `json:"resource_types,omitempty" mapstructure:"resource_types"`
}

// Config is the per-project configuration read from .content-extractor.toml.
type Config struct {
	// OutputDir is the base directory for article directories (default "output").
	OutputDir string `json:"output_dir" mapstructure:"output_dir"`

	// Delay is the pause between consecutive sequential extractions (default 1s).
	Delay time.Duration `json:"delay" mapstructure:"delay"`

	HTTP    HTTPConfig    `json:"http" mapstructure:"http"`
	Browser BrowserConfig `json:"browser" mapstructure:"browser"`
	YouTube YouTubeConfig `json:"youtube" mapstructure:"youtube"`
	Ledger  LedgerConfig  `json:"ledger" mapstructure:"ledger"`
	Server  ServerConfig  `json:"server" mapstructure:"server"`
	Hooks   []HookConfig  `json:"hooks" mapstructure:"hooks"`

	// Path is the config file that was read, empty when defaults were used.
	Path string `json:"-" mapstructure:"-"`
}
