// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the per-project .content-extractor.toml file,
// applies defaults and CONTENT_EXTRACT_* environment overrides, and
// validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/content-extract/internal/browser"
	"github.com/pdiddy/content-extract/pkg/types"
)

const (
	// FileName is the config file discovered in the working directory.
	FileName = ".content-extractor.toml"

	// EnvPrefix prefixes environment overrides, e.g.
	// CONTENT_EXTRACT_BROWSER_PROFILE_DIR.
	EnvPrefix = "CONTENT_EXTRACT"
)

// ConfigError reports a config file that could not be read, parsed, or
// validated.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Find returns the path of FileName in dir, or "" when there is none.
func Find(dir string) string {
	p := filepath.Join(dir, FileName)
	if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
		return p
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", "output")
	v.SetDefault("delay", time.Second)

	v.SetDefault("http.timeout", 60*time.Second)
	v.SetDefault("http.user_agent", "")
	v.SetDefault("http.max_retries", 3)

	v.SetDefault("browser.binary", browser.DefaultBinary)
	v.SetDefault("browser.session", browser.DefaultSession)
	v.SetDefault("browser.profile_dir", "")
	v.SetDefault("browser.excalidraw_profile_dir", "")
	v.SetDefault("browser.settle_delay", 2*time.Second)
	v.SetDefault("browser.command_timeout", 30*time.Second)

	v.SetDefault("youtube.binary", "yt-dlp")
	v.SetDefault("youtube.sub_lang", "en")
	v.SetDefault("youtube.timeout", 60*time.Second)

	v.SetDefault("ledger.enabled", true)
	v.SetDefault("ledger.path", ".content-extract.db")

	v.SetDefault("server.addr", "127.0.0.1:8080")
}

// Default returns the configuration used when no file is present.
// Environment overrides are not applied.
func Default() types.Config {
	v := viper.New()
	setDefaults(v)
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// Load reads the TOML file at path over the defaults and environment. An
// empty path loads defaults and environment only. Relative hook scripts
// are resolved against the directory holding the file. Any failure is a
// *ConfigError.
func Load(path string) (types.Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return types.Config{}, &ConfigError{Path: path, Err: err}
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, &ConfigError{Path: path, Err: err}
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, &ConfigError{Path: path, Err: err}
	}

	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return types.Config{}, &ConfigError{Path: path, Err: err}
		}
		cfg.Path = abs
		base := filepath.Dir(abs)
		for i, h := range cfg.Hooks {
			if !filepath.IsAbs(h.Script) {
				cfg.Hooks[i].Script = filepath.Join(base, h.Script)
			}
		}
	}
	return cfg, nil
}

// IsConfigError reports whether err came from loading configuration.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
