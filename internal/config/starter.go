// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrExists is returned by WriteStarter when the file is already there.
var ErrExists = errors.New("config file already exists")

type starterFile struct {
	OutputDir string         `toml:"output_dir" comment:"Parent directory for article directories."`
	Delay     string         `toml:"delay" comment:"Pause between URLs when extracting sequentially."`
	Browser   starterBrowser `toml:"browser"`
	YouTube   starterYouTube `toml:"youtube"`
	Ledger    starterLedger  `toml:"ledger"`
	Server    starterServer  `toml:"server"`
	Hooks     []starterHook  `toml:"hooks" comment:"Post-extraction hooks, run in order after any --hook scripts."`
}

type starterBrowser struct {
	Binary      string `toml:"binary"`
	Session     string `toml:"session"`
	ProfileDir  string `toml:"profile_dir" comment:"Browser profile holding Substack, Medium, and Notion logins."`
	SettleDelay string `toml:"settle_delay"`
}

type starterYouTube struct {
	Binary  string `toml:"binary"`
	SubLang string `toml:"sub_lang"`
}

type starterLedger struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type starterServer struct {
	Addr string `toml:"addr"`
}

type starterHook struct {
	Script        string   `toml:"script"`
	ResourceTypes []string `toml:"resource_types"`
}

// Starter renders a commented starter config holding the defaults and one
// example hook.
func Starter() ([]byte, error) {
	d := Default()
	f := starterFile{
		OutputDir: d.OutputDir,
		Delay:     d.Delay.String(),
		Browser: starterBrowser{
			Binary:      d.Browser.Binary,
			Session:     d.Browser.Session,
			ProfileDir:  "~/.content-extract/browser-profile",
			SettleDelay: d.Browser.SettleDelay.String(),
		},
		YouTube: starterYouTube{Binary: d.YouTube.Binary, SubLang: d.YouTube.SubLang},
		Ledger:  starterLedger{Enabled: d.Ledger.Enabled, Path: d.Ledger.Path},
		Server:  starterServer{Addr: d.Server.Addr},
		Hooks:   []starterHook{{Script: "hooks/summarize.sh", ResourceTypes: []string{"substack", "medium"}}},
	}

	var buf bytes.Buffer
	buf.WriteString("# content-extract configuration\n\n")
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encoding starter config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteStarter writes the starter config into dir. An existing file is
// only replaced when force is set.
func WriteStarter(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return path, ErrExists
	}
	data, err := Starter()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
