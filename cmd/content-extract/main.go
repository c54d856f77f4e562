// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the content-extract CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/content-extract/internal/config"
	"github.com/pdiddy/content-extract/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is the loaded configuration, set before any command runs.
var cfg types.Config

var rootCmd = &cobra.Command{
	Use:   "content-extract [urls...]",
	Short: "Extract articles and the resources they link to",
	Long: `content-extract saves a web article as Markdown plus metadata, then follows
the links inside it: Notion pages, Google Drive files, YouTube videos, and
Excalidraw diagrams are extracted into the article's downloads/ directory.
Post-extraction hooks run over the finished article directory.

Supported sources: Substack, Medium, YouTube (videos, channels, playlists),
Notion, Google Drive, Excalidraw, and any other web page.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runExtract,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./"+config.FileName+" if present)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("output-dir", "", `parent directory for article directories (default "output")`)
}

func setup(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	setupLogging(verbose)

	keys, err := config.LoadEnv(".env")
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		log.Debug().Strs("keys", keys).Msg("loaded .env")
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.Find(".")
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if c.Path != "" {
		log.Debug().Str("file", c.Path).Msg("using config file")
	}
	if out, _ := cmd.Flags().GetString("output-dir"); out != "" {
		c.OutputDir = out
	}
	cfg = c
	return nil
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
