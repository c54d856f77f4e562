// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/content-extract/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction API over HTTP",
	Long: `Serve exposes extraction over HTTP:

  GET  /v1/adapters           adapter resolution order
  POST /v1/extractions        {"url": "...", "skipResources": false}
  GET  /v1/extractions        recorded extractions (?limit=&url=&failed=)
  GET  /v1/extractions/{id}   one recorded extraction`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, 127.0.0.1:8080)")
	serveCmd.Flags().Int("sessions", 2, "browser sessions shared by concurrent requests")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}
	sessions, _ := cmd.Flags().GetInt("sessions")

	a, err := newApp(appOptions{sessions: sessions})
	if err != nil {
		return err
	}
	defer a.Close()

	var l server.Ledger
	if a.ledger != nil {
		l = a.ledger
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(a.ext, l, cfg.OutputDir).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("serving")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("http server shutdown")
		}
		return nil
	})
	return g.Wait()
}
