// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sprowk/company-finder/internal/api"
	"github.com/sprowk/company-finder/internal/cache"
	"github.com/sprowk/company-finder/internal/config"
	"github.com/sprowk/company-finder/internal/filter"
	"github.com/sprowk/company-finder/internal/ingest"
	"github.com/sprowk/company-finder/internal/logging"
	"github.com/sprowk/company-finder/internal/normalize"
	"github.com/sprowk/company-finder/internal/session"
	"github.com/sprowk/company-finder/internal/supervisor"
	"github.com/sprowk/company-finder/internal/supervisor/services"
	ws "github.com/sprowk/company-finder/internal/websocket"
)

// citySuggestions bounds the autocomplete list.
const citySuggestions = 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingSettings())
	logging.Info().
		Str("source", cfg.Source.Kind).
		Int("page_size", cfg.Ingest.PageSize).
		Bool("auto_start", cfg.Ingest.AutoStart).
		Msg("Starting Company Finder")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	src, closer, err := initSource(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing part cache")
		}
	}()

	cities := cache.NewTrie(normalize.Fold, citySuggestions)
	ctrl := ingest.New(src, ingest.Options{
		Cities:    cities,
		AutoStart: cfg.Ingest.AutoStart,
	})

	sessions := session.NewManager(ctrl, filter.New(normalize.New(cfg.Ingest.NormalizeCacheSize)), session.Options{
		PageSize:    cfg.Ingest.PageSize,
		Debounce:    cfg.Ingest.Debounce,
		TTL:         cfg.Ingest.SessionTTL,
		MaxSessions: cfg.Ingest.MaxSessions,
	})

	// Sessions must see a run's events before the hub so that a client
	// receiving "ingest_complete" can already read the re-sorted view.
	hub := ws.NewHub()
	ctrl.Subscribe(sessions)
	ctrl.Subscribe(hub)
	sessions.SetPublisher(hub)

	handler := api.NewHandler(ctrl, sessions, cities, hub, &cfg.Server)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, &cfg.Server).SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Streaming CSV exports of the full register outlive the API timeout.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	components := supervisor.Components{
		Ingest:   ctrl,
		Sessions: sessions,
		Hub:      hub,
		HTTP:     services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout),
	}
	if cfg.Ingest.ReloadSchedule != "" {
		schedule, err := config.ParseSchedule(cfg.Ingest.ReloadSchedule)
		if err != nil {
			return fmt.Errorf("parse reload schedule: %w", err)
		}
		components.Scheduler = services.NewReloadScheduler(schedule, ctrl)
		logging.Info().Str("schedule", cfg.Ingest.ReloadSchedule).Msg("Scheduled reloads enabled")
	}
	tree.Wire(components)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
