// Aspeti - Local Offers Marketplace
// Copyright 2026 Aspeti
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aspeti/aspeti

// Package main is the entry point for the Aspeti server.
//
// Aspeti is a local-offers marketplace core. Providers publish offers with
// prices, discounts and audience targeting; clients browse a ranked feed
// filtered by category, text, location and segmentation rules. The server
// also carries provider-client messaging threads and invite codes for
// client onboarding.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML file, env)
//  2. Storage: BadgerDB-backed collections with seed-data fallback
//  3. Core services: discovery pipeline, offers, messaging, invites
//  4. Supervision: suture tree running the HTTP server and the
//     unread-count refresher
//
// Shutdown is graceful on SIGINT and SIGTERM: the HTTP server drains
// in-flight requests within the configured timeout, then the store closes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aspeti/aspeti/internal/api"
	"github.com/aspeti/aspeti/internal/config"
	"github.com/aspeti/aspeti/internal/discovery"
	"github.com/aspeti/aspeti/internal/invites"
	"github.com/aspeti/aspeti/internal/logging"
	"github.com/aspeti/aspeti/internal/messaging"
	"github.com/aspeti/aspeti/internal/offers"
	"github.com/aspeti/aspeti/internal/store"
	"github.com/aspeti/aspeti/internal/supervisor"
)

func main() {
	// Config first, logging settings live there.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("store_backend", cfg.Store.Backend).
		Msg("Starting Aspeti")

	backend, err := openBackend(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store backend")
	}

	stores := store.NewStores(backend)
	defer func() {
		if err := stores.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	pipeline := discovery.New(stores.Offers)
	offerSvc := offers.NewService(stores.Offers)
	messagingSvc := messaging.NewService(stores.Threads, stores.Clients)
	refresher := messaging.NewUnreadRefresher(messagingSvc, cfg.Messaging.RefreshInterval)
	inviteSvc := invites.NewService(stores.Invites)

	router := api.New(api.Config{
		AllowedOrigins:        cfg.Security.CORSOrigins,
		RateLimit:             cfg.Security.RateLimitReqs,
		RateLimitWindow:       cfg.Security.RateLimitWindow,
		DefaultRadiusKm:       cfg.API.DefaultRadiusKm,
		DefaultInviteTTLHours: cfg.API.InviteTTLHours,
	}, stores, pipeline, offerSvc, messagingSvc, refresher, inviteSvc)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// The supervisor logs through slog; bridge it to zerolog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddMessagingService(refresher)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Server stopped gracefully")
}

// openBackend selects the persistence backend from config. A badger open
// failure does not abort startup: the server comes up on seed data with
// the stores reporting degraded persistence.
func openBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryBackend(), nil
	case "badger":
		backend, err := store.NewBadgerBackend(cfg.Store.Path)
		if err != nil {
			logging.Warn().Err(err).Str("path", cfg.Store.Path).
				Msg("BadgerDB unavailable, serving seed data in degraded mode")
			return store.NewUnavailableBackend(err), nil
		}
		return backend, nil
	default:
		return nil, errors.New("unknown store backend " + cfg.Store.Backend)
	}
}
