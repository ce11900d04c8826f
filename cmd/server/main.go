// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package main is the entry point for the Nexus server.
//
// Nexus is a self-hosted dashboard for World of Warcraft characters.
// It signs the user in with Battle.net OAuth, pulls the account's
// characters from the Blizzard profile API and serves a JSON API for
// the roster, character details, talents and cross-realm search.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered load from defaults, config.yaml and
//     environment variables (Koanf v2)
//  2. Logging: zerolog, JSON or console format
//  3. Stores: session and preference stores (in-memory or BadgerDB)
//  4. Battle.net client: rate-limited HTTP client behind a circuit
//     breaker, plus the OAuth client
//  5. HTTP server: chi router with CORS, rate limiting and Prometheus
//     metrics
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections, waits up to 10 seconds for in-flight requests
// and closes the stores.
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

	"github.com/Mauri-1658/WoWCharacters/internal/api"
	"github.com/Mauri-1658/WoWCharacters/internal/auth"
	"github.com/Mauri-1658/WoWCharacters/internal/bnet"
	"github.com/Mauri-1658/WoWCharacters/internal/config"
	"github.com/Mauri-1658/WoWCharacters/internal/logging"
	"github.com/Mauri-1658/WoWCharacters/internal/prefs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("region", cfg.Battlenet.Region).
		Str("session_store", cfg.Session.Store).
		Str("prefs_store", cfg.Prefs.Store).
		Msg("Starting Nexus")

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		return err
	}
	defer sessionStore.Close()

	prefStore, err := newPrefStore(cfg)
	if err != nil {
		return err
	}
	defer prefStore.Close()

	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	startSessionCleanup(cleanupCtx, sessionStore)

	sessions := auth.NewSessionMiddleware(sessionStore, &auth.SessionMiddlewareConfig{
		CookieName:     cfg.Session.CookieName,
		SessionTTL:     cfg.Session.TTL,
		SlidingSession: cfg.Session.Sliding,
		CookiePath:     "/",
		CookieSecure:   cfg.Session.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})

	apiClient := bnet.NewBreakerClient(&cfg.Battlenet)
	oauthClient := auth.NewOAuthClient(&cfg.Battlenet)

	handler := api.NewHandler(cfg, apiClient, oauthClient, sessions, prefStore)
	router := api.NewRouter(cfg, handler, sessions)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown incomplete: %w", err)
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}

func newSessionStore(cfg *config.Config) (auth.SessionStore, error) {
	if cfg.Session.Store == "badger" {
		store, err := auth.OpenBadgerSessionStore(cfg.Session.StorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
		return store, nil
	}
	return auth.NewMemorySessionStore(), nil
}

func newPrefStore(cfg *config.Config) (prefs.Store, error) {
	if cfg.Prefs.Store == "badger" {
		store, err := prefs.OpenBadgerStore(cfg.Prefs.StorePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return prefs.NewMemoryStore(), nil
}

// startSessionCleanup runs the expired-session sweeper for whichever
// store implementation is in use.
func startSessionCleanup(ctx context.Context, store auth.SessionStore) {
	const interval = 15 * time.Minute
	switch s := store.(type) {
	case *auth.BadgerSessionStore:
		s.StartCleanupRoutine(ctx, interval)
	case *auth.MemorySessionStore:
		stop := s.StartCleanupRoutine(interval)
		go func() {
			<-ctx.Done()
			close(stop)
		}()
	}
}
