// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Mauri-1658/WoWCharacters/internal/auth"
	"github.com/Mauri-1658/WoWCharacters/internal/bnet"
	"github.com/Mauri-1658/WoWCharacters/internal/config"
	"github.com/Mauri-1658/WoWCharacters/internal/detail"
	"github.com/Mauri-1658/WoWCharacters/internal/prefs"
	"github.com/Mauri-1658/WoWCharacters/internal/roster"
	"github.com/Mauri-1658/WoWCharacters/internal/talents"
)

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	cfg      *config.Config
	api      bnet.API
	oauth    *auth.OAuthClient
	sessions *auth.SessionMiddleware
	prefs    prefs.Store
	roster   *roster.Service
	detail   *detail.Service
	talents  *talents.Service

	startTime time.Time
}

// NewHandler creates the handler set.
func NewHandler(
	cfg *config.Config,
	apiClient bnet.API,
	oauthClient *auth.OAuthClient,
	sessions *auth.SessionMiddleware,
	prefStore prefs.Store,
) *Handler {
	return &Handler{
		cfg:       cfg,
		api:       apiClient,
		oauth:     oauthClient,
		sessions:  sessions,
		prefs:     prefStore,
		roster:    roster.NewService(apiClient, prefStore, cfg.Battlenet.FriendWorkers),
		detail:    detail.NewService(apiClient),
		talents:   talents.NewService(apiClient),
		startTime: time.Now(),
	}
}

// session returns the authenticated session. Handlers behind
// RequireAuth can rely on it being non-nil.
func (h *Handler) session(r *http.Request) *auth.Session {
	return auth.SessionFromContext(r.Context())
}

// upstreamError maps Battle.net client failures onto API responses.
func (h *Handler) upstreamError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, bnet.ErrNotFound):
		rw.NotFound("Character not found")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		rw.ServiceUnavailable("Battle.net API temporarily unavailable")
	default:
		var apiErr *bnet.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			rw.Unauthorized("Battle.net authorization expired")
			return
		}
		rw.ExternalServiceError("battle.net", err)
	}
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}
