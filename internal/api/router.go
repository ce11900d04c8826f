// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mauri-1658/WoWCharacters/internal/auth"
	"github.com/Mauri-1658/WoWCharacters/internal/config"
)

// Router assembles the HTTP surface from the handler set and the
// session middleware.
type Router struct {
	cfg      *config.Config
	handler  *Handler
	sessions *auth.SessionMiddleware
}

// NewRouter creates the router.
func NewRouter(cfg *config.Config, handler *Handler, sessions *auth.SessionMiddleware) *Router {
	return &Router{cfg: cfg, handler: handler, sessions: sessions}
}

// Setup wires all routes. Session lookup runs globally so public
// routes like auth/status can see the caller; RequireAuth guards the
// data endpoints.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(&router.cfg.Security))
	r.Use(Instrument)
	r.Use(router.sessions.Authenticate)

	r.Get("/health", router.handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Browser-facing OAuth redirect flow.
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", router.handler.AuthLogin)
		r.Get("/callback", router.handler.AuthCallback)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(&router.cfg.Security))

		r.Get("/auth/status", router.handler.AuthStatus)
		r.Post("/auth/logout", router.handler.AuthLogout)

		// Everything below needs a live Battle.net token.
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)

			r.Get("/roster", router.handler.Roster)
			r.Get("/roster/card/{realm}/{name}", router.handler.RosterCard)
			r.Get("/roster/factions", router.handler.RosterFactions)
			r.Get("/roster/factions/{faction}", router.handler.RosterFaction)

			r.Get("/characters/{realm}/{name}", router.handler.CharacterDetail)
			r.Get("/characters/{realm}/{name}/talents", router.handler.CharacterTalents)

			r.Get("/search", router.handler.Search)

			r.Get("/media/item/{id}", router.handler.ItemMedia)
			r.Get("/media/{type}/{id}", router.handler.GameMedia)

			r.Get("/prefs", router.handler.Prefs)
			r.Post("/prefs/favorites", router.handler.AddFavorite)
			r.Delete("/prefs/favorites/{realm}/{name}", router.handler.RemoveFavorite)
			r.Post("/prefs/friends", router.handler.AddFriend)
			r.Delete("/prefs/friends/{realm}/{name}", router.handler.RemoveFriend)
		})
	})

	return r
}
