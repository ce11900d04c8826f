// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mauri-1658/WoWCharacters/internal/catalog"
	"github.com/Mauri-1658/WoWCharacters/internal/filter"
)

// Roster returns the partitioned character roster. Search, filter and
// sort criteria come from the query string.
func (h *Handler) Roster(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	q := r.URL.Query()
	criteria := filter.Criteria{
		Search:  q.Get("search"),
		Faction: q.Get("faction"),
		Class:   q.Get("class"),
		Realm:   q.Get("realm"),
		Sort:    q.Get("sort"),
	}

	view, err := h.roster.Build(r.Context(), session.AccessToken, session.UserID, criteria)
	if err != nil {
		h.upstreamError(rw, err)
		return
	}
	rw.Success(view)
}

// RosterCard returns the enriched tile for one character.
func (h *Handler) RosterCard(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	realm := chi.URLParam(r, "realm")
	name := chi.URLParam(r, "name")
	if realm == "" || name == "" {
		rw.BadRequest("Realm and character name are required")
		return
	}

	card, err := h.roster.BuildCard(r.Context(), session.AccessToken, realm, name)
	if err != nil {
		h.upstreamError(rw, err)
		return
	}
	rw.Success(card)
}

// RosterFactions returns the per-faction summary of the account.
func (h *Handler) RosterFactions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	summary, err := h.api.ProfileSummary(r.Context(), session.AccessToken)
	if err != nil {
		h.upstreamError(rw, err)
		return
	}

	rw.Success(catalog.Summarize(catalog.Parse(summary)))
}

// RosterFaction returns the summary for a single faction.
func (h *Handler) RosterFaction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	faction := chi.URLParam(r, "faction")

	summary, err := h.api.ProfileSummary(r.Context(), session.AccessToken)
	if err != nil {
		h.upstreamError(rw, err)
		return
	}

	s, ok := catalog.SummarizeFaction(catalog.Parse(summary), faction)
	if !ok {
		rw.NotFound("No characters in that faction")
		return
	}
	rw.Success(s)
}
