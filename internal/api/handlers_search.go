// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Mauri-1658/WoWCharacters/internal/catalog"
	"github.com/Mauri-1658/WoWCharacters/internal/lexicon"
)

// SearchHit is one result of a global character search.
type SearchHit struct {
	Name       string `json:"name"`
	Realm      string `json:"realm"`
	RealmSlug  string `json:"realmSlug"`
	Level      int    `json:"level"`
	Class      string `json:"class"`
	ClassColor string `json:"classColor"`
	Faction    string `json:"faction"`
	Key        string `json:"key"`
}

// Search looks up characters across all realms. With both name and
// realm it resolves the exact character; with a name alone it runs the
// region-wide search ordered by level.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	realm := strings.TrimSpace(r.URL.Query().Get("realm"))
	if name == "" {
		rw.BadRequest("Character name is required")
		return
	}

	if realm != "" {
		profile, err := h.api.CharacterProfile(r.Context(), session.AccessToken, realm, name)
		if err != nil {
			h.upstreamError(rw, err)
			return
		}
		rw.Success([]SearchHit{{
			Name:       profile.Name,
			Realm:      profile.Realm.Name,
			RealmSlug:  profile.Realm.Slug,
			Level:      profile.Level,
			Class:      profile.CharacterClass.Name,
			ClassColor: lexicon.ClassColor(profile.CharacterClass.Name),
			Faction:    profile.Faction.Type,
			Key:        catalog.Key(profile.Realm.Slug, profile.Name),
		}})
		return
	}

	resp, err := h.api.SearchCharacters(r.Context(), session.AccessToken, name)
	if err != nil {
		h.upstreamError(rw, err)
		return
	}

	hits := make([]SearchHit, 0, len(resp.Results))
	for _, result := range resp.Results {
		c := result.Data
		class := c.CharacterClass.Name.Pick()
		hits = append(hits, SearchHit{
			Name:       c.Name.Pick(),
			Realm:      c.Realm.Name.Pick(),
			RealmSlug:  c.Realm.Slug,
			Level:      c.Level,
			Class:      class,
			ClassColor: lexicon.ClassColor(class),
			Faction:    c.Faction.Type,
			Key:        catalog.Key(c.Realm.Slug, c.Name.Pick()),
		})
	}
	rw.Success(hits)
}

// ItemMedia returns the icon URL for an item.
func (h *Handler) ItemMedia(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		rw.BadRequest("Invalid item id")
		return
	}

	media, err := h.api.ItemMedia(r.Context(), session.AccessToken, id)
	if err != nil {
		h.upstreamError(rw, err)
		return
	}
	rw.Success(map[string]string{"iconUrl": media.Asset("icon")})
}

// GameMedia returns the icon URL for an arbitrary game media document
// (talents, spells, specializations).
func (h *Handler) GameMedia(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	mediaType := chi.URLParam(r, "type")
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if mediaType == "" || err != nil || id <= 0 {
		rw.BadRequest("Invalid media reference")
		return
	}

	media, err := h.api.GameMedia(r.Context(), session.AccessToken, mediaType, id)
	if err != nil {
		h.upstreamError(rw, err)
		return
	}
	rw.Success(map[string]string{"iconUrl": media.Asset("icon")})
}
