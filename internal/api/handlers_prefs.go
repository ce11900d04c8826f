// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/Mauri-1658/WoWCharacters/internal/catalog"
	"github.com/Mauri-1658/WoWCharacters/internal/metrics"
	"github.com/Mauri-1658/WoWCharacters/internal/prefs"
)

// characterRef is the request body for favorite and friend mutations.
type characterRef struct {
	Realm string `json:"realm"`
	Name  string `json:"name"`
}

func decodeCharacterRef(r *http.Request) (characterRef, bool) {
	var ref characterRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil {
		return ref, false
	}
	return ref, ref.Realm != "" && ref.Name != ""
}

// Prefs returns the caller's stored preferences.
func (h *Handler) Prefs(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	p, err := h.prefs.Get(session.UserID)
	if err != nil {
		metrics.PrefOperations.WithLabelValues("get", "error").Inc()
		rw.InternalError("Failed to load preferences")
		return
	}
	metrics.PrefOperations.WithLabelValues("get", "success").Inc()
	rw.Success(p)
}

// AddFavorite marks one of the caller's own characters as a main.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	ref, ok := decodeCharacterRef(r)
	if !ok {
		rw.BadRequest("Realm and character name are required")
		return
	}
	key := catalog.Key(ref.Realm, ref.Name)

	owned, err := h.ownsCharacter(r, key)
	if err != nil {
		h.upstreamError(rw, err)
		return
	}
	if !owned {
		rw.Forbidden("Only your own characters can be marked as mains")
		return
	}

	p, err := h.prefs.AddFavorite(session.UserID, key)
	if err != nil {
		metrics.PrefOperations.WithLabelValues("add_favorite", "error").Inc()
		rw.InternalError("Failed to save preferences")
		return
	}
	metrics.PrefOperations.WithLabelValues("add_favorite", "success").Inc()
	rw.Success(p)
}

// RemoveFavorite unmarks a main. Removing an absent key is a no-op.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	key := catalog.Key(chi.URLParam(r, "realm"), chi.URLParam(r, "name"))

	p, err := h.prefs.RemoveFavorite(session.UserID, key)
	if err != nil {
		metrics.PrefOperations.WithLabelValues("remove_favorite", "error").Inc()
		rw.InternalError("Failed to save preferences")
		return
	}
	metrics.PrefOperations.WithLabelValues("remove_favorite", "success").Inc()
	rw.Success(p)
}

// AddFriend follows a character outside the caller's account.
func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	ref, ok := decodeCharacterRef(r)
	if !ok {
		rw.BadRequest("Realm and character name are required")
		return
	}
	friend := prefs.FriendRef{Realm: ref.Realm, Name: ref.Name}

	owned, err := h.ownsCharacter(r, friend.Key())
	if err != nil {
		h.upstreamError(rw, err)
		return
	}
	if owned {
		rw.BadRequest("Your own characters are already in the roster")
		return
	}

	p, err := h.prefs.AddFriend(session.UserID, friend)
	if err != nil {
		metrics.PrefOperations.WithLabelValues("add_friend", "error").Inc()
		rw.InternalError("Failed to save preferences")
		return
	}
	metrics.PrefOperations.WithLabelValues("add_friend", "success").Inc()
	rw.Success(p)
}

// RemoveFriend unfollows a character. Removing an absent friend is a no-op.
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	friend := prefs.FriendRef{
		Realm: chi.URLParam(r, "realm"),
		Name:  chi.URLParam(r, "name"),
	}

	p, err := h.prefs.RemoveFriend(session.UserID, friend)
	if err != nil {
		metrics.PrefOperations.WithLabelValues("remove_friend", "error").Inc()
		rw.InternalError("Failed to save preferences")
		return
	}
	metrics.PrefOperations.WithLabelValues("remove_friend", "success").Inc()
	rw.Success(p)
}

// ownsCharacter checks the caller's account summary for the catalog key.
func (h *Handler) ownsCharacter(r *http.Request, key string) (bool, error) {
	session := h.session(r)
	summary, err := h.api.ProfileSummary(r.Context(), session.AccessToken)
	if err != nil {
		return false, err
	}
	for _, c := range catalog.Parse(summary) {
		if c.Key == key {
			return true, nil
		}
	}
	return false, nil
}
