// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Mauri-1658/WoWCharacters/internal/bnet"
	"github.com/Mauri-1658/WoWCharacters/internal/catalog"
	"github.com/Mauri-1658/WoWCharacters/internal/detail"
	"github.com/Mauri-1658/WoWCharacters/internal/logging"
	"github.com/Mauri-1658/WoWCharacters/internal/prefs"
	"github.com/Mauri-1658/WoWCharacters/internal/talents"
)

// CharacterDetail returns the full profile view for one character,
// decorated with the viewer's ownership and preference flags.
func (h *Handler) CharacterDetail(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	realm := chi.URLParam(r, "realm")
	name := chi.URLParam(r, "name")
	if realm == "" || name == "" {
		rw.BadRequest("Realm and character name are required")
		return
	}

	var (
		d       *detail.CharacterDetail
		summary *bnet.ProfileSummary
	)

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		d, err = h.detail.Build(gctx, session.AccessToken, realm, name)
		return err
	})
	g.Go(func() error {
		s, err := h.api.ProfileSummary(gctx, session.AccessToken)
		if err != nil {
			// Ownership flags degrade; the detail itself still renders.
			logging.Ctx(gctx).Debug().Err(err).Msg("Profile summary unavailable for ownership flags")
			return nil
		}
		summary = s
		return nil
	})
	if err := g.Wait(); err != nil {
		h.upstreamError(rw, err)
		return
	}

	if summary != nil {
		for _, c := range catalog.Parse(summary) {
			if c.Key == d.Key {
				d.Owned = true
				break
			}
		}
	}

	if p, err := h.prefs.Get(session.UserID); err == nil {
		d.Favorite = d.Owned && p.IsFavorite(d.Key)
		d.Friend = !d.Owned && p.HasFriend(prefs.FriendRef{Realm: d.RealmSlug, Name: d.Name})
	}

	rw.Success(d)
}

// CharacterTalents returns the laid-out talent trees for a character.
func (h *Handler) CharacterTalents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	session := h.session(r)

	realm := chi.URLParam(r, "realm")
	name := chi.URLParam(r, "name")
	if realm == "" || name == "" {
		rw.BadRequest("Realm and character name are required")
		return
	}

	view, err := h.talents.Build(r.Context(), session.AccessToken, realm, name)
	if err != nil {
		var treeErr *talents.TreeUnavailableError
		switch {
		case errors.Is(err, talents.ErrNoLoadout):
			rw.NotFound("Character has no talent loadout")
		case errors.As(err, &treeErr):
			rw.NotFound(treeErr.Error())
		default:
			h.upstreamError(rw, err)
		}
		return
	}
	rw.Success(view)
}
