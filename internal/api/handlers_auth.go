// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package api

import (
	"net/http"
	"time"

	"github.com/Mauri-1658/WoWCharacters/internal/auth"
	"github.com/Mauri-1658/WoWCharacters/internal/logging"
	"github.com/Mauri-1658/WoWCharacters/internal/metrics"
)

// stateCookieName holds the OAuth state between the login redirect and
// the callback.
const stateCookieName = "nexus_oauth_state"

// stateCookieTTL bounds how long a pending login remains valid.
const stateCookieTTL = 10 * time.Minute

// AuthLogin starts the Battle.net authorization code flow: it stores a
// random state in a short-lived cookie and redirects to Battle.net.
func (h *Handler) AuthLogin(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateState()
	if err != nil {
		NewResponseWriter(w, r).InternalError("Failed to start login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth.BuildAuthorizationURL(state), http.StatusFound)
}

// AuthCallback completes the flow: it verifies the state, exchanges the
// code, resolves the account identity and establishes the session.
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		logging.Ctx(ctx).Warn().Str("error", errParam).Msg("Authorization denied")
		rw.Unauthorized("Authorization was denied")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		rw.BadRequest("Missing authorization code")
		return
	}

	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || state != stateCookie.Value {
		rw.Unauthorized("Invalid login state")
		return
	}
	clearCookie(w, stateCookieName)

	token, err := h.oauth.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Token exchange failed")
		rw.ExternalServiceError("battle.net", err)
		return
	}

	info, err := h.oauth.FetchUserInfo(ctx, token)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("User info lookup failed")
		rw.ExternalServiceError("battle.net", err)
		return
	}

	// An existing session is replaced to prevent fixation.
	oldSessionID := ""
	if c, err := r.Cookie(h.sessions.CookieName()); err == nil {
		oldSessionID = c.Value
	}

	session, err := h.sessions.CreateSession(ctx, w, oldSessionID, info.UserID(), info.BattleTag, token.AccessToken, token.ExpiresAt)
	if err != nil {
		metrics.SessionOperations.WithLabelValues("create", "error").Inc()
		rw.InternalError("Failed to create session")
		return
	}
	metrics.SessionOperations.WithLabelValues("create", "success").Inc()
	metrics.ActiveSessions.Inc()

	logging.Ctx(ctx).Info().
		Str("battletag", session.BattleTag).
		Msg("Login completed")

	http.Redirect(w, r, "/", http.StatusFound)
}

// AuthStatus reports whether the caller is authenticated. Unlike the
// protected routes it never responds 401.
func (h *Handler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	session := h.session(r)
	if session == nil {
		rw.Success(map[string]interface{}{"authenticated": false})
		return
	}

	rw.Success(map[string]interface{}{
		"authenticated": true,
		"user": map[string]string{
			"id":        session.UserID,
			"battletag": session.BattleTag,
		},
	})
}

// AuthLogout destroys the caller's session.
func (h *Handler) AuthLogout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	sessionID := ""
	if session := h.session(r); session != nil {
		sessionID = session.ID
	} else if c, err := r.Cookie(h.sessions.CookieName()); err == nil {
		sessionID = c.Value
	}

	if sessionID != "" {
		if err := h.sessions.DestroySession(r.Context(), w, sessionID); err != nil {
			metrics.SessionOperations.WithLabelValues("destroy", "error").Inc()
			rw.InternalError("Failed to end session")
			return
		}
		metrics.SessionOperations.WithLabelValues("destroy", "success").Inc()
		metrics.ActiveSessions.Dec()
	} else {
		h.sessions.ClearSessionCookie(w)
	}

	rw.Success(map[string]bool{"loggedOut": true})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
