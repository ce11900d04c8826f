// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package auth implements Battle.net OAuth login and the server-side
// session layer that gates every /api route.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when a session is not in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session exists but has expired.
	ErrSessionExpired = errors.New("session expired")
)

// Session is an authenticated Battle.net user session. The upstream
// access token lives server-side only; the browser holds an opaque ID.
type Session struct {
	// ID is the opaque session identifier stored in the cookie.
	ID string `json:"id"`

	// UserID is the Battle.net account identifier.
	UserID string `json:"user_id"`

	// BattleTag is the user's display handle (Name#1234).
	BattleTag string `json:"battle_tag"`

	// AccessToken is the Battle.net bearer token for upstream calls.
	AccessToken string `json:"access_token"`

	// TokenExpiresAt is when the access token stops working upstream.
	TokenExpiresAt time.Time `json:"token_expires_at"`

	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// IsExpired reports whether the session itself has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsTokenExpired reports whether the upstream access token has expired.
// A session with a dead token is useless for API calls and treated as
// unauthenticated.
func (s *Session) IsTokenExpired() bool {
	return time.Now().After(s.TokenExpiresAt)
}

// NewSession creates a session for an authenticated user.
func NewSession(userID, battleTag, accessToken string, tokenExpiresAt time.Time, duration time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		BattleTag:      battleTag,
		AccessToken:    accessToken,
		TokenExpiresAt: tokenExpiresAt,
		CreatedAt:      now,
		ExpiresAt:      now.Add(duration),
		LastAccessedAt: now,
	}
}

// SessionStore defines the interface for session storage backends.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if not found, ErrSessionExpired if the
	// session exists but is past its expiry.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session by ID. Deleting a missing session is not
	// an error.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes all sessions for a user and returns the count.
	DeleteByUserID(ctx context.Context, userID string) (int, error)

	// Touch updates the last accessed time and extends the expiry.
	Touch(ctx context.Context, id string, newExpiry time.Time) error

	// CleanupExpired removes all expired sessions and returns the count.
	CleanupExpired(ctx context.Context) (int, error)

	// Close releases store resources.
	Close() error
}

// MemorySessionStore is the in-memory SessionStore, suitable for
// development and tests. Production uses BadgerSessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

// Create stores a new session.
func (s *MemorySessionStore) Create(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *session
	s.sessions[session.ID] = &stored
	return nil
}

// Get retrieves a session by ID.
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	copied := *session
	return &copied, nil
}

// Delete removes a session by ID.
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// DeleteByUserID removes all sessions for a user.
func (s *MemorySessionStore) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
			count++
		}
	}
	return count, nil
}

// Touch updates the session's last accessed time and extends expiry.
func (s *MemorySessionStore) Touch(ctx context.Context, id string, newExpiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	session.ExpiresAt = newExpiry
	return nil
}

// CleanupExpired removes all expired sessions.
func (s *MemorySessionStore) CleanupExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, session := range s.sessions {
		if session.IsExpired() {
			delete(s.sessions, id)
			count++
		}
	}
	return count, nil
}

// Close implements SessionStore. No resources to release.
func (s *MemorySessionStore) Close() error {
	return nil
}

// StartCleanupRoutine periodically removes expired sessions until the
// returned channel is closed.
func (s *MemorySessionStore) StartCleanupRoutine(interval time.Duration) chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				//nolint:errcheck // Background cleanup - errors are non-critical
				s.CleanupExpired(context.Background())
			case <-done:
				return
			}
		}
	}()
	return done
}
