// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	t.Parallel()

	tokenExpiry := time.Now().Add(time.Hour)
	s := NewSession("123", "Arthas#1234", "access-token", tokenExpiry, 24*time.Hour)

	if s.ID == "" {
		t.Error("Expected a generated session ID")
	}
	if s.UserID != "123" || s.BattleTag != "Arthas#1234" {
		t.Errorf("Unexpected identity: %+v", s)
	}
	if s.IsExpired() {
		t.Error("Fresh session should not be expired")
	}
	if s.IsTokenExpired() {
		t.Error("Fresh token should not be expired")
	}
}

func TestSession_TokenExpiryIndependent(t *testing.T) {
	t.Parallel()

	// The session outlives the Battle.net token.
	s := NewSession("123", "Arthas#1234", "access-token", time.Now().Add(-time.Minute), 24*time.Hour)
	if s.IsExpired() {
		t.Error("Session itself should still be valid")
	}
	if !s.IsTokenExpired() {
		t.Error("Token should read as expired")
	}
}

func TestMemorySessionStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemorySessionStore()

	s := NewSession("123", "Arthas#1234", "tok", time.Now().Add(time.Hour), time.Hour)
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.BattleTag != "Arthas#1234" {
		t.Errorf("Unexpected session: %+v", got)
	}

	newExpiry := time.Now().Add(2 * time.Hour)
	if err := store.Touch(ctx, s.ID, newExpiry); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	got, _ = store.Get(ctx, s.ID)
	if !got.ExpiresAt.Equal(newExpiry) {
		t.Errorf("Expected touched expiry %v, got %v", newExpiry, got.ExpiresAt)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestMemorySessionStore_Expired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemorySessionStore()

	s := NewSession("123", "Arthas#1234", "tok", time.Now().Add(time.Hour), -time.Minute)
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Expected ErrSessionExpired, got %v", err)
	}

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 cleaned session, got %d", n)
	}
}

func TestMemorySessionStore_DeleteByUserID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemorySessionStore()

	for i := 0; i < 3; i++ {
		s := NewSession("123", "Arthas#1234", "tok", time.Now().Add(time.Hour), time.Hour)
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	other := NewSession("456", "Jaina#5678", "tok", time.Now().Add(time.Hour), time.Hour)
	if err := store.Create(ctx, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.DeleteByUserID(ctx, "123")
	if err != nil {
		t.Fatalf("DeleteByUserID failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 deleted sessions, got %d", n)
	}

	if _, err := store.Get(ctx, other.ID); err != nil {
		t.Errorf("Other user's session should survive: %v", err)
	}
}
