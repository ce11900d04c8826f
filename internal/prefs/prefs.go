// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package prefs persists per-account dashboard preferences: the
// favorite ("main") characters and the followed friends.
package prefs

import (
	"strings"
	"sync"

	"github.com/Mauri-1658/WoWCharacters/internal/catalog"
)

// FriendRef identifies a character outside the account by realm and name.
type FriendRef struct {
	Realm string `json:"realm"`
	Name  string `json:"name"`
}

// Key returns the friend's catalog identity.
func (f FriendRef) Key() string {
	return catalog.Key(f.Realm, f.Name)
}

// Preferences holds one account's stored selections. Favorites are
// catalog keys of owned characters; friends reference characters on
// any realm.
type Preferences struct {
	Favorites []string    `json:"favorites"`
	Friends   []FriendRef `json:"friends"`
}

// IsFavorite reports whether the catalog key is marked as a main.
func (p *Preferences) IsFavorite(key string) bool {
	for _, k := range p.Favorites {
		if k == key {
			return true
		}
	}
	return false
}

// HasFriend reports whether the friend list already contains the
// character, matching by catalog key.
func (p *Preferences) HasFriend(ref FriendRef) bool {
	key := ref.Key()
	for _, f := range p.Friends {
		if f.Key() == key {
			return true
		}
	}
	return false
}

// addFavorite appends the key if absent. Returns true when modified.
func (p *Preferences) addFavorite(key string) bool {
	if p.IsFavorite(key) {
		return false
	}
	p.Favorites = append(p.Favorites, key)
	return true
}

// removeFavorite removes the key if present. Returns true when modified.
func (p *Preferences) removeFavorite(key string) bool {
	for i, k := range p.Favorites {
		if k == key {
			p.Favorites = append(p.Favorites[:i], p.Favorites[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Preferences) addFriend(ref FriendRef) bool {
	if p.HasFriend(ref) {
		return false
	}
	p.Friends = append(p.Friends, ref)
	return true
}

func (p *Preferences) removeFriend(ref FriendRef) bool {
	key := ref.Key()
	for i, f := range p.Friends {
		if f.Key() == key {
			p.Friends = append(p.Friends[:i], p.Friends[i+1:]...)
			return true
		}
	}
	return false
}

// normalizeKey canonicalizes a favorite key the same way catalog keys
// are built, so lookups are case-insensitive.
func normalizeKey(key string) string {
	return strings.ToLower(key)
}

// Store persists preferences by account id. All mutations are
// idempotent: repeating an add or remove is not an error.
type Store interface {
	// Get returns the account's preferences, empty when none are stored.
	Get(userID string) (*Preferences, error)

	// AddFavorite marks an owned character as a main.
	AddFavorite(userID, key string) (*Preferences, error)

	// RemoveFavorite unmarks a main.
	RemoveFavorite(userID, key string) (*Preferences, error)

	// AddFriend follows a character outside the account.
	AddFriend(userID string, ref FriendRef) (*Preferences, error)

	// RemoveFriend unfollows a character.
	RemoveFriend(userID string, ref FriendRef) (*Preferences, error)

	// Close releases the backing storage.
	Close() error
}

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]*Preferences
}

// NewMemoryStore creates an empty in-memory preference store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: make(map[string]*Preferences)}
}

func (s *MemoryStore) Get(userID string) (*Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.prefs[userID]; ok {
		return copyPrefs(p), nil
	}
	return &Preferences{}, nil
}

func (s *MemoryStore) AddFavorite(userID, key string) (*Preferences, error) {
	return s.update(userID, func(p *Preferences) { p.addFavorite(normalizeKey(key)) })
}

func (s *MemoryStore) RemoveFavorite(userID, key string) (*Preferences, error) {
	return s.update(userID, func(p *Preferences) { p.removeFavorite(normalizeKey(key)) })
}

func (s *MemoryStore) AddFriend(userID string, ref FriendRef) (*Preferences, error) {
	return s.update(userID, func(p *Preferences) { p.addFriend(ref) })
}

func (s *MemoryStore) RemoveFriend(userID string, ref FriendRef) (*Preferences, error) {
	return s.update(userID, func(p *Preferences) { p.removeFriend(ref) })
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) update(userID string, fn func(*Preferences)) (*Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		p = &Preferences{}
		s.prefs[userID] = p
	}
	fn(p)
	return copyPrefs(p), nil
}

func copyPrefs(p *Preferences) *Preferences {
	out := &Preferences{
		Favorites: make([]string, len(p.Favorites)),
		Friends:   make([]FriendRef, len(p.Friends)),
	}
	copy(out.Favorites, p.Favorites)
	copy(out.Friends, p.Friends)
	return out
}
