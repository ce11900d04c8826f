// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package prefs

import "testing"

func TestMemoryStore_FavoritesIdempotent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	p, err := store.AddFavorite("user1", "Silvermoon|Arthas")
	if err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if len(p.Favorites) != 1 || p.Favorites[0] != "silvermoon|arthas" {
		t.Fatalf("Expected normalized favorite, got %v", p.Favorites)
	}

	// Repeating the add changes nothing.
	p, err = store.AddFavorite("user1", "silvermoon|arthas")
	if err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if len(p.Favorites) != 1 {
		t.Fatalf("Expected 1 favorite after duplicate add, got %d", len(p.Favorites))
	}

	p, err = store.RemoveFavorite("user1", "SILVERMOON|ARTHAS")
	if err != nil {
		t.Fatalf("RemoveFavorite failed: %v", err)
	}
	if len(p.Favorites) != 0 {
		t.Fatalf("Expected no favorites, got %v", p.Favorites)
	}

	// Removing again is a no-op.
	if _, err := store.RemoveFavorite("user1", "silvermoon|arthas"); err != nil {
		t.Fatalf("RemoveFavorite of absent key failed: %v", err)
	}
}

func TestMemoryStore_FriendsDedupeByKey(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	p, err := store.AddFriend("user1", FriendRef{Realm: "Draenor", Name: "Thrall"})
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	if len(p.Friends) != 1 {
		t.Fatalf("Expected 1 friend, got %d", len(p.Friends))
	}

	// Same character with different casing is a duplicate.
	p, err = store.AddFriend("user1", FriendRef{Realm: "draenor", Name: "THRALL"})
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	if len(p.Friends) != 1 {
		t.Fatalf("Expected duplicate friend to be ignored, got %d", len(p.Friends))
	}

	p, err = store.RemoveFriend("user1", FriendRef{Realm: "DRAENOR", Name: "Thrall"})
	if err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}
	if len(p.Friends) != 0 {
		t.Fatalf("Expected no friends, got %v", p.Friends)
	}
}

func TestMemoryStore_GetEmpty(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	p, err := store.Get("nobody")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(p.Favorites) != 0 || len(p.Friends) != 0 {
		t.Errorf("Expected empty preferences, got %+v", p)
	}
}

func TestMemoryStore_IsolatesUsers(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	if _, err := store.AddFavorite("user1", "silvermoon|arthas"); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}

	p, err := store.Get("user2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(p.Favorites) != 0 {
		t.Errorf("Expected user2 to have no favorites, got %v", p.Favorites)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	p1, _ := store.AddFavorite("user1", "a|b")
	p1.Favorites[0] = "mutated"

	p2, _ := store.Get("user1")
	if p2.Favorites[0] != "a|b" {
		t.Errorf("Store state leaked through returned slice: %v", p2.Favorites)
	}
}

func TestPreferences_Helpers(t *testing.T) {
	t.Parallel()

	p := &Preferences{
		Favorites: []string{"silvermoon|arthas"},
		Friends:   []FriendRef{{Realm: "Draenor", Name: "Thrall"}},
	}

	if !p.IsFavorite("silvermoon|arthas") {
		t.Error("Expected IsFavorite true")
	}
	if p.IsFavorite("draenor|thrall") {
		t.Error("Expected IsFavorite false for friend key")
	}
	if !p.HasFriend(FriendRef{Realm: "draenor", Name: "thrall"}) {
		t.Error("Expected HasFriend to match case-insensitively")
	}
}
