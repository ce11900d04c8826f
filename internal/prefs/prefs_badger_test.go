// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package prefs

import (
	"testing"

	badger "github.com/dgraph-io/badger/v4"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := OpenBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadgerStore failed: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return store
}

func TestBadgerStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestBadgerStore(t)

	if _, err := store.AddFavorite("user1", "Silvermoon|Arthas"); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if _, err := store.AddFriend("user1", FriendRef{Realm: "Draenor", Name: "Thrall"}); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	p, err := store.Get("user1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(p.Favorites) != 1 || p.Favorites[0] != "silvermoon|arthas" {
		t.Errorf("Unexpected favorites: %v", p.Favorites)
	}
	if len(p.Friends) != 1 || p.Friends[0].Name != "Thrall" {
		t.Errorf("Unexpected friends: %+v", p.Friends)
	}
}

func TestBadgerStore_CorruptRecordResetsToEmpty(t *testing.T) {
	t.Parallel()

	store := newTestBadgerStore(t)

	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(prefsKey("user1"), []byte("not json"))
	})
	if err != nil {
		t.Fatalf("Seeding corrupt record failed: %v", err)
	}

	p, err := store.Get("user1")
	if err != nil {
		t.Fatalf("Get over corrupt record failed: %v", err)
	}
	if len(p.Favorites) != 0 || len(p.Friends) != 0 {
		t.Errorf("Expected empty preferences, got %+v", p)
	}

	// Mutations over the corrupt record start fresh instead of failing.
	p, err = store.AddFavorite("user1", "silvermoon|arthas")
	if err != nil {
		t.Fatalf("AddFavorite over corrupt record failed: %v", err)
	}
	if len(p.Favorites) != 1 {
		t.Errorf("Expected 1 favorite, got %v", p.Favorites)
	}
}
