// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package prefs

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/Mauri-1658/WoWCharacters/internal/logging"
)

const prefsKeyPrefix = "prefs:"

// BadgerStore persists preferences in BadgerDB, one record per account
// under "prefs:{userID}".
type BadgerStore struct {
	db      *badger.DB
	ownedDB bool
}

// NewBadgerStore wraps an existing BadgerDB handle. The caller keeps
// ownership of the database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadgerStore opens (or creates) a BadgerDB at path and owns the
// handle: Close closes the database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}
	return &BadgerStore{db: db, ownedDB: true}, nil
}

func prefsKey(userID string) []byte {
	return []byte(prefsKeyPrefix + userID)
}

func (s *BadgerStore) Get(userID string) (*Preferences, error) {
	prefs := &Preferences{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(prefsKey(userID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			decodeRecord(userID, val, prefs)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

// decodeRecord unmarshals a stored record into prefs. An unreadable
// record resets to empty preferences instead of failing the account.
func decodeRecord(userID string, val []byte, prefs *Preferences) {
	if err := json.Unmarshal(val, prefs); err != nil {
		logging.Warn().
			Str("user_id", userID).
			Err(err).
			Msg("Discarding unreadable preference record")
		*prefs = Preferences{}
	}
}

func (s *BadgerStore) AddFavorite(userID, key string) (*Preferences, error) {
	return s.update(userID, func(p *Preferences) { p.addFavorite(normalizeKey(key)) })
}

func (s *BadgerStore) RemoveFavorite(userID, key string) (*Preferences, error) {
	return s.update(userID, func(p *Preferences) { p.removeFavorite(normalizeKey(key)) })
}

func (s *BadgerStore) AddFriend(userID string, ref FriendRef) (*Preferences, error) {
	return s.update(userID, func(p *Preferences) { p.addFriend(ref) })
}

func (s *BadgerStore) RemoveFriend(userID string, ref FriendRef) (*Preferences, error) {
	return s.update(userID, func(p *Preferences) { p.removeFriend(ref) })
}

// Close closes the database when this store owns it.
func (s *BadgerStore) Close() error {
	if s.ownedDB && s.db != nil {
		return s.db.Close()
	}
	return nil
}

// update applies fn inside a read-modify-write transaction.
func (s *BadgerStore) update(userID string, fn func(*Preferences)) (*Preferences, error) {
	prefs := &Preferences{}
	err := s.db.Update(func(txn *badger.Txn) error {
		key := prefsKey(userID)

		item, err := txn.Get(key)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			if err := item.Value(func(val []byte) error {
				decodeRecord(userID, val, prefs)
				return nil
			}); err != nil {
				return err
			}
		}

		fn(prefs)

		data, err := json.Marshal(prefs)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return prefs, nil
}
