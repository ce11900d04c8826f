// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package roster

import (
	"context"
	"testing"

	"github.com/Mauri-1658/WoWCharacters/internal/bnet"
	"github.com/Mauri-1658/WoWCharacters/internal/bnet/bnettest"
	"github.com/Mauri-1658/WoWCharacters/internal/filter"
	"github.com/Mauri-1658/WoWCharacters/internal/prefs"
)

func testSummary() *bnet.ProfileSummary {
	return &bnet.ProfileSummary{WowAccounts: []bnet.WowAccount{
		{Characters: []bnet.AccountCharacter{
			{
				Name:          "Arthas",
				Level:         80,
				Realm:         bnet.Realm{Name: "Silvermoon", Slug: "silvermoon"},
				PlayableClass: bnet.IDName{Name: "Death Knight"},
				PlayableRace:  bnet.IDName{Name: "Human"},
				Faction:       bnet.TypedName{Type: "ALLIANCE", Name: "Alliance"},
			},
			{
				Name:          "Jaina",
				Level:         70,
				Realm:         bnet.Realm{Name: "Silvermoon", Slug: "silvermoon"},
				PlayableClass: bnet.IDName{Name: "Mage"},
				PlayableRace:  bnet.IDName{Name: "Human"},
				Faction:       bnet.TypedName{Type: "ALLIANCE", Name: "Alliance"},
			},
		}},
	}}
}

func TestBuild_PartitionsRoster(t *testing.T) {
	t.Parallel()

	fake := &bnettest.Fake{
		ProfileSummaryFunc: func(ctx context.Context, token string) (*bnet.ProfileSummary, error) {
			return testSummary(), nil
		},
		CharacterProfileFunc: func(ctx context.Context, token, realm, name string) (*bnet.CharacterProfile, error) {
			if name != "Thrall" {
				return nil, bnet.ErrNotFound
			}
			return &bnet.CharacterProfile{
				Name:           "Thrall",
				Level:          80,
				Realm:          bnet.Realm{Name: "Draenor", Slug: "draenor"},
				CharacterClass: bnet.IDName{Name: "Shaman"},
				Race:           bnet.IDName{Name: "Orc"},
				Faction:        bnet.TypedName{Type: "HORDE", Name: "Horde"},
			}, nil
		},
	}

	prefStore := prefs.NewMemoryStore()
	if _, err := prefStore.AddFavorite("user1", "silvermoon|arthas"); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if _, err := prefStore.AddFriend("user1", prefs.FriendRef{Realm: "Draenor", Name: "Thrall"}); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	// This friend does not resolve and is silently dropped.
	if _, err := prefStore.AddFriend("user1", prefs.FriendRef{Realm: "nowhere", Name: "Ghost"}); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	view, err := NewService(fake, prefStore, 2).Build(context.Background(), "token", "user1", filter.Criteria{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(view.Favorites) != 1 || view.Favorites[0].Name != "Arthas" {
		t.Errorf("Unexpected favorites: %+v", view.Favorites)
	}
	if !view.Favorites[0].Favorite || !view.Favorites[0].Owned {
		t.Errorf("Expected favorite+owned flags: %+v", view.Favorites[0])
	}

	if len(view.Friends) != 1 || view.Friends[0].Name != "Thrall" {
		t.Errorf("Unexpected friends: %+v", view.Friends)
	}
	if view.Friends[0].Owned || !view.Friends[0].Friend {
		t.Errorf("Expected friend flags: %+v", view.Friends[0])
	}

	if len(view.Others) != 1 || view.Others[0].Name != "Jaina" {
		t.Errorf("Unexpected others: %+v", view.Others)
	}

	if view.Total != 3 {
		t.Errorf("Expected total 3, got %d", view.Total)
	}
	if view.Hint != nil {
		t.Errorf("Expected no global search hint, got %+v", view.Hint)
	}

	if len(view.Options.Classes) != 2 {
		t.Errorf("Unexpected filter options: %+v", view.Options)
	}
}

func TestBuild_EmptySearchYieldsHint(t *testing.T) {
	t.Parallel()

	fake := &bnettest.Fake{
		ProfileSummaryFunc: func(ctx context.Context, token string) (*bnet.ProfileSummary, error) {
			return testSummary(), nil
		},
	}

	view, err := NewService(fake, prefs.NewMemoryStore(), 2).Build(
		context.Background(), "token", "user1", filter.Criteria{Search: "Sylvanas-Draenor"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if view.Total != 0 {
		t.Errorf("Expected empty roster, got %d", view.Total)
	}
	if view.Hint == nil || view.Hint.Mode != "name-realm" {
		t.Fatalf("Expected name-realm hint, got %+v", view.Hint)
	}
	if view.Hint.Name != "Sylvanas" || view.Hint.Realm != "Draenor" {
		t.Errorf("Unexpected hint payload: %+v", view.Hint)
	}
}

func TestBuild_FilterOnlyNarrowsOthers(t *testing.T) {
	t.Parallel()

	fake := &bnettest.Fake{
		ProfileSummaryFunc: func(ctx context.Context, token string) (*bnet.ProfileSummary, error) {
			return testSummary(), nil
		},
		CharacterProfileFunc: func(ctx context.Context, token, realm, name string) (*bnet.CharacterProfile, error) {
			return &bnet.CharacterProfile{
				Name:           "Thrall",
				Level:          80,
				Realm:          bnet.Realm{Name: "Draenor", Slug: "draenor"},
				CharacterClass: bnet.IDName{Name: "Shaman"},
				Faction:        bnet.TypedName{Type: "HORDE", Name: "Horde"},
			}, nil
		},
	}

	prefStore := prefs.NewMemoryStore()
	if _, err := prefStore.AddFavorite("user1", "silvermoon|arthas"); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if _, err := prefStore.AddFriend("user1", prefs.FriendRef{Realm: "Draenor", Name: "Thrall"}); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	// The class filter matches neither the favorite (Death Knight) nor
	// the friend (Shaman); both strips still show in full.
	view, err := NewService(fake, prefStore, 2).Build(
		context.Background(), "token", "user1", filter.Criteria{Class: "Mage"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(view.Favorites) != 1 || view.Favorites[0].Name != "Arthas" {
		t.Errorf("Favorites must ignore the filter, got %+v", view.Favorites)
	}
	if len(view.Friends) != 1 || view.Friends[0].Name != "Thrall" {
		t.Errorf("Friends must ignore the filter, got %+v", view.Friends)
	}
	if len(view.Others) != 1 || view.Others[0].Name != "Jaina" {
		t.Errorf("Expected only the matching Mage in others, got %+v", view.Others)
	}
}

func TestBuild_FavoriteExcludedFromFilteredOthers(t *testing.T) {
	t.Parallel()

	fake := &bnettest.Fake{
		ProfileSummaryFunc: func(ctx context.Context, token string) (*bnet.ProfileSummary, error) {
			return testSummary(), nil
		},
	}

	prefStore := prefs.NewMemoryStore()
	if _, err := prefStore.AddFavorite("user1", "silvermoon|arthas"); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}

	view, err := NewService(fake, prefStore, 2).Build(
		context.Background(), "token", "user1", filter.Criteria{Class: "Death Knight"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Arthas matches the filter but already lives in the favorites strip.
	if len(view.Favorites) != 1 || view.Favorites[0].Name != "Arthas" {
		t.Errorf("Unexpected favorites: %+v", view.Favorites)
	}
	if len(view.Others) != 0 {
		t.Errorf("Favorite must not repeat in others, got %+v", view.Others)
	}
}

func TestBuild_HintCountsOwnedMatchesOnly(t *testing.T) {
	t.Parallel()

	fake := &bnettest.Fake{
		ProfileSummaryFunc: func(ctx context.Context, token string) (*bnet.ProfileSummary, error) {
			return testSummary(), nil
		},
		CharacterProfileFunc: func(ctx context.Context, token, realm, name string) (*bnet.CharacterProfile, error) {
			return &bnet.CharacterProfile{
				Name:           "Thrall",
				Level:          80,
				Realm:          bnet.Realm{Name: "Draenor", Slug: "draenor"},
				CharacterClass: bnet.IDName{Name: "Shaman"},
				Faction:        bnet.TypedName{Type: "HORDE", Name: "Horde"},
			}, nil
		},
	}

	prefStore := prefs.NewMemoryStore()
	if _, err := prefStore.AddFriend("user1", prefs.FriendRef{Realm: "Draenor", Name: "Thrall"}); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	// "Thrall" matches the friend but no owned character; the friend
	// strip must not suppress the cross-realm prompt.
	view, err := NewService(fake, prefStore, 2).Build(
		context.Background(), "token", "user1", filter.Criteria{Search: "Thrall"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if view.Hint == nil || view.Hint.Mode != "name" || view.Hint.Name != "Thrall" {
		t.Errorf("Expected name hint despite the visible friend, got %+v", view.Hint)
	}
}

func TestBuildCard(t *testing.T) {
	t.Parallel()

	fake := &bnettest.Fake{
		CharacterProfileFunc: func(ctx context.Context, token, realm, name string) (*bnet.CharacterProfile, error) {
			return &bnet.CharacterProfile{
				Name:             "Arthas",
				Level:            80,
				Realm:            bnet.Realm{Name: "Silvermoon", Slug: "silvermoon"},
				CharacterClass:   bnet.IDName{Name: "Death Knight"},
				ActiveSpec:       bnet.IDName{Name: "Frost"},
				Race:             bnet.IDName{Name: "Human"},
				Gender:           bnet.TypedName{Type: "MALE"},
				AverageItemLevel: 640,
			}, nil
		},
		CharacterMediaFunc: func(ctx context.Context, token, realm, name string) (*bnet.Media, error) {
			return &bnet.Media{Assets: []bnet.MediaAsset{
				{Key: "avatar", Value: "https://example.test/avatar.jpg"},
				{Key: "inset", Value: "https://example.test/inset.jpg"},
			}}, nil
		},
	}

	card, err := NewService(fake, prefs.NewMemoryStore(), 2).BuildCard(context.Background(), "token", "silvermoon", "arthas")
	if err != nil {
		t.Fatalf("BuildCard failed: %v", err)
	}

	if card.AvatarURL != "https://example.test/inset.jpg" {
		t.Errorf("Expected inset preferred over avatar, got %q", card.AvatarURL)
	}
	// Equipped level is zero, so the average fills in.
	if card.ItemLevel != 640 {
		t.Errorf("Expected item level 640, got %d", card.ItemLevel)
	}
	if card.SpecBadge != "DK - Frost" {
		t.Errorf("Unexpected spec badge: %q", card.SpecBadge)
	}
}

func TestBuildCard_MediaFallback(t *testing.T) {
	t.Parallel()

	fake := &bnettest.Fake{
		CharacterProfileFunc: func(ctx context.Context, token, realm, name string) (*bnet.CharacterProfile, error) {
			return &bnet.CharacterProfile{
				Name:   "Arthas",
				Realm:  bnet.Realm{Name: "Silvermoon", Slug: "silvermoon"},
				Race:   bnet.IDName{Name: "Human"},
				Gender: bnet.TypedName{Type: "MALE"},
			}, nil
		},
	}

	card, err := NewService(fake, prefs.NewMemoryStore(), 2).BuildCard(context.Background(), "token", "silvermoon", "arthas")
	if err != nil {
		t.Fatalf("BuildCard failed: %v", err)
	}
	if card.AvatarURL != "https://wow.zamimg.com/images/wow/icons/large/race_human_male.jpg" {
		t.Errorf("Expected race icon fallback, got %q", card.AvatarURL)
	}
}
