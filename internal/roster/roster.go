// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package roster assembles the dashboard view: the owned catalog
// partitioned into mains, friends and the rest, plus per-character
// card enrichment.
package roster

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Mauri-1658/WoWCharacters/internal/bnet"
	"github.com/Mauri-1658/WoWCharacters/internal/catalog"
	"github.com/Mauri-1658/WoWCharacters/internal/filter"
	"github.com/Mauri-1658/WoWCharacters/internal/lexicon"
	"github.com/Mauri-1658/WoWCharacters/internal/logging"
	"github.com/Mauri-1658/WoWCharacters/internal/prefs"
)

// Service builds roster views against the Blizzard profile API.
type Service struct {
	api           bnet.API
	prefs         prefs.Store
	friendWorkers int
}

// NewService creates a roster service. friendWorkers bounds the
// concurrency of friend profile resolution.
func NewService(api bnet.API, prefStore prefs.Store, friendWorkers int) *Service {
	if friendWorkers < 1 {
		friendWorkers = 4
	}
	return &Service{api: api, prefs: prefStore, friendWorkers: friendWorkers}
}

// Member is a roster row: a catalog character plus its partition flags.
type Member struct {
	catalog.Character
	ClassColor string `json:"classColor"`
	Favorite   bool   `json:"favorite"`
	Friend     bool   `json:"friend"`
	Owned      bool   `json:"owned"`
}

// View is the partitioned dashboard roster.
type View struct {
	Favorites []Member                 `json:"favorites"`
	Friends   []Member                 `json:"friends"`
	Others    []Member                 `json:"others"`
	Total     int                      `json:"total"`
	Options   catalog.Options          `json:"options"`
	Hint      *filter.GlobalSearchHint `json:"hint,omitempty"`
}

// Build fetches the account summary and partitions it. Only the Others
// strip honors the filter criteria: mains and friends always show in
// full. Friends live outside the account, so each is resolved with its
// own profile call; unreachable friends are dropped.
func (s *Service) Build(ctx context.Context, token, userID string, criteria filter.Criteria) (*View, error) {
	summary, err := s.api.ProfileSummary(ctx, token)
	if err != nil {
		return nil, err
	}

	chars := catalog.Parse(summary)
	options := catalog.BuildOptions(chars)

	p, err := s.prefs.Get(userID)
	if err != nil {
		return nil, err
	}

	friends := s.resolveFriends(ctx, token, p.Friends, chars)

	filtered := filter.Apply(chars, criteria)

	view := &View{
		Favorites: []Member{},
		Friends:   []Member{},
		Others:    []Member{},
		Options:   options,
	}
	if hint := filter.Hint(criteria.Search, len(filtered)); hint.Mode != "" {
		view.Hint = &hint
	}

	for _, c := range chars {
		if p.IsFavorite(c.Key) {
			view.Favorites = append(view.Favorites, member(c, true, p))
		}
	}
	for _, c := range filtered {
		m := member(c, true, p)
		if m.Favorite {
			continue
		}
		view.Others = append(view.Others, m)
	}
	for _, c := range friends {
		view.Friends = append(view.Friends, member(c, false, p))
	}
	view.Total = len(view.Favorites) + len(view.Friends) + len(view.Others)

	return view, nil
}

func member(c catalog.Character, owned bool, p *prefs.Preferences) Member {
	return Member{
		Character:  c,
		ClassColor: lexicon.ClassColor(c.Class),
		Favorite:   owned && p.IsFavorite(c.Key),
		Friend:     !owned,
		Owned:      owned,
	}
}

// resolveFriends fetches each friend's profile concurrently. Friends
// that are already owned characters are skipped, and lookups that fail
// (renamed, transferred, private) are dropped from the view.
func (s *Service) resolveFriends(ctx context.Context, token string, refs []prefs.FriendRef, owned []catalog.Character) []catalog.Character {
	if len(refs) == 0 {
		return nil
	}

	ownedKeys := make(map[string]struct{}, len(owned))
	for _, c := range owned {
		ownedKeys[c.Key] = struct{}{}
	}

	resolved := make([]catalog.Character, len(refs))
	found := make([]bool, len(refs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.friendWorkers)
	for i, ref := range refs {
		if _, ok := ownedKeys[ref.Key()]; ok {
			continue
		}
		i, ref := i, ref
		g.Go(func() error {
			profile, err := s.api.CharacterProfile(gctx, token, ref.Realm, ref.Name)
			if err != nil {
				logging.Debug().
					Str("realm", ref.Realm).
					Str("name", ref.Name).
					Err(err).
					Msg("Dropping unresolvable friend")
				return nil
			}
			mu.Lock()
			resolved[i] = profileCharacter(profile)
			found[i] = true
			mu.Unlock()
			return nil
		})
	}
	// Worker errors are swallowed above; Wait only orders shutdown.
	_ = g.Wait()

	out := make([]catalog.Character, 0, len(refs))
	for i := range refs {
		if found[i] {
			out = append(out, resolved[i])
		}
	}
	return out
}

// profileCharacter converts a full character profile into a catalog row.
func profileCharacter(p *bnet.CharacterProfile) catalog.Character {
	realm := p.Realm.Name
	if realm == "" {
		realm = p.Realm.Slug
	}

	faction := p.Faction.Type
	if faction == "" {
		faction = "NEUTRAL"
	}
	factionName := p.Faction.Name
	if factionName == "" {
		factionName = "Neutral"
	}

	return catalog.Character{
		ID:          p.ID,
		Name:        p.Name,
		Realm:       realm,
		RealmSlug:   p.Realm.Slug,
		Level:       p.Level,
		Class:       p.CharacterClass.Name,
		Race:        p.Race.Name,
		Faction:     faction,
		FactionName: factionName,
		Key:         catalog.Key(p.Realm.Slug, p.Name),
	}
}

// Card is the enriched tile for one character.
type Card struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Realm      string `json:"realm"`
	Level      int    `json:"level"`
	Class      string `json:"class"`
	ClassColor string `json:"classColor"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	ItemLevel  int    `json:"itemLevel,omitempty"`
	SpecBadge  string `json:"specBadge,omitempty"`
}

// BuildCard enriches one roster tile with its avatar, equipped item
// level and spec badge. Media and profile are fetched in parallel; a
// missing media document degrades to the race icon fallback.
func (s *Service) BuildCard(ctx context.Context, token, realm, name string) (*Card, error) {
	var (
		profile *bnet.CharacterProfile
		media   *bnet.Media
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.api.CharacterProfile(gctx, token, realm, name)
		return err
	})
	g.Go(func() error {
		m, err := s.api.CharacterMedia(gctx, token, realm, name)
		if err != nil {
			logging.Debug().
				Str("realm", realm).
				Str("name", name).
				Err(err).
				Msg("Character media unavailable")
			return nil
		}
		media = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	card := &Card{
		Key:        catalog.Key(profile.Realm.Slug, profile.Name),
		Name:       profile.Name,
		Realm:      profile.Realm.Name,
		Level:      profile.Level,
		Class:      profile.CharacterClass.Name,
		ClassColor: lexicon.ClassColor(profile.CharacterClass.Name),
	}

	card.AvatarURL = media.Asset("inset", "avatar")
	if card.AvatarURL == "" {
		card.AvatarURL = lexicon.RaceIconURL(profile.Race.Name, profile.Gender.Type)
	}

	card.ItemLevel = profile.EquippedItemLevel
	if card.ItemLevel == 0 {
		card.ItemLevel = profile.AverageItemLevel
	}

	if profile.ActiveSpec.Name != "" {
		card.SpecBadge = lexicon.ClassShort(profile.CharacterClass.Name) + " - " + profile.ActiveSpec.Name
	}

	return card, nil
}
