// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package catalog flattens the account-wide profile summary into the
// character list the dashboard works with.
package catalog

import (
	"sort"
	"strings"

	"github.com/Mauri-1658/WoWCharacters/internal/bnet"
)

// placeholder fills display fields the summary sometimes omits for
// characters on transferred or decommissioned realms.
const placeholder = "—"

// Character is one row of the account catalog.
type Character struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Realm       string `json:"realm"`
	RealmSlug   string `json:"realmSlug"`
	Level       int    `json:"level"`
	Class       string `json:"class"`
	Race        string `json:"race"`
	Faction     string `json:"faction"`     // ALLIANCE, HORDE or NEUTRAL
	FactionName string `json:"factionName"` // display form
	Key         string `json:"key"`
}

// Key returns the stable identity of a character: the lowercased
// "realmSlug|name" pair. Favorites and friends are stored by this key.
func Key(realmSlug, name string) string {
	return strings.ToLower(realmSlug + "|" + name)
}

// Parse flattens every account's characters from the profile summary,
// applying display fallbacks for missing realm, race, class and faction.
func Parse(summary *bnet.ProfileSummary) []Character {
	if summary == nil {
		return nil
	}

	var chars []Character
	for _, account := range summary.WowAccounts {
		for _, c := range account.Characters {
			realm := c.Realm.Name
			if realm == "" {
				realm = c.Realm.Slug
			}
			if realm == "" {
				realm = placeholder
			}

			class := c.PlayableClass.Name
			if class == "" {
				class = placeholder
			}

			race := c.PlayableRace.Name
			if race == "" {
				race = placeholder
			}

			faction := c.Faction.Type
			if faction == "" {
				faction = c.Faction.Name
			}
			if faction == "" {
				faction = "NEUTRAL"
			}
			factionName := c.Faction.Name
			if factionName == "" {
				factionName = "Neutral"
			}

			chars = append(chars, Character{
				ID:          c.ID,
				Name:        c.Name,
				Realm:       realm,
				RealmSlug:   c.Realm.Slug,
				Level:       c.Level,
				Class:       class,
				Race:        race,
				Faction:     strings.ToUpper(faction),
				FactionName: factionName,
				Key:         Key(c.Realm.Slug, c.Name),
			})
		}
	}
	return chars
}

// Options are the distinct filter values present in a catalog.
type Options struct {
	Classes []string `json:"classes"`
	Realms  []string `json:"realms"`
}

// BuildOptions collects the distinct class and realm names, sorted.
// The placeholder value is excluded from both lists.
func BuildOptions(chars []Character) Options {
	classSet := make(map[string]struct{})
	realmSet := make(map[string]struct{})
	for _, c := range chars {
		if c.Class != placeholder {
			classSet[c.Class] = struct{}{}
		}
		if c.Realm != placeholder {
			realmSet[c.Realm] = struct{}{}
		}
	}

	opts := Options{
		Classes: make([]string, 0, len(classSet)),
		Realms:  make([]string, 0, len(realmSet)),
	}
	for class := range classSet {
		opts.Classes = append(opts.Classes, class)
	}
	for realm := range realmSet {
		opts.Realms = append(opts.Realms, realm)
	}
	sort.Strings(opts.Classes)
	sort.Strings(opts.Realms)
	return opts
}

// FactionSummary aggregates one faction's share of the catalog.
type FactionSummary struct {
	Faction    string      `json:"faction"`
	Name       string      `json:"name"`
	Count      int         `json:"count"`
	MaxLevel   int         `json:"maxLevel"`
	RaceCounts []RaceCount `json:"races"`
}

// RaceCount is one race's share within a faction.
type RaceCount struct {
	Race    string  `json:"race"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // share of the faction, one decimal
}

// Summarize aggregates the catalog by faction: character count, highest
// level and the race breakdown ordered by descending count.
func Summarize(chars []Character) []FactionSummary {
	type bucket struct {
		name     string
		count    int
		maxLevel int
		races    map[string]int
	}

	buckets := make(map[string]*bucket)
	var order []string
	for _, c := range chars {
		b, ok := buckets[c.Faction]
		if !ok {
			b = &bucket{name: c.FactionName, races: make(map[string]int)}
			buckets[c.Faction] = b
			order = append(order, c.Faction)
		}
		b.count++
		if c.Level > b.maxLevel {
			b.maxLevel = c.Level
		}
		b.races[c.Race]++
	}
	sort.Strings(order)

	summaries := make([]FactionSummary, 0, len(order))
	for _, faction := range order {
		b := buckets[faction]
		summaries = append(summaries, FactionSummary{
			Faction:    faction,
			Name:       b.name,
			Count:      b.count,
			MaxLevel:   b.maxLevel,
			RaceCounts: raceBreakdown(b.races, b.count),
		})
	}
	return summaries
}

// SummarizeFaction returns the summary for a single faction type, or
// false when no character belongs to it.
func SummarizeFaction(chars []Character, faction string) (FactionSummary, bool) {
	faction = strings.ToUpper(faction)
	for _, s := range Summarize(chars) {
		if s.Faction == faction {
			return s, true
		}
	}
	return FactionSummary{}, false
}

func raceBreakdown(races map[string]int, total int) []RaceCount {
	counts := make([]RaceCount, 0, len(races))
	for race, count := range races {
		pct := 0.0
		if total > 0 {
			pct = roundPercent(float64(count) / float64(total) * 100)
		}
		counts = append(counts, RaceCount{Race: race, Count: count, Percent: pct})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Race < counts[j].Race
	})
	return counts
}

// roundPercent rounds to one decimal place.
func roundPercent(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
