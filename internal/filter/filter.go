// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package filter applies the dashboard's search, filter and sort
// controls to a character catalog.
package filter

import (
	"sort"
	"strings"

	"github.com/Mauri-1658/WoWCharacters/internal/catalog"
)

// All is the filter value that disables a criterion.
const All = "all"

// Criteria are the active dashboard controls. Zero values ("" and
// "all") leave the corresponding criterion inactive.
type Criteria struct {
	Search  string `json:"search"`
	Faction string `json:"faction"`
	Class   string `json:"class"`
	Realm   string `json:"realm"`
	Sort    string `json:"sort"`
}

// Apply filters the catalog conjunctively and sorts the result. The
// input slice is not modified.
func Apply(chars []catalog.Character, c Criteria) []catalog.Character {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]catalog.Character, 0, len(chars))
	for _, ch := range chars {
		if search != "" &&
			!strings.Contains(strings.ToLower(ch.Name), search) &&
			!strings.Contains(strings.ToLower(ch.Realm), search) {
			continue
		}
		if active(c.Faction) && !strings.EqualFold(ch.Faction, c.Faction) {
			continue
		}
		if active(c.Class) && ch.Class != c.Class {
			continue
		}
		if active(c.Realm) && ch.Realm != c.Realm {
			continue
		}
		out = append(out, ch)
	}

	Sort(out, c.Sort)
	return out
}

func active(v string) bool {
	return v != "" && v != All
}

// Sort orders characters in place. Unknown modes keep the catalog
// order (the sort is stable).
func Sort(chars []catalog.Character, mode string) {
	var less func(a, b catalog.Character) bool
	switch mode {
	case "level-desc":
		less = func(a, b catalog.Character) bool { return a.Level > b.Level }
	case "level-asc":
		less = func(a, b catalog.Character) bool { return a.Level < b.Level }
	case "name-asc":
		less = func(a, b catalog.Character) bool { return a.Name < b.Name }
	case "name-desc":
		less = func(a, b catalog.Character) bool { return a.Name > b.Name }
	default:
		return
	}
	sort.SliceStable(chars, func(i, j int) bool { return less(chars[i], chars[j]) })
}

// GlobalSearchHint describes the cross-realm lookup the dashboard
// should offer when a search matches nothing in the account.
type GlobalSearchHint struct {
	// Mode is "name-realm" when the query looks like Name-Realm,
	// "name" for a plain name lookup, or "" when no hint applies.
	Mode  string `json:"mode,omitempty"`
	Name  string `json:"name,omitempty"`
	Realm string `json:"realm,omitempty"`
}

// Hint decides whether an empty filter result should prompt a global
// character search. A hyphenated query with both halves at least two
// characters long suggests a Name-Realm lookup; otherwise a plain
// query of at least three characters suggests a name-only lookup.
func Hint(search string, matched int) GlobalSearchHint {
	search = strings.TrimSpace(search)
	if matched > 0 || search == "" {
		return GlobalSearchHint{}
	}

	parts := strings.Split(search, "-")
	if len(parts) >= 2 && len(parts[0]) >= 2 && len(parts[1]) >= 2 {
		return GlobalSearchHint{Mode: "name-realm", Name: parts[0], Realm: parts[1]}
	}
	if len(search) >= 3 && !strings.Contains(search, "-") {
		return GlobalSearchHint{Mode: "name", Name: search}
	}
	return GlobalSearchHint{}
}
