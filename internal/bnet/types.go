// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package bnet

import "sort"

// TypedName is the common {type, name} pair Blizzard uses for enums
// (faction, gender, difficulty, quality).
type TypedName struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// IDName is the common {id, name} reference.
type IDName struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// IDRef is a bare {id} reference.
type IDRef struct {
	ID int `json:"id"`
}

// Realm identifies a realm by name and slug.
type Realm struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProfileSummary is the account-wide character summary.
type ProfileSummary struct {
	WowAccounts []WowAccount `json:"wow_accounts"`
}

// WowAccount groups the characters of a single WoW account.
type WowAccount struct {
	Characters []AccountCharacter `json:"characters"`
}

// AccountCharacter is one character entry in the profile summary.
type AccountCharacter struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Level         int       `json:"level"`
	Realm         Realm     `json:"realm"`
	PlayableClass IDName    `json:"playable_class"`
	PlayableRace  IDName    `json:"playable_race"`
	Faction       TypedName `json:"faction"`
}

// ActiveTitle is the character's selected title template.
type ActiveTitle struct {
	DisplayString string `json:"display_string"`
}

// CharacterProfile is the per-character profile document.
type CharacterProfile struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	Level             int          `json:"level"`
	Realm             Realm        `json:"realm"`
	Race              IDName       `json:"race"`
	CharacterClass    IDName       `json:"character_class"`
	ActiveSpec        IDName       `json:"active_spec"`
	Faction           TypedName    `json:"faction"`
	Gender            TypedName    `json:"gender"`
	ActiveTitle       *ActiveTitle `json:"active_title,omitempty"`
	EquippedItemLevel int          `json:"equipped_item_level"`
	AverageItemLevel  int          `json:"average_item_level"`
	AchievementPoints int          `json:"achievement_points"`
}

// MediaAsset is a single media asset (avatar, inset, icon, ...).
type MediaAsset struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Media is the media document for characters, items and game data.
type Media struct {
	Assets []MediaAsset `json:"assets"`
}

// Asset returns the first asset whose key matches any of the given keys
// in preference order, falling back to the first asset.
func (m *Media) Asset(keys ...string) string {
	if m == nil || len(m.Assets) == 0 {
		return ""
	}
	for _, key := range keys {
		for _, a := range m.Assets {
			if a.Key == key {
				return a.Value
			}
		}
	}
	return m.Assets[0].Value
}

// ItemLevel is the {value} wrapper around an item's level.
type ItemLevel struct {
	Value int `json:"value"`
}

// Enchantment is a single enchantment line on an equipped item.
type Enchantment struct {
	DisplayString   string     `json:"display_string"`
	EnchantmentSlot *TypedName `json:"enchantment_slot,omitempty"`
	SourceItem      *IDName    `json:"source_item,omitempty"`
}

// Socket is a gem socket on an equipped item.
type Socket struct {
	SocketType *TypedName `json:"socket_type,omitempty"`
	Item       *IDName    `json:"item,omitempty"`
}

// EquippedItem is one slot in the equipment summary.
type EquippedItem struct {
	Name         string        `json:"name"`
	Quality      TypedName     `json:"quality"`
	Level        ItemLevel     `json:"level"`
	Slot         TypedName     `json:"slot"`
	Media        IDRef         `json:"media"`
	Item         IDRef         `json:"item"`
	Enchantments []Enchantment `json:"enchantments,omitempty"`
	Sockets      []Socket      `json:"sockets,omitempty"`
}

// Equipment is the character equipment summary.
type Equipment struct {
	EquippedItems []EquippedItem `json:"equipped_items"`
}

// AttributeStat carries a primary attribute with base and effective values.
type AttributeStat struct {
	Base      float64 `json:"base"`
	Effective float64 `json:"effective"`
}

// RatingStat carries a secondary rating with its derived percent value.
type RatingStat struct {
	Rating      float64 `json:"rating"`
	RatingBonus float64 `json:"rating_bonus"`
	Value       float64 `json:"value"`
}

// Statistics is the character statistics document.
type Statistics struct {
	Health           int            `json:"health"`
	Strength         *AttributeStat `json:"strength,omitempty"`
	Agility          *AttributeStat `json:"agility,omitempty"`
	Intellect        *AttributeStat `json:"intellect,omitempty"`
	Stamina          *AttributeStat `json:"stamina,omitempty"`
	MeleeCrit        *RatingStat    `json:"melee_crit,omitempty"`
	MeleeHaste       *RatingStat    `json:"melee_haste,omitempty"`
	Mastery          *RatingStat    `json:"mastery,omitempty"`
	VersatilityValue float64        `json:"versatility_value"`
}

// RaidProgress is per-difficulty encounter completion.
type RaidProgress struct {
	CompletedCount int `json:"completed_count"`
	TotalCount     int `json:"total_count"`
}

// RaidMode is one difficulty mode of a raid instance.
type RaidMode struct {
	Difficulty TypedName     `json:"difficulty"`
	Progress   *RaidProgress `json:"progress,omitempty"`
}

// RaidInstance is one raid with its difficulty modes.
type RaidInstance struct {
	Instance IDName     `json:"instance"`
	Modes    []RaidMode `json:"modes,omitempty"`
}

// RaidExpansion groups raid instances by expansion.
type RaidExpansion struct {
	Expansion IDName         `json:"expansion"`
	Instances []RaidInstance `json:"instances"`
}

// RaidEncounters is the raid encounter summary. A character with no raid
// history is represented by empty Expansions.
type RaidEncounters struct {
	Expansions []RaidExpansion `json:"expansions"`
}

// MythicRating is the current Mythic+ season rating.
type MythicRating struct {
	Rating float64 `json:"rating"`
}

// MythicKeystoneProfile is the Mythic+ profile. A character with no M+
// history is represented by a zero rating.
type MythicKeystoneProfile struct {
	CurrentMythicRating *MythicRating `json:"current_mythic_rating,omitempty"`
}

// SelectedTalent is one chosen talent in a loadout.
type SelectedTalent struct {
	Rank    int `json:"rank"`
	Tooltip struct {
		Talent IDName `json:"talent"`
	} `json:"tooltip"`
}

// TalentLoadout is a saved talent configuration.
type TalentLoadout struct {
	IsActive          bool             `json:"is_active"`
	DisplayString     string           `json:"talent_loadout_selection_display_string"`
	TalentTreeSummary *IDRef           `json:"talent_tree_summary,omitempty"`
	SelectedTalents   []SelectedTalent `json:"selected_talents,omitempty"`
	SelectedHeroSpec  *IDName          `json:"selected_hero_spec,omitempty"`
}

// CharacterSpecialization is one specialization entry with its loadouts.
type CharacterSpecialization struct {
	Specialization    IDName          `json:"specialization"`
	TalentTreeSummary *IDRef          `json:"talent_tree_summary,omitempty"`
	Loadouts          []TalentLoadout `json:"loadouts,omitempty"`
}

// Specializations is the character specializations document.
type Specializations struct {
	Specializations      []CharacterSpecialization `json:"specializations"`
	ActiveSpecialization *IDName                   `json:"active_specialization,omitempty"`
}

// Active returns the specialization entry matching active_specialization,
// falling back to the first entry. Nil when the document is empty.
func (s *Specializations) Active() *CharacterSpecialization {
	if s == nil || len(s.Specializations) == 0 {
		return nil
	}
	if s.ActiveSpecialization != nil {
		for i := range s.Specializations {
			if s.Specializations[i].Specialization.ID == s.ActiveSpecialization.ID {
				return &s.Specializations[i]
			}
		}
	}
	return &s.Specializations[0]
}

// ActiveLoadout returns the loadout flagged is_active, falling back to
// the first loadout. Nil when the spec has no loadouts.
func (s *CharacterSpecialization) ActiveLoadout() *TalentLoadout {
	if s == nil || len(s.Loadouts) == 0 {
		return nil
	}
	for i := range s.Loadouts {
		if s.Loadouts[i].IsActive {
			return &s.Loadouts[i]
		}
	}
	return &s.Loadouts[0]
}

// NodeTalent is a talent entry on a tree node.
type NodeTalent struct {
	Talent IDName `json:"talent"`
}

// TalentNode is one node in the static talent tree. Display coordinates
// may be absent for utility nodes, hence the pointers.
type TalentNode struct {
	ID         int          `json:"id"`
	DisplayRow *int         `json:"display_row,omitempty"`
	DisplayCol *int         `json:"display_col,omitempty"`
	NodeType   *TypedName   `json:"node_type,omitempty"`
	Talents    []NodeTalent `json:"talents,omitempty"`
}

// TalentTree is the static talent tree layout for a specialization.
type TalentTree struct {
	ClassTalentNodes []TalentNode `json:"class_talent_nodes"`
	SpecTalentNodes  []TalentNode `json:"spec_talent_nodes"`
}

// PlayableSpecialization is the static specialization document, used as
// the tree-id fallback when the profile omits it.
type PlayableSpecialization struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	TalentTreeSummary *IDRef `json:"talent_tree_summary,omitempty"`
}

// LocalizedString is a map of locale to display string. Search endpoints
// return names in every locale regardless of the locale parameter.
type LocalizedString map[string]string

// Pick returns the en_US value, falling back to es_ES and then the first
// value in deterministic key order.
func (l LocalizedString) Pick() string {
	if v, ok := l["en_US"]; ok && v != "" {
		return v
	}
	if v, ok := l["es_ES"]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if l[k] != "" {
			return l[k]
		}
	}
	return ""
}

// SearchCharacter is the data payload of one character search hit.
type SearchCharacter struct {
	Name  LocalizedString `json:"name"`
	Level int             `json:"level"`
	Realm struct {
		Name LocalizedString `json:"name"`
		Slug string          `json:"slug"`
	} `json:"realm"`
	CharacterClass struct {
		ID   int             `json:"id"`
		Name LocalizedString `json:"name"`
	} `json:"character_class"`
	Race struct {
		ID   int             `json:"id"`
		Name LocalizedString `json:"name"`
	} `json:"race"`
	Faction TypedName `json:"faction"`
}

// SearchResult is one hit in the character search response.
type SearchResult struct {
	Data SearchCharacter `json:"data"`
}

// SearchResponse is the character search response.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
