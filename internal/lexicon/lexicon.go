// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package lexicon holds the static game vocabulary: class colors and
// abbreviations, item quality tiers, and race icon slugs. All lookups key
// on en_US names since every upstream call pins locale=en_US.
package lexicon

import "strings"

// DefaultClassColor is used when a class has no known color.
const DefaultClassColor = "#d4a843"

var classColors = map[string]string{
	"Warrior":      "#C79C6E",
	"Paladin":      "#F58CBA",
	"Hunter":       "#ABD473",
	"Rogue":        "#FFF569",
	"Priest":       "#FFFFFF",
	"Death Knight": "#C41E3A",
	"Shaman":       "#0070DE",
	"Mage":         "#69CCF0",
	"Warlock":      "#9482C9",
	"Monk":         "#00FF96",
	"Druid":        "#FF7D0A",
	"Demon Hunter": "#A330C9",
	"Evoker":       "#33937F",
}

// ClassColor returns the display color for a class name.
func ClassColor(class string) string {
	if c, ok := classColors[class]; ok {
		return c
	}
	return DefaultClassColor
}

var classShortNames = map[string]string{
	"Death Knight": "DK",
	"Demon Hunter": "DH",
}

// ClassShort returns the abbreviated class name. Only multi-word classes
// abbreviate; everything else passes through unchanged.
func ClassShort(class string) string {
	if s, ok := classShortNames[class]; ok {
		return s
	}
	return class
}

// QualityTier maps an item quality type to its display tier token.
var qualityTiers = map[string]string{
	"POOR":      "quality-poor",
	"COMMON":    "quality-common",
	"UNCOMMON":  "quality-uncommon",
	"RARE":      "quality-rare",
	"EPIC":      "quality-epic",
	"LEGENDARY": "quality-legendary",
	"ARTIFACT":  "quality-artifact",
	"HEIRLOOM":  "quality-heirloom",
}

// QualityTier returns the tier token for an item quality type, or the
// common tier when the quality is unknown.
func QualityTier(quality string) string {
	if t, ok := qualityTiers[strings.ToUpper(quality)]; ok {
		return t
	}
	return "quality-common"
}

// raceIconSlugs maps race display names to the icon slug used by the
// Wowhead CDN fallback (race_{slug}_{gender}.jpg).
var raceIconSlugs = map[string]string{
	"Human":               "human",
	"Orc":                 "orc",
	"Dwarf":               "dwarf",
	"Night Elf":           "nightelf",
	"Undead":              "scourge",
	"Tauren":              "tauren",
	"Gnome":               "gnome",
	"Troll":               "troll",
	"Goblin":              "goblin",
	"Blood Elf":           "bloodelf",
	"Draenei":             "draenei",
	"Worgen":              "worgen",
	"Pandaren":            "pandaren",
	"Nightborne":          "nightborne",
	"Highmountain Tauren": "highmountain",
	"Void Elf":            "voidelf",
	"Lightforged Draenei": "lightforged",
	"Zandalari Troll":     "zandalari",
	"Kul Tiran":           "kultiran",
	"Dark Iron Dwarf":     "darkiron",
	"Mag'har Orc":         "maghar",
	"Mechagnome":          "mechagnome",
	"Vulpera":             "vulpera",
	"Dracthyr":            "dracthyr",
	"Earthen":             "earthen",
}

// RaceIconURL returns the CDN fallback icon URL for a race and gender
// type (MALE/FEMALE). Empty when the race is unknown.
func RaceIconURL(race, genderType string) string {
	slug, ok := raceIconSlugs[race]
	if !ok {
		return ""
	}
	gender := strings.ToLower(genderType)
	if gender == "" {
		gender = "male"
	}
	return "https://wow.zamimg.com/images/wow/icons/large/race_" + slug + "_" + gender + ".jpg"
}

// HeroSpecIconURL derives the CDN icon URL for a hero talent spec from
// its display name. The CDN names these icons after the lowercased,
// letters-only spec name; there is no media endpoint for hero specs.
func HeroSpecIconURL(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "https://wow.zamimg.com/images/wow/icons/large/ability_herospec_" + b.String() + ".jpg"
}
