// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package detail aggregates the per-character profile view: identity,
// portrait, progression, equipment and combat statistics.
package detail

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Mauri-1658/WoWCharacters/internal/bnet"
	"github.com/Mauri-1658/WoWCharacters/internal/catalog"
	"github.com/Mauri-1658/WoWCharacters/internal/lexicon"
	"github.com/Mauri-1658/WoWCharacters/internal/logging"
)

// MaxAchievementPoints anchors the achievement completion percentage.
const MaxAchievementPoints = 53610

// Service builds character detail views.
type Service struct {
	api bnet.API
}

// NewService creates a detail service.
func NewService(api bnet.API) *Service {
	return &Service{api: api}
}

// CharacterDetail is the full profile view for one character.
type CharacterDetail struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Realm       string `json:"realm"`
	RealmSlug   string `json:"realmSlug"`
	Level       int    `json:"level"`
	Class       string `json:"class"`
	ClassColor  string `json:"classColor"`
	Race        string `json:"race"`
	Gender      string `json:"gender,omitempty"`
	Faction     string `json:"faction"`
	FactionName string `json:"factionName"`
	PortraitURL string `json:"portraitUrl,omitempty"`
	ItemLevel   int    `json:"itemLevel,omitempty"`
	SpecName    string `json:"specName,omitempty"`
	SpecBadge   string `json:"specBadge,omitempty"`

	HeroSpec *HeroSpec `json:"heroSpec,omitempty"`

	AchievementPoints  int     `json:"achievementPoints"`
	AchievementPercent float64 `json:"achievementPercent"`

	MythicRating *MythicRating `json:"mythicRating,omitempty"`

	Raids     []RaidSummary `json:"raids"`
	Equipment []ItemView    `json:"equipment"`
	Stats     []StatView    `json:"stats"`

	BisGuideURL string `json:"bisGuideUrl,omitempty"`

	// Affordance flags, filled in by the caller from the viewer's
	// catalog and preferences.
	Owned    bool `json:"owned"`
	Favorite bool `json:"favorite"`
	Friend   bool `json:"friend"`
}

// HeroSpec is the selected hero talent specialization.
type HeroSpec struct {
	Name    string `json:"name"`
	IconURL string `json:"iconUrl"`
}

// MythicRating is the current season Mythic+ rating with its color tier.
type MythicRating struct {
	Rating int    `json:"rating"`
	Tier   string `json:"tier"`
}

// RaidSummary is the progression row for one recent raid: one badge per
// attempted difficulty plus the best completion percentage.
type RaidSummary struct {
	Name        string           `json:"name"`
	Modes       []RaidDifficulty `json:"modes"`
	PercentDone float64          `json:"percentDone"` // best completion across modes
}

// RaidDifficulty is one difficulty's completion badge within a raid.
type RaidDifficulty struct {
	Difficulty string `json:"difficulty"`
	Badge      string `json:"badge"` // e.g. "M 7/8"
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
}

// ItemView is one equipped item.
type ItemView struct {
	Slot      string   `json:"slot"`
	Name      string   `json:"name"`
	Quality   string   `json:"quality"` // css tier token, e.g. "quality-epic"
	ItemLevel int      `json:"itemLevel"`
	MediaID   int      `json:"mediaId,omitempty"`
	Enchants  []string `json:"enchants,omitempty"`
	Gems      []Gem    `json:"gems,omitempty"`
}

// Gem is one socket on an equipped item.
type Gem struct {
	Name  string `json:"name"`
	Empty bool   `json:"empty,omitempty"`
}

// StatView is one formatted statistic box.
type StatView struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Build aggregates the character detail from seven profile endpoints.
// The base profile is required; every other document degrades to an
// empty section when unavailable.
func (s *Service) Build(ctx context.Context, token, realm, name string) (*CharacterDetail, error) {
	var (
		profile   *bnet.CharacterProfile
		media     *bnet.Media
		equipment *bnet.Equipment
		stats     *bnet.Statistics
		raids     *bnet.RaidEncounters
		mythic    *bnet.MythicKeystoneProfile
		specs     *bnet.Specializations
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.api.CharacterProfile(gctx, token, realm, name)
		return err
	})
	g.Go(degrading(gctx, realm, name, "media", &media, s.api.CharacterMedia, token))
	g.Go(degrading(gctx, realm, name, "equipment", &equipment, s.api.Equipment, token))
	g.Go(degrading(gctx, realm, name, "statistics", &stats, s.api.Statistics, token))
	g.Go(degrading(gctx, realm, name, "raids", &raids, s.api.RaidEncounters, token))
	g.Go(degrading(gctx, realm, name, "mythic-keystone", &mythic, s.api.MythicKeystoneProfile, token))
	g.Go(degrading(gctx, realm, name, "specializations", &specs, s.api.Specializations, token))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &CharacterDetail{
		Key:               catalog.Key(profile.Realm.Slug, profile.Name),
		Name:              profile.Name,
		Realm:             profile.Realm.Name,
		RealmSlug:         profile.Realm.Slug,
		Level:             profile.Level,
		Class:             profile.CharacterClass.Name,
		ClassColor:        lexicon.ClassColor(profile.CharacterClass.Name),
		Race:              profile.Race.Name,
		Gender:            profile.Gender.Type,
		Faction:           profile.Faction.Type,
		FactionName:       profile.Faction.Name,
		SpecName:          profile.ActiveSpec.Name,
		AchievementPoints: profile.AchievementPoints,
		Raids:             []RaidSummary{},
		Equipment:         []ItemView{},
		Stats:             []StatView{},
	}

	if profile.ActiveTitle != nil {
		d.Title = profile.ActiveTitle.DisplayString
	}
	if d.Faction == "" {
		d.Faction = "NEUTRAL"
	}
	if d.FactionName == "" {
		d.FactionName = "Neutral"
	}

	d.PortraitURL = media.Asset("main-raw", "inset", "avatar")
	if d.PortraitURL == "" {
		d.PortraitURL = lexicon.RaceIconURL(profile.Race.Name, profile.Gender.Type)
	}

	d.ItemLevel = profile.EquippedItemLevel
	if d.ItemLevel == 0 {
		d.ItemLevel = profile.AverageItemLevel
	}

	if d.SpecName != "" {
		d.SpecBadge = lexicon.ClassShort(d.Class) + " - " + d.SpecName
	}

	d.AchievementPercent = roundTenth(float64(profile.AchievementPoints) / MaxAchievementPoints * 100)

	if mythic != nil && mythic.CurrentMythicRating != nil {
		if rating := int(math.Round(mythic.CurrentMythicRating.Rating)); rating > 0 {
			d.MythicRating = &MythicRating{Rating: rating, Tier: RatingTier(float64(rating))}
		}
	}

	if raids != nil {
		d.Raids = recentRaids(raids)
	}
	if equipment != nil {
		d.Equipment = equipmentViews(equipment)
	}
	if stats != nil {
		d.Stats = statViews(stats)
	}
	if specs != nil {
		d.HeroSpec = heroSpec(specs)
	}

	d.BisGuideURL = BisGuideURL(d.Class, d.SpecName)

	return d, nil
}

// degrading wraps an optional fetch: failures are logged and leave the
// destination nil instead of failing the aggregate.
func degrading[T any](ctx context.Context, realm, name, doc string, dst **T, fetch func(context.Context, string, string, string) (*T, error), token string) func() error {
	return func() error {
		v, err := fetch(ctx, token, realm, name)
		if err != nil {
			logging.Debug().
				Str("realm", realm).
				Str("name", name).
				Str("document", doc).
				Err(err).
				Msg("Profile document unavailable")
			return nil
		}
		*dst = v
		return nil
	}
}

// RatingTier maps a Mythic+ rating to its display color tier.
func RatingTier(rating float64) string {
	switch {
	case rating >= 2500:
		return "orange"
	case rating >= 2000:
		return "purple"
	case rating >= 1500:
		return "blue"
	default:
		return "green"
	}
}

// BisGuideURL links the Wowhead best-in-slot guide for a class/spec
// pair. Returns "" when either part is missing.
func BisGuideURL(class, spec string) string {
	if class == "" || spec == "" {
		return ""
	}
	return fmt.Sprintf("https://www.wowhead.com/guide/classes/%s/%s/bis-gear",
		urlSlug(class), urlSlug(spec))
}

func urlSlug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

var difficultyRank = map[string]int{
	"NORMAL": 1,
	"HEROIC": 2,
	"MYTHIC": 3,
}

// recentRaids flattens all expansions' instances in order, keeps the
// two most recent with the newest first, and drops any that carry no
// mode data. Each attempted difficulty gets its own completion badge,
// ordered normal before heroic before mythic; the completion bar shows
// the best percentage across modes.
func recentRaids(raids *bnet.RaidEncounters) []RaidSummary {
	var instances []bnet.RaidInstance
	for _, exp := range raids.Expansions {
		instances = append(instances, exp.Instances...)
	}

	if len(instances) > 2 {
		instances = instances[len(instances)-2:]
	}
	// newest first
	for i, j := 0, len(instances)-1; i < j; i, j = i+1, j-1 {
		instances[i], instances[j] = instances[j], instances[i]
	}

	summaries := make([]RaidSummary, 0, len(instances))
	for _, inst := range instances {
		if len(inst.Modes) == 0 {
			continue
		}

		ordered := make([]bnet.RaidMode, len(inst.Modes))
		copy(ordered, inst.Modes)
		sort.SliceStable(ordered, func(i, j int) bool {
			return difficultyRank[ordered[i].Difficulty.Type] < difficultyRank[ordered[j].Difficulty.Type]
		})

		modes := make([]RaidDifficulty, 0, len(ordered))
		maxPct := 0.0
		for _, m := range ordered {
			d := RaidDifficulty{Difficulty: m.Difficulty.Name}
			if m.Progress != nil {
				d.Completed = m.Progress.CompletedCount
				d.Total = m.Progress.TotalCount
			}
			if d.Difficulty != "" {
				d.Badge = fmt.Sprintf("%s %d/%d", d.Difficulty[:1], d.Completed, d.Total)
			}
			if d.Total > 0 {
				if pct := float64(d.Completed) / float64(d.Total) * 100; pct > maxPct {
					maxPct = pct
				}
			}
			modes = append(modes, d)
		}

		summaries = append(summaries, RaidSummary{
			Name:        inst.Instance.Name,
			Modes:       modes,
			PercentDone: roundTenth(maxPct),
		})
	}
	return summaries
}

// Enchantment display strings carry an "Enchanted: " style prefix and
// sometimes a "|" delimited tooltip markup tail; both are stripped.
var (
	enchantPrefix = regexp.MustCompile(`^.*?:\s*`)
	enchantNoise  = regexp.MustCompile(`\|.*$`)
)

func equipmentViews(equipment *bnet.Equipment) []ItemView {
	views := make([]ItemView, 0, len(equipment.EquippedItems))
	for _, item := range equipment.EquippedItems {
		v := ItemView{
			Slot:      item.Slot.Name,
			Name:      item.Name,
			Quality:   lexicon.QualityTier(item.Quality.Type),
			ItemLevel: item.Level.Value,
			MediaID:   item.Media.ID,
		}

		for _, ench := range item.Enchantments {
			if ench.EnchantmentSlot == nil {
				continue
			}
			switch ench.EnchantmentSlot.Type {
			case "PERMANENT", "BONUS_SOCKETS":
			default:
				continue
			}
			label := ""
			if ench.SourceItem != nil && ench.SourceItem.Name != "" {
				label = ench.SourceItem.Name
			} else if ench.DisplayString != "" {
				label = enchantNoise.ReplaceAllString(ench.DisplayString, "")
				label = enchantPrefix.ReplaceAllString(label, "")
				label = strings.TrimSpace(label)
			}
			if label != "" {
				v.Enchants = append(v.Enchants, label)
			}
		}

		for _, socket := range item.Sockets {
			if socket.Item != nil && socket.Item.Name != "" {
				v.Gems = append(v.Gems, Gem{Name: socket.Item.Name})
			} else if socket.SocketType != nil {
				v.Gems = append(v.Gems, Gem{Name: socket.SocketType.Name, Empty: true})
			}
		}

		views = append(views, v)
	}
	return views
}

// statViews formats the statistics boxes. Zero-valued entries are
// dropped so missing documents render as an empty section.
func statViews(stats *bnet.Statistics) []StatView {
	var views []StatView

	attribute := func(label string, attr *bnet.AttributeStat) {
		if attr != nil && attr.Effective > 0 {
			views = append(views, StatView{Label: label, Value: fmt.Sprintf("%d", int(attr.Effective))})
		}
	}
	attribute("Strength", stats.Strength)
	attribute("Agility", stats.Agility)
	attribute("Intellect", stats.Intellect)
	attribute("Stamina", stats.Stamina)

	percent := func(label string, value float64) {
		if value > 0 {
			formatted := fmt.Sprintf("%.1f%%", value)
			if formatted != "0.0%" {
				views = append(views, StatView{Label: label, Value: formatted})
			}
		}
	}
	if stats.MeleeCrit != nil {
		percent("Critical Strike", stats.MeleeCrit.Value)
	}
	if stats.MeleeHaste != nil {
		percent("Haste", stats.MeleeHaste.Value)
	}
	if stats.Mastery != nil {
		percent("Mastery", stats.Mastery.Value)
	}
	percent("Versatility", stats.VersatilityValue)

	return views
}

// heroSpec resolves the selected hero talent spec from the active
// specialization's active loadout.
func heroSpec(specs *bnet.Specializations) *HeroSpec {
	loadout := specs.Active().ActiveLoadout()
	if loadout == nil || loadout.SelectedHeroSpec == nil || loadout.SelectedHeroSpec.Name == "" {
		return nil
	}
	name := loadout.SelectedHeroSpec.Name
	return &HeroSpec{Name: name, IconURL: lexicon.HeroSpecIconURL(name)}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
