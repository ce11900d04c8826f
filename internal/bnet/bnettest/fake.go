// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package bnettest provides a configurable fake of the Battle.net API
// client for tests.
package bnettest

import (
	"context"

	"github.com/Mauri-1658/WoWCharacters/internal/bnet"
)

// Fake implements bnet.API with overridable function fields. Calls to
// unset fields return bnet.ErrNotFound.
type Fake struct {
	ProfileSummaryFunc          func(ctx context.Context, token string) (*bnet.ProfileSummary, error)
	CharacterProfileFunc        func(ctx context.Context, token, realm, name string) (*bnet.CharacterProfile, error)
	CharacterMediaFunc          func(ctx context.Context, token, realm, name string) (*bnet.Media, error)
	EquipmentFunc               func(ctx context.Context, token, realm, name string) (*bnet.Equipment, error)
	StatisticsFunc              func(ctx context.Context, token, realm, name string) (*bnet.Statistics, error)
	RaidEncountersFunc          func(ctx context.Context, token, realm, name string) (*bnet.RaidEncounters, error)
	MythicKeystoneProfileFunc   func(ctx context.Context, token, realm, name string) (*bnet.MythicKeystoneProfile, error)
	SpecializationsFunc         func(ctx context.Context, token, realm, name string) (*bnet.Specializations, error)
	TalentTreeFunc              func(ctx context.Context, token string, treeID, specID int) (*bnet.TalentTree, error)
	PlayableSpecializationFunc  func(ctx context.Context, token string, specID int) (*bnet.PlayableSpecialization, error)
	ItemMediaFunc               func(ctx context.Context, token string, itemID int) (*bnet.Media, error)
	GameMediaFunc               func(ctx context.Context, token, mediaType string, id int) (*bnet.Media, error)
	SearchCharactersFunc        func(ctx context.Context, token, name string) (*bnet.SearchResponse, error)
}

var _ bnet.API = (*Fake)(nil)

func (f *Fake) ProfileSummary(ctx context.Context, token string) (*bnet.ProfileSummary, error) {
	if f.ProfileSummaryFunc != nil {
		return f.ProfileSummaryFunc(ctx, token)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) CharacterProfile(ctx context.Context, token, realm, name string) (*bnet.CharacterProfile, error) {
	if f.CharacterProfileFunc != nil {
		return f.CharacterProfileFunc(ctx, token, realm, name)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) CharacterMedia(ctx context.Context, token, realm, name string) (*bnet.Media, error) {
	if f.CharacterMediaFunc != nil {
		return f.CharacterMediaFunc(ctx, token, realm, name)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) Equipment(ctx context.Context, token, realm, name string) (*bnet.Equipment, error) {
	if f.EquipmentFunc != nil {
		return f.EquipmentFunc(ctx, token, realm, name)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) Statistics(ctx context.Context, token, realm, name string) (*bnet.Statistics, error) {
	if f.StatisticsFunc != nil {
		return f.StatisticsFunc(ctx, token, realm, name)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) RaidEncounters(ctx context.Context, token, realm, name string) (*bnet.RaidEncounters, error) {
	if f.RaidEncountersFunc != nil {
		return f.RaidEncountersFunc(ctx, token, realm, name)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) MythicKeystoneProfile(ctx context.Context, token, realm, name string) (*bnet.MythicKeystoneProfile, error) {
	if f.MythicKeystoneProfileFunc != nil {
		return f.MythicKeystoneProfileFunc(ctx, token, realm, name)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) Specializations(ctx context.Context, token, realm, name string) (*bnet.Specializations, error) {
	if f.SpecializationsFunc != nil {
		return f.SpecializationsFunc(ctx, token, realm, name)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) TalentTree(ctx context.Context, token string, treeID, specID int) (*bnet.TalentTree, error) {
	if f.TalentTreeFunc != nil {
		return f.TalentTreeFunc(ctx, token, treeID, specID)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) PlayableSpecialization(ctx context.Context, token string, specID int) (*bnet.PlayableSpecialization, error) {
	if f.PlayableSpecializationFunc != nil {
		return f.PlayableSpecializationFunc(ctx, token, specID)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) ItemMedia(ctx context.Context, token string, itemID int) (*bnet.Media, error) {
	if f.ItemMediaFunc != nil {
		return f.ItemMediaFunc(ctx, token, itemID)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) GameMedia(ctx context.Context, token, mediaType string, id int) (*bnet.Media, error) {
	if f.GameMediaFunc != nil {
		return f.GameMediaFunc(ctx, token, mediaType, id)
	}
	return nil, bnet.ErrNotFound
}

func (f *Fake) SearchCharacters(ctx context.Context, token, name string) (*bnet.SearchResponse, error) {
	if f.SearchCharactersFunc != nil {
		return f.SearchCharactersFunc(ctx, token, name)
	}
	return nil, bnet.ErrNotFound
}
