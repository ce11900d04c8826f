// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

package talents

import (
	"context"
	"errors"
	"testing"

	"github.com/Mauri-1658/WoWCharacters/internal/bnet"
	"github.com/Mauri-1658/WoWCharacters/internal/bnet/bnettest"
)

func intPtr(v int) *int { return &v }

func specsDoc(treeID int, selected []bnet.SelectedTalent) *bnet.Specializations {
	spec := bnet.CharacterSpecialization{
		Specialization: bnet.IDName{ID: 251, Name: "Frost"},
		Loadouts: []bnet.TalentLoadout{
			{IsActive: false, DisplayString: "Old Build"},
			{IsActive: true, DisplayString: "Raid Build", SelectedTalents: selected},
		},
	}
	if treeID != 0 {
		spec.TalentTreeSummary = &bnet.IDRef{ID: treeID}
	}
	return &bnet.Specializations{
		Specializations:      []bnet.CharacterSpecialization{spec},
		ActiveSpecialization: &bnet.IDName{ID: 251, Name: "Frost"},
	}
}

func smallTree() *bnet.TalentTree {
	return &bnet.TalentTree{
		ClassTalentNodes: []bnet.TalentNode{
			{
				ID:         1,
				DisplayRow: intPtr(600),
				DisplayCol: intPtr(1200),
				Talents:    []bnet.NodeTalent{{Talent: bnet.IDName{ID: 101, Name: "Icy Talons"}}},
			},
			{
				ID:         2,
				DisplayRow: intPtr(660),
				DisplayCol: intPtr(1260),
				NodeType:   &bnet.TypedName{Type: "CHOICE"},
				Talents: []bnet.NodeTalent{
					{Talent: bnet.IDName{ID: 102, Name: "First Choice"}},
					{Talent: bnet.IDName{ID: 103, Name: "Second Choice"}},
				},
			},
			{ID: 3}, // no display coordinates, skipped
		},
		SpecTalentNodes: []bnet.TalentNode{
			{
				ID:         4,
				DisplayRow: intPtr(600),
				DisplayCol: intPtr(2400),
				Talents:    []bnet.NodeTalent{{Talent: bnet.IDName{ID: 104, Name: "Obliteration"}}},
			},
		},
	}
}

func TestBuild_LayoutAndRanks(t *testing.T) {
	t.Parallel()

	selected := []bnet.SelectedTalent{{Rank: 2}}
	selected[0].Tooltip.Talent = bnet.IDName{ID: 101, Name: "Icy Talons"}

	fake := &bnettest.Fake{
		SpecializationsFunc: func(ctx context.Context, token, realm, name string) (*bnet.Specializations, error) {
			return specsDoc(786, selected), nil
		},
		TalentTreeFunc: func(ctx context.Context, token string, treeID, specID int) (*bnet.TalentTree, error) {
			if treeID != 786 || specID != 251 {
				t.Errorf("Unexpected tree lookup: tree=%d spec=%d", treeID, specID)
			}
			return smallTree(), nil
		},
	}

	view, err := NewService(fake).Build(context.Background(), "t", "silvermoon", "arthas")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if view.SpecName != "Frost" || view.TreeID != 786 {
		t.Errorf("Unexpected view header: %+v", view)
	}
	if view.LoadoutName != "Raid Build" {
		t.Errorf("Expected active loadout, got %q", view.LoadoutName)
	}
	if view.NoSelections {
		t.Error("Expected NoSelections false")
	}

	if len(view.ClassNodes) != 2 {
		t.Fatalf("Expected 2 class nodes (one skipped), got %d", len(view.ClassNodes))
	}

	// The origin node lands at (1,1); one cell over at (2,2).
	first := view.ClassNodes[0]
	if first.Row != 1 || first.Col != 1 {
		t.Errorf("Expected origin node at (1,1), got (%d,%d)", first.Row, first.Col)
	}
	if !first.Selected || first.Rank != 2 {
		t.Errorf("Expected rank 2 on selected node, got %+v", first)
	}

	second := view.ClassNodes[1]
	if second.Row != 2 || second.Col != 2 {
		t.Errorf("Expected choice node at (2,2), got (%d,%d)", second.Row, second.Col)
	}
	if !second.Choice {
		t.Error("Expected choice marker")
	}
	if second.TalentName != "First Choice" {
		t.Errorf("Expected first talent entry, got %q", second.TalentName)
	}

	// Spec half shares the class half's origin.
	if len(view.SpecNodes) != 1 {
		t.Fatalf("Expected 1 spec node, got %d", len(view.SpecNodes))
	}
	if view.SpecNodes[0].Col != 21 {
		t.Errorf("Expected spec node at column 21, got %d", view.SpecNodes[0].Col)
	}
}

func TestBuild_RankZeroTalentStillSelected(t *testing.T) {
	t.Parallel()

	// Some granted talents report rank 0 while still being part of the
	// loadout; presence in the selection alone marks the node active.
	selected := []bnet.SelectedTalent{{Rank: 0}}
	selected[0].Tooltip.Talent = bnet.IDName{ID: 101, Name: "Icy Talons"}

	fake := &bnettest.Fake{
		SpecializationsFunc: func(ctx context.Context, token, realm, name string) (*bnet.Specializations, error) {
			return specsDoc(786, selected), nil
		},
		TalentTreeFunc: func(ctx context.Context, token string, treeID, specID int) (*bnet.TalentTree, error) {
			return smallTree(), nil
		},
	}

	view, err := NewService(fake).Build(context.Background(), "t", "silvermoon", "arthas")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	node := view.ClassNodes[0]
	if !node.Selected {
		t.Error("Expected the rank-0 selected talent to render active")
	}
	if node.Rank != 0 {
		t.Errorf("Expected no rank badge at rank 0, got %d", node.Rank)
	}
}

func TestBuild_NoLoadout(t *testing.T) {
	t.Parallel()

	fake := &bnettest.Fake{
		SpecializationsFunc: func(ctx context.Context, token, realm, name string) (*bnet.Specializations, error) {
			return &bnet.Specializations{
				Specializations: []bnet.CharacterSpecialization{{
					Specialization: bnet.IDName{ID: 251, Name: "Frost"},
				}},
			}, nil
		},
	}

	_, err := NewService(fake).Build(context.Background(), "t", "silvermoon", "arthas")
	if !errors.Is(err, ErrNoLoadout) {
		t.Fatalf("Expected ErrNoLoadout, got %v", err)
	}
}

func TestBuild_TreeFallbackChain(t *testing.T) {
	t.Parallel()

	// No tree id anywhere in the profile; the static document supplies it.
	fake := &bnettest.Fake{
		SpecializationsFunc: func(ctx context.Context, token, realm, name string) (*bnet.Specializations, error) {
			return specsDoc(0, nil), nil
		},
		PlayableSpecializationFunc: func(ctx context.Context, token string, specID int) (*bnet.PlayableSpecialization, error) {
			return &bnet.PlayableSpecialization{ID: specID, TalentTreeSummary: &bnet.IDRef{ID: 786}}, nil
		},
		TalentTreeFunc: func(ctx context.Context, token string, treeID, specID int) (*bnet.TalentTree, error) {
			return smallTree(), nil
		},
	}

	view, err := NewService(fake).Build(context.Background(), "t", "silvermoon", "arthas")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if view.TreeID != 786 {
		t.Errorf("Expected static fallback tree id, got %d", view.TreeID)
	}
	if !view.NoSelections {
		t.Error("Expected NoSelections for empty selected talents")
	}
}

func TestBuild_TreeUnavailable(t *testing.T) {
	t.Parallel()

	fake := &bnettest.Fake{
		SpecializationsFunc: func(ctx context.Context, token, realm, name string) (*bnet.Specializations, error) {
			return specsDoc(0, nil), nil
		},
		// PlayableSpecialization falls through to ErrNotFound.
	}

	_, err := NewService(fake).Build(context.Background(), "t", "silvermoon", "arthas")
	var treeErr *TreeUnavailableError
	if !errors.As(err, &treeErr) {
		t.Fatalf("Expected TreeUnavailableError, got %v", err)
	}
	if treeErr.SpecName != "Frost" || treeErr.SpecID != 251 {
		t.Errorf("Unexpected error payload: %+v", treeErr)
	}
}
