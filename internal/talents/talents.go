// Nexus - Battle.net Character Manager
// Copyright 2026 Mauri-1658
// SPDX-License-Identifier: MIT
// https://github.com/Mauri-1658/WoWCharacters

// Package talents resolves a character's active talent loadout and lays
// out the class and spec talent trees on a display grid.
package talents

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mauri-1658/WoWCharacters/internal/bnet"
	"github.com/Mauri-1658/WoWCharacters/internal/logging"
)

// gridCell is the display-coordinate size of one tree grid cell.
// Blizzard's display_row/display_col values step in multiples of it.
const gridCell = 60

// ErrNoLoadout distinguishes a character that has never saved a talent
// loadout from an upstream failure.
var ErrNoLoadout = errors.New("character has no talent loadout")

// TreeUnavailableError is returned when no talent tree id could be
// resolved for the active specialization.
type TreeUnavailableError struct {
	SpecName string
	SpecID   int
}

func (e *TreeUnavailableError) Error() string {
	return fmt.Sprintf("no talent tree available for specialization %s (%d)", e.SpecName, e.SpecID)
}

// Service builds talent tree views.
type Service struct {
	api bnet.API
}

// NewService creates a talents service.
func NewService(api bnet.API) *Service {
	return &Service{api: api}
}

// Node is one positioned talent node.
type Node struct {
	ID         int    `json:"id"`
	Row        int    `json:"row"` // 1-based grid row
	Col        int    `json:"col"` // 1-based grid column
	TalentID   int    `json:"talentId,omitempty"`
	TalentName string `json:"talentName,omitempty"`
	Choice     bool   `json:"choice,omitempty"`
	Rank       int    `json:"rank,omitempty"`
	Selected   bool   `json:"selected,omitempty"`
}

// View is the rendered talent page for a character.
type View struct {
	SpecID      int    `json:"specId"`
	SpecName    string `json:"specName"`
	TreeID      int    `json:"treeId"`
	LoadoutName string `json:"loadoutName,omitempty"`
	HeroSpec    string `json:"heroSpec,omitempty"`

	ClassNodes []Node `json:"classNodes"`
	SpecNodes  []Node `json:"specNodes"`

	// NoSelections flags a loadout whose selected_talents list came
	// back empty; the trees still render, unranked.
	NoSelections bool `json:"noSelections,omitempty"`
}

// Build fetches the character's specializations, resolves the active
// loadout and talent tree, and lays both tree halves out on the grid.
func (s *Service) Build(ctx context.Context, token, realm, name string) (*View, error) {
	specs, err := s.api.Specializations(ctx, token, realm, name)
	if err != nil {
		return nil, err
	}

	spec := specs.Active()
	if spec == nil {
		return nil, ErrNoLoadout
	}
	loadout := spec.ActiveLoadout()
	if loadout == nil {
		return nil, ErrNoLoadout
	}

	treeID, err := s.resolveTreeID(ctx, token, spec, loadout)
	if err != nil {
		return nil, err
	}

	tree, err := s.api.TalentTree(ctx, token, treeID, spec.Specialization.ID)
	if err != nil {
		return nil, err
	}

	view := &View{
		SpecID:      spec.Specialization.ID,
		SpecName:    spec.Specialization.Name,
		TreeID:      treeID,
		LoadoutName: loadout.DisplayString,
	}
	if loadout.SelectedHeroSpec != nil {
		view.HeroSpec = loadout.SelectedHeroSpec.Name
	}

	// Selection is keyed on presence; rank only feeds the rank badge.
	selected := make(map[int]int, len(loadout.SelectedTalents))
	for _, t := range loadout.SelectedTalents {
		selected[t.Tooltip.Talent.ID] = t.Rank
	}
	if len(loadout.SelectedTalents) == 0 {
		view.NoSelections = true
		logging.Debug().
			Str("realm", realm).
			Str("name", name).
			Int("spec_id", spec.Specialization.ID).
			Msg("Loadout has no selected talents")
	}

	// Both halves share one coordinate origin so they align side by side.
	minRow, minCol := coordinateOrigin(tree.ClassTalentNodes, tree.SpecTalentNodes)
	view.ClassNodes = layoutNodes(tree.ClassTalentNodes, minRow, minCol, selected)
	view.SpecNodes = layoutNodes(tree.SpecTalentNodes, minRow, minCol, selected)

	return view, nil
}

// resolveTreeID walks the fallback chain for the talent tree id: the
// specialization summary, then the loadout summary, then the static
// playable-specialization document.
func (s *Service) resolveTreeID(ctx context.Context, token string, spec *bnet.CharacterSpecialization, loadout *bnet.TalentLoadout) (int, error) {
	if spec.TalentTreeSummary != nil && spec.TalentTreeSummary.ID != 0 {
		return spec.TalentTreeSummary.ID, nil
	}
	if loadout.TalentTreeSummary != nil && loadout.TalentTreeSummary.ID != 0 {
		return loadout.TalentTreeSummary.ID, nil
	}

	static, err := s.api.PlayableSpecialization(ctx, token, spec.Specialization.ID)
	if err == nil && static.TalentTreeSummary != nil && static.TalentTreeSummary.ID != 0 {
		return static.TalentTreeSummary.ID, nil
	}
	return 0, &TreeUnavailableError{SpecName: spec.Specialization.Name, SpecID: spec.Specialization.ID}
}

// coordinateOrigin finds the minimum display coordinates across both
// tree halves. Nodes without coordinates are ignored.
func coordinateOrigin(halves ...[]bnet.TalentNode) (minRow, minCol int) {
	first := true
	for _, nodes := range halves {
		for _, n := range nodes {
			if n.DisplayRow == nil || n.DisplayCol == nil {
				continue
			}
			if first || *n.DisplayRow < minRow {
				minRow = *n.DisplayRow
			}
			if first || *n.DisplayCol < minCol {
				minCol = *n.DisplayCol
			}
			first = false
		}
	}
	return minRow, minCol
}

// layoutNodes quantizes display coordinates onto the 1-based grid and
// attaches the first talent entry plus the loadout selection.
func layoutNodes(nodes []bnet.TalentNode, minRow, minCol int, selected map[int]int) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.DisplayRow == nil || n.DisplayCol == nil {
			continue
		}

		node := Node{
			ID:  n.ID,
			Row: (*n.DisplayRow-minRow)/gridCell + 1,
			Col: (*n.DisplayCol-minCol)/gridCell + 1,
		}
		if n.NodeType != nil && n.NodeType.Type == "CHOICE" {
			node.Choice = true
		}
		if len(n.Talents) > 0 {
			node.TalentID = n.Talents[0].Talent.ID
			node.TalentName = n.Talents[0].Talent.Name
		}
		if rank, ok := selected[node.TalentID]; ok {
			node.Selected = true
			if rank > 0 {
				node.Rank = rank
			}
		}
		out = append(out, node)
	}
	return out
}
