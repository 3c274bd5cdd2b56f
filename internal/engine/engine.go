// Package engine computes slot and team costs from a catalog snapshot and a
// pair of cost rulesets.
//
// Every function here is pure. Unknown ids and out-of-range levels cost
// zero, so totals stay computable against stale profiles.
package engine

import (
	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/profile"
)

// EquipmentRule selects how a ruleset prices equipment.
type EquipmentRule int

const (
	// RuleMatrix prices equipment from the profile matrix (Ruleset A).
	RuleMatrix EquipmentRule = iota
	// RuleLimitedSchedule charges a fixed schedule for limited equipment
	// and nothing for the rest (Ruleset B).
	RuleLimitedSchedule
)

func (r EquipmentRule) String() string {
	switch r {
	case RuleMatrix:
		return "matrix"
	case RuleLimitedSchedule:
		return "limitedSchedule"
	default:
		return "unknown"
	}
}

// LimitedSchedule is the Ruleset B cost of a limited item by rank 1..5.
var LimitedSchedule = [profile.EquipmentLevels]float64{0.25, 0.25, 0.5, 0.5, 0.75}

// Ruleset is one scoring configuration.
type Ruleset struct {
	Name          string
	Characters    profile.Profile
	Equipment     profile.Profile
	EquipmentRule EquipmentRule
}

// Slot is one team member.
type Slot struct {
	CharacterID    string `json:"characterId"`
	Level          int    `json:"level"`
	EquipmentID    string `json:"equipmentId,omitempty"`
	EquipmentLevel int    `json:"equipmentLevel,omitempty"`
}

// Engine evaluates costs against a fixed catalog snapshot.
type Engine struct {
	snap *catalog.Snapshot
}

// New returns an Engine for snap.
func New(snap *catalog.Snapshot) *Engine {
	return &Engine{snap: snap}
}

// CharacterCost returns the cost of a character at level 0..6.
func (e *Engine) CharacterCost(id string, level int, rs Ruleset) float64 {
	if id == "" || level < 0 || level >= profile.CharacterLevels {
		return 0
	}
	m, ok := rs.Characters.CharacterMatrix(id)
	if !ok {
		return 0
	}
	return m[level]
}

// EquipmentCost returns the cost of an equipment item at rank 1..5.
func (e *Engine) EquipmentCost(id string, level int, rs Ruleset) float64 {
	if id == "" {
		return 0
	}

	switch rs.EquipmentRule {
	case RuleMatrix:
		if level < 1 || level > profile.EquipmentLevels {
			return 0
		}
		m, ok := rs.Equipment.EquipmentMatrix(id)
		if !ok {
			return 0
		}
		return m[level-1]
	case RuleLimitedSchedule:
		item, ok := e.snap.Item(id)
		if !ok || !item.Limited {
			return 0
		}
		return LimitedSchedule[clamp(level, 1, profile.EquipmentLevels)-1]
	default:
		return 0
	}
}

// SlotCost is the character cost plus the equipment cost of s.
func (e *Engine) SlotCost(s Slot, rs Ruleset) float64 {
	return e.CharacterCost(s.CharacterID, s.Level, rs) + e.EquipmentCost(s.EquipmentID, s.EquipmentLevel, rs)
}

// TeamCost sums SlotCost over slots. Empty slots contribute zero.
func (e *Engine) TeamCost(slots []Slot, rs Ruleset) float64 {
	var total float64
	for _, s := range slots {
		total += e.SlotCost(s, rs)
	}
	return total
}

// Advantage is TeamCost(x) - TeamCost(y). Positive means x is more expensive.
func (e *Engine) Advantage(x, y []Slot, rs Ruleset) float64 {
	return e.TeamCost(x, rs) - e.TeamCost(y, rs)
}

// CycleAdvantage converts the cost advantage of x over y into cycles.
func (e *Engine) CycleAdvantage(x, y []Slot, rs Ruleset, breakpoint int) float64 {
	return CyclePenalty(breakpoint, e.Advantage(x, y, rs))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
