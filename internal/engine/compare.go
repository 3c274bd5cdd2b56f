package engine

// DefaultBreakpoint is the cost difference worth one cycle.
const DefaultBreakpoint = 4

// CyclePenalty converts a cost advantage into cycles: advantage / breakpoint,
// unrounded. A breakpoint of zero or less uses DefaultBreakpoint.
func CyclePenalty(breakpoint int, advantage float64) float64 {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return advantage / float64(breakpoint)
}

// SlotBreakdown is the cost of one slot under both rulesets.
type SlotBreakdown struct {
	Slot      Slot    `json:"slot"`
	Character float64 `json:"character"`
	Equipment float64 `json:"equipment"`
	Total     float64 `json:"total"`
}

// RulesetTotal is a team evaluated under a single ruleset.
type RulesetTotal struct {
	Ruleset string          `json:"ruleset"`
	Slots   []SlotBreakdown `json:"slots"`
	Total   float64         `json:"total"`
}

// Comparison holds a team evaluated under two rulesets side by side.
type Comparison struct {
	A RulesetTotal `json:"a"`
	B RulesetTotal `json:"b"`
}

// Evaluate breaks slots down under rs.
func (e *Engine) Evaluate(slots []Slot, rs Ruleset) RulesetTotal {
	out := RulesetTotal{Ruleset: rs.Name, Slots: make([]SlotBreakdown, 0, len(slots))}
	for _, s := range slots {
		b := SlotBreakdown{
			Slot:      s,
			Character: e.CharacterCost(s.CharacterID, s.Level, rs),
			Equipment: e.EquipmentCost(s.EquipmentID, s.EquipmentLevel, rs),
		}
		b.Total = b.Character + b.Equipment
		out.Total += b.Total
		out.Slots = append(out.Slots, b)
	}
	return out
}

// Compare evaluates slots under a and b.
func (e *Engine) Compare(slots []Slot, a, b Ruleset) Comparison {
	return Comparison{A: e.Evaluate(slots, a), B: e.Evaluate(slots, b)}
}
