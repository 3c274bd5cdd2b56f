package engine

import (
	"testing"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/profile"
)

func testEngine(t *testing.T) (*Engine, Ruleset, Ruleset) {
	t.Helper()
	snap, err := catalog.New(
		[]catalog.Character{
			{Code: "1305", Name: "Dr. Ratio", Rarity: 5},
			{Code: "1102", Name: "Seele", Rarity: 5},
		},
		[]catalog.Equipment{
			{ID: "23020", Name: "Baptism of Pure Thought", Rarity: 5, Limited: true},
			{ID: "20001", Name: "Arrows", Rarity: 3},
		},
	)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}

	p := profile.NewBaseline(snap, "test")
	p.SetCharacter("1305", profile.CharacterCosts{2, 2.5, 3, 3.5, 4, 4.5, 5})
	p.SetCharacter("1102", profile.CharacterCosts{1.25, 1.5, 2, 2, 2.5, 3, 4})
	p.SetEquipment("23020", profile.EquipmentCosts{0.5, 0.75, 1, 1.25, 1.5})
	p.SetEquipment("20001", profile.EquipmentCosts{2, 2, 2, 2, 2})

	a := Ruleset{Name: "A", Characters: p, Equipment: p, EquipmentRule: RuleMatrix}
	b := Ruleset{Name: "B", Characters: p, Equipment: p, EquipmentRule: RuleLimitedSchedule}
	return New(snap), a, b
}

func TestCharacterCost(t *testing.T) {
	e, a, _ := testEngine(t)

	tests := []struct {
		name  string
		id    string
		level int
		want  float64
	}{
		{"level 0", "1305", 0, 2},
		{"level 6", "1305", 6, 5},
		{"level above range", "1305", 7, 0},
		{"negative level", "1305", -1, 0},
		{"unknown id", "9999", 0, 0},
		{"empty id", "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CharacterCost(tt.id, tt.level, a); got != tt.want {
				t.Errorf("CharacterCost(%q, %d) = %v, want %v", tt.id, tt.level, got, tt.want)
			}
		})
	}
}

func TestEquipmentCost(t *testing.T) {
	e, a, b := testEngine(t)

	tests := []struct {
		name  string
		rs    Ruleset
		id    string
		level int
		want  float64
	}{
		{"matrix rank 1", a, "23020", 1, 0.5},
		{"matrix rank 5", a, "23020", 5, 1.5},
		{"matrix rank 0", a, "23020", 0, 0},
		{"matrix rank 6", a, "23020", 6, 0},
		{"matrix non-limited", a, "20001", 3, 2},
		{"matrix unknown", a, "99999", 1, 0},
		{"schedule rank 1", b, "23020", 1, 0.25},
		{"schedule rank 3", b, "23020", 3, 0.5},
		{"schedule rank 5", b, "23020", 5, 0.75},
		{"schedule clamps low", b, "23020", 0, 0.25},
		{"schedule clamps high", b, "23020", 9, 0.75},
		{"schedule non-limited", b, "20001", 5, 0},
		{"schedule unknown", b, "99999", 1, 0},
		{"empty id", b, "", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.EquipmentCost(tt.id, tt.level, tt.rs); got != tt.want {
				t.Errorf("EquipmentCost(%q, %d) = %v, want %v", tt.id, tt.level, got, tt.want)
			}
		})
	}
}

func TestTeamCost(t *testing.T) {
	e, a, b := testEngine(t)

	team := []Slot{
		{CharacterID: "1305", Level: 0, EquipmentID: "23020", EquipmentLevel: 1},
		{CharacterID: "1102", Level: 0},
		{},
	}

	if got := e.TeamCost(team, a); got != 3.75 {
		t.Errorf("TeamCost(A) = %v, want 3.75", got)
	}
	if got := e.TeamCost(team, b); got != 3.5 {
		t.Errorf("TeamCost(B) = %v, want 3.5", got)
	}
	if got := e.TeamCost(nil, a); got != 0 {
		t.Errorf("TeamCost(nil) = %v, want 0", got)
	}
	if e.TeamCost(team, a) != e.TeamCost(team, a) {
		t.Error("TeamCost is not deterministic")
	}
}

func TestCompare(t *testing.T) {
	e, a, b := testEngine(t)
	team := []Slot{{CharacterID: "1305", Level: 1, EquipmentID: "23020", EquipmentLevel: 2}}

	cmp := e.Compare(team, a, b)
	if cmp.A.Total != 3.25 {
		t.Errorf("A.Total = %v, want 3.25", cmp.A.Total)
	}
	if cmp.B.Total != 2.75 {
		t.Errorf("B.Total = %v, want 2.75", cmp.B.Total)
	}
	if len(cmp.A.Slots) != 1 || cmp.A.Slots[0].Equipment != 0.75 {
		t.Errorf("A.Slots = %+v, want one slot with equipment 0.75", cmp.A.Slots)
	}
}

func TestCyclePenalty(t *testing.T) {
	tests := []struct {
		breakpoint int
		advantage  float64
		want       float64
	}{
		{4, 6, 1.5},
		{4, -4, -1},
		{4, 0, 0},
		{3, 1, 1.0 / 3},
		{0, 8, 2},
		{-2, 8, 2},
	}

	for _, tt := range tests {
		if got := CyclePenalty(tt.breakpoint, tt.advantage); got != tt.want {
			t.Errorf("CyclePenalty(%d, %v) = %v, want %v", tt.breakpoint, tt.advantage, got, tt.want)
		}
	}
}

func TestCycleAdvantage(t *testing.T) {
	e, a, _ := testEngine(t)
	x := []Slot{{CharacterID: "1305", Level: 6}, {CharacterID: "1102", Level: 6}}
	y := []Slot{{CharacterID: "1102", Level: 0}}

	// (5 + 4) - 1.25 = 7.75 -> 7.75 / 4
	if got := e.CycleAdvantage(x, y, a, 4); got != 1.9375 {
		t.Errorf("CycleAdvantage() = %v, want 1.9375", got)
	}
	if got := e.CycleAdvantage(y, x, a, 4); got != -1.9375 {
		t.Errorf("CycleAdvantage() reversed = %v, want -1.9375", got)
	}
}
