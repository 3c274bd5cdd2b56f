package featured

import (
	"errors"
	"math"
	"testing"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/profile"
)

func cost(v float64) *float64 { return &v }

func TestValidate_CustomCostCompletesEntry(t *testing.T) {
	entries := []Entry{
		{Kind: KindCharacter, ID: "1305", Rule: RuleGlobalBan},
		{Kind: KindCharacter, ID: "1102", Rule: RuleNone},
	}

	err := Validate(entries)
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate() error = %v, want *ValidationErrors", err)
	}
	if len(verrs.Items) != 1 || verrs.Items[0].Index != 1 || verrs.Items[0].Reason != ReasonIncomplete {
		t.Errorf("Validate() items = %+v, want one incomplete entry at index 1", verrs.Items)
	}

	entries[1].CustomCost = cost(0)
	if err := Validate(entries); err != nil {
		t.Errorf("Validate() with customCost=0 error = %v, want nil", err)
	}
}

func TestValidate_PickOnEquipment(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{"bare", Entry{Kind: KindEquipment, ID: "23020", Rule: RuleGlobalPick}},
		{"with custom cost", Entry{Kind: KindEquipment, ID: "23020", Rule: RuleGlobalPick, CustomCost: cost(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]Entry{tt.entry})
			var verrs *ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error = %v, want *ValidationErrors", err)
			}
			if verrs.Items[0].Reason != ReasonPickOnEquipment {
				t.Errorf("Reason = %q, want %q", verrs.Items[0].Reason, ReasonPickOnEquipment)
			}
		})
	}

	if err := Validate([]Entry{{Kind: KindCharacter, ID: "1305", Rule: RuleGlobalPick}}); err != nil {
		t.Errorf("Validate(character pick) error = %v, want nil", err)
	}
}

func TestValidate_Reasons(t *testing.T) {
	tests := []struct {
		name   string
		entry  Entry
		reason string
	}{
		{"negative custom cost", Entry{Kind: KindCharacter, ID: "1", CustomCost: cost(-1)}, ReasonNegativeCustomCost},
		{"nan custom cost", Entry{Kind: KindCharacter, ID: "1", CustomCost: cost(math.NaN())}, ReasonNegativeCustomCost},
		{"unknown rule", Entry{Kind: KindCharacter, ID: "1", Rule: "forcePick"}, ReasonUnknownRule},
		{"unknown kind", Entry{Kind: "relic", ID: "1", Rule: RuleGlobalBan}, ReasonUnknownKind},
		{"missing id", Entry{Kind: KindCharacter, Rule: RuleGlobalBan}, ReasonMissingID},
		{"empty rule", Entry{Kind: KindCharacter, ID: "1"}, ReasonIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]Entry{tt.entry})
			var verrs *ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error = %v, want *ValidationErrors", err)
			}
			if verrs.Items[0].Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", verrs.Items[0].Reason, tt.reason)
			}
		})
	}
}

func TestValidate_EmptyList(t *testing.T) {
	if err := Validate(nil); err != nil {
		t.Errorf("Validate(nil) error = %v, want nil", err)
	}
}

func TestValidationErrors_Indexes(t *testing.T) {
	err := Validate([]Entry{
		{Kind: KindEquipment, ID: "a", Rule: RuleGlobalPick},
		{Kind: KindCharacter, ID: "b", Rule: RuleGlobalBan},
		{Kind: "x", ID: "c"},
	})
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate() error = %v, want *ValidationErrors", err)
	}
	got := verrs.Indexes()
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("Indexes() = %v, want [0 2]", got)
	}
}

func TestValidateCosts(t *testing.T) {
	p := profile.Profile{
		Characters: map[string]profile.CharacterCosts{"1305": {1, 2}},
		Equipment:  map[string]profile.EquipmentCosts{"23020": {0.25}},
	}
	if err := ValidateCosts(p); err != nil {
		t.Errorf("ValidateCosts(valid) error = %v, want nil", err)
	}

	p.Characters["1102"] = profile.CharacterCosts{0, -1}
	p.Equipment["20001"] = profile.EquipmentCosts{math.Inf(1)}
	if err := ValidateCosts(p); !errors.Is(err, ErrInvalidCosts) {
		t.Errorf("ValidateCosts(invalid) error = %v, want ErrInvalidCosts", err)
	}
}

func TestMatchConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MatchConfig
		wantErr bool
	}{
		{"valid", MatchConfig{Breakpoint: 4, Featured: []Entry{{Kind: KindCharacter, ID: "1", Rule: RuleGlobalBan}}}, false},
		{"zero breakpoint", MatchConfig{Breakpoint: 0}, true},
		{"breakpoint too large", MatchConfig{Breakpoint: MaxBreakpoint + 1}, true},
		{"invalid featured", MatchConfig{Breakpoint: 4, Featured: []Entry{{Kind: KindCharacter, ID: "1"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckCatalog(t *testing.T) {
	snap, err := catalog.New(
		[]catalog.Character{{Code: "1305", Name: "Dr. Ratio"}},
		[]catalog.Equipment{{ID: "23020", Name: "Baptism of Pure Thought"}},
	)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}

	ok := []Entry{
		{Kind: KindCharacter, ID: "1305", Rule: RuleGlobalBan},
		{Kind: KindEquipment, ID: "23020", Rule: RuleGlobalBan},
	}
	if err := CheckCatalog(ok, snap); err != nil {
		t.Errorf("CheckCatalog() error = %v, want nil", err)
	}

	err = CheckCatalog([]Entry{{Kind: KindEquipment, ID: "1305", Rule: RuleGlobalBan}}, snap)
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) || verrs.Items[0].Reason != ReasonUnknownID {
		t.Errorf("CheckCatalog() error = %v, want unknown-id", err)
	}
}
