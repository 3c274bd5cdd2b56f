// Package featured validates featured-item lists and the match setup built
// from them.
package featured

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/profile"
)

// Kind is the catalog category an entry references.
type Kind string

const (
	KindCharacter Kind = "character"
	KindEquipment Kind = "equipment"
)

// Rule is the special draft handling of a featured entry.
type Rule string

const (
	RuleNone       Rule = "none"
	RuleGlobalBan  Rule = "globalBan"
	RuleGlobalPick Rule = "globalPick"
)

// Reasons reported in ValidationError.
const (
	ReasonIncomplete         = "incomplete"
	ReasonPickOnEquipment    = "pick-on-equipment"
	ReasonNegativeCustomCost = "negative-custom-cost"
	ReasonUnknownRule        = "unknown-rule"
	ReasonUnknownKind        = "unknown-kind"
	ReasonMissingID          = "missing-id"
	ReasonUnknownID          = "unknown-id"
)

// ErrInvalidCosts is returned by ValidateCosts.
var ErrInvalidCosts = errors.New("profile has invalid costs")

// Entry is one featured character or equipment item.
type Entry struct {
	Kind       Kind     `json:"kind"`
	ID         string   `json:"id"`
	Rule       Rule     `json:"rule"`
	CustomCost *float64 `json:"customCost,omitempty"`
}

// Complete reports whether the entry carries a rule or a custom cost.
func (e Entry) Complete() bool {
	return (e.Rule != "" && e.Rule != RuleNone) || e.CustomCost != nil
}

// ValidationError identifies one offending entry.
type ValidationError struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("featured[%d] %s %q: %s", e.Index, e.Kind, e.ID, e.Reason)
}

// ValidationErrors collects every problem found in a list.
type ValidationErrors struct {
	Items []ValidationError `json:"items"`
}

func (v *ValidationErrors) Error() string {
	msgs := make([]string, len(v.Items))
	for i, item := range v.Items {
		msgs[i] = item.Error()
	}
	return "invalid featured list: " + strings.Join(msgs, "; ")
}

// Indexes returns the positions of the offending entries in order.
func (v *ValidationErrors) Indexes() []int {
	out := make([]int, 0, len(v.Items))
	for _, item := range v.Items {
		if len(out) == 0 || out[len(out)-1] != item.Index {
			out = append(out, item.Index)
		}
	}
	return out
}

// Validate checks every entry and returns nil or a *ValidationErrors. An
// entry may be reported for more than one reason.
func Validate(entries []Entry) error {
	var errs ValidationErrors
	add := func(i int, e Entry, reason string) {
		errs.Items = append(errs.Items, ValidationError{Index: i, ID: e.ID, Kind: e.Kind, Reason: reason})
	}

	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			add(i, e, ReasonMissingID)
		}

		switch e.Kind {
		case KindCharacter, KindEquipment:
		default:
			add(i, e, ReasonUnknownKind)
		}

		switch e.Rule {
		case "", RuleNone, RuleGlobalBan:
		case RuleGlobalPick:
			if e.Kind == KindEquipment {
				add(i, e, ReasonPickOnEquipment)
			}
		default:
			add(i, e, ReasonUnknownRule)
		}

		if e.CustomCost != nil && (*e.CustomCost < 0 || math.IsNaN(*e.CustomCost) || math.IsInf(*e.CustomCost, 0)) {
			add(i, e, ReasonNegativeCustomCost)
		}

		if !e.Complete() {
			add(i, e, ReasonIncomplete)
		}
	}

	if len(errs.Items) == 0 {
		return nil
	}
	return &errs
}

// CheckCatalog reports entries whose id is not in snap.
func CheckCatalog(entries []Entry, snap *catalog.Snapshot) error {
	var errs ValidationErrors
	for i, e := range entries {
		var found bool
		switch e.Kind {
		case KindCharacter:
			_, found = snap.Character(e.ID)
		case KindEquipment:
			_, found = snap.Item(e.ID)
		default:
			continue
		}
		if !found && e.ID != "" {
			errs.Items = append(errs.Items, ValidationError{Index: i, ID: e.ID, Kind: e.Kind, Reason: ReasonUnknownID})
		}
	}
	if len(errs.Items) == 0 {
		return nil
	}
	return &errs
}

// ValidateCosts rejects negative or non-finite matrix values. Values read by
// the tabular importer are always valid; this guards profiles assembled by
// other means.
func ValidateCosts(p profile.Profile) error {
	var bad []string
	for code, m := range p.Characters {
		for lvl, v := range m {
			if !validCost(v) {
				bad = append(bad, fmt.Sprintf("character %s M%d", code, lvl))
			}
		}
	}
	for id, m := range p.Equipment {
		for i, v := range m {
			if !validCost(v) {
				bad = append(bad, fmt.Sprintf("equipment %s P%d", id, i+1))
			}
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidCosts, strings.Join(bad, ", "))
}

func validCost(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
