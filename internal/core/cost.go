package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/costdraft/internal/engine"
	"github.com/JonMunkholm/costdraft/internal/featured"
	"github.com/JonMunkholm/costdraft/internal/logging"
	"github.com/JonMunkholm/costdraft/internal/profile"
)

// MaxTeamSlots bounds the slots accepted per team.
const MaxTeamSlots = 8

// TeamCostRequest asks for the cost of a team, and optionally of an
// opponent, under both rulesets.
type TeamCostRequest struct {
	Team     []engine.Slot
	Opponent []engine.Slot
	// ProfileA and ProfileB select stored presets as the cost source of
	// each ruleset. Empty means the default cost table.
	ProfileA   string
	ProfileB   string
	Breakpoint int
}

// SideTotals is one side of a TeamCostResult.
type SideTotals struct {
	A engine.RulesetTotal `json:"a"`
	B engine.RulesetTotal `json:"b"`
}

// TeamCostResult holds per-slot breakdowns and totals for both rulesets.
type TeamCostResult struct {
	Team     SideTotals  `json:"team"`
	Opponent *SideTotals `json:"opponent,omitempty"`
	// CycleAdvantageA and CycleAdvantageB convert team minus opponent
	// totals into cycles. Zero without an opponent.
	CycleAdvantageA float64 `json:"cycleAdvantageA"`
	CycleAdvantageB float64 `json:"cycleAdvantageB"`
	Breakpoint      int     `json:"breakpoint"`
}

// Rulesets builds Ruleset A (matrix equipment pricing) and Ruleset B
// (limited schedule) from the selected cost sources.
func (s *Service) Rulesets(ctx context.Context, owner, profileA, profileB string) (engine.Ruleset, engine.Ruleset, error) {
	a, err := s.costSource(ctx, owner, profileA)
	if err != nil {
		return engine.Ruleset{}, engine.Ruleset{}, err
	}
	b, err := s.costSource(ctx, owner, profileB)
	if err != nil {
		return engine.Ruleset{}, engine.Ruleset{}, err
	}
	return engine.Ruleset{Name: "A", Characters: a, Equipment: a, EquipmentRule: engine.RuleMatrix},
		engine.Ruleset{Name: "B", Characters: b, Equipment: b, EquipmentRule: engine.RuleLimitedSchedule},
		nil
}

func (s *Service) costSource(ctx context.Context, owner, presetID string) (profile.Profile, error) {
	if presetID == "" {
		return s.DefaultProfile()
	}
	rec, err := s.GetPreset(ctx, owner, presetID)
	if err != nil {
		return profile.Profile{}, err
	}
	return rec.Profile, nil
}

// TeamCost evaluates req under both rulesets.
func (s *Service) TeamCost(ctx context.Context, owner string, req TeamCostRequest) (TeamCostResult, error) {
	if len(req.Team) > MaxTeamSlots || len(req.Opponent) > MaxTeamSlots {
		return TeamCostResult{}, fmt.Errorf("%w: at most %d slots per team", ErrInvalidRequest, MaxTeamSlots)
	}

	snap, err := s.Snapshot()
	if err != nil {
		return TeamCostResult{}, err
	}
	a, b, err := s.Rulesets(ctx, owner, req.ProfileA, req.ProfileB)
	if err != nil {
		return TeamCostResult{}, err
	}

	bp := req.Breakpoint
	if bp <= 0 {
		bp = s.opts.Breakpoint
	}

	eng := engine.New(snap)
	cmp := eng.Compare(req.Team, a, b)
	out := TeamCostResult{
		Team:       SideTotals{A: cmp.A, B: cmp.B},
		Breakpoint: bp,
	}
	if len(req.Opponent) > 0 {
		opp := eng.Compare(req.Opponent, a, b)
		out.Opponent = &SideTotals{A: opp.A, B: opp.B}
		out.CycleAdvantageA = eng.CycleAdvantage(req.Team, req.Opponent, a, bp)
		out.CycleAdvantageB = eng.CycleAdvantage(req.Team, req.Opponent, b, bp)
	}
	return out, nil
}

// StartMatch validates a match setup and returns it with defaults filled
// in. The featured list is checked for completeness and catalog membership,
// and the selected profile for invalid cost values.
func (s *Service) StartMatch(ctx context.Context, owner string, cfg featured.MatchConfig) (featured.MatchConfig, error) {
	if cfg.Breakpoint == 0 {
		cfg.Breakpoint = s.opts.Breakpoint
	}
	if err := cfg.Validate(); err != nil {
		return featured.MatchConfig{}, err
	}

	snap, err := s.Snapshot()
	if err != nil {
		return featured.MatchConfig{}, err
	}
	if err := featured.CheckCatalog(cfg.Featured, snap); err != nil {
		return featured.MatchConfig{}, err
	}

	p, err := s.costSource(ctx, owner, cfg.ProfileID)
	if err != nil {
		return featured.MatchConfig{}, err
	}
	if err := featured.ValidateCosts(p); err != nil {
		return featured.MatchConfig{}, err
	}

	logging.WithFields(ctx, "owner", owner).Info("match setup accepted",
		"featured", len(cfg.Featured),
		"profile", cfg.ProfileID,
		"breakpoint", cfg.Breakpoint,
	)
	return cfg, nil
}
