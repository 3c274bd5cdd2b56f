package featured

import (
	"errors"
	"fmt"
)

// MaxBreakpoint bounds the cycle breakpoint accepted by MatchConfig.
const MaxBreakpoint = 100

// ErrInvalidBreakpoint is returned for a breakpoint outside 1..MaxBreakpoint.
var ErrInvalidBreakpoint = errors.New("invalid cycle breakpoint")

// MatchConfig is the validated setup handed to the draft flow.
type MatchConfig struct {
	Featured   []Entry `json:"featured"`
	ProfileID  string  `json:"profileId,omitempty"`
	Breakpoint int     `json:"breakpoint"`
}

// Validate checks the breakpoint and the featured list. The featured list
// error, when present, is a *ValidationErrors.
func (c MatchConfig) Validate() error {
	if c.Breakpoint < 1 || c.Breakpoint > MaxBreakpoint {
		return fmt.Errorf("%w: %d", ErrInvalidBreakpoint, c.Breakpoint)
	}
	return Validate(c.Featured)
}
