package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/costdraft/internal/core"
	"github.com/JonMunkholm/costdraft/internal/engine"
	"github.com/JonMunkholm/costdraft/internal/featured"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// renameRequest is the body of PUT /api/presets/{id}.
type renameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// slotRequest is one team member in a team cost request.
type slotRequest struct {
	CharacterID    string `json:"characterId" validate:"max=64"`
	Level          int    `json:"level" validate:"gte=0,lte=6"`
	EquipmentID    string `json:"equipmentId" validate:"max=64"`
	EquipmentLevel int    `json:"equipmentLevel" validate:"gte=0,lte=5"`
}

// teamCostRequest is the body of POST /api/team-cost.
type teamCostRequest struct {
	Team       []slotRequest `json:"team" validate:"max=8,dive"`
	Opponent   []slotRequest `json:"opponent" validate:"max=8,dive"`
	ProfileA   string        `json:"profileA" validate:"max=64"`
	ProfileB   string        `json:"profileB" validate:"max=64"`
	Breakpoint int           `json:"breakpoint" validate:"gte=0,lte=100"`
}

// matchRequest is the body of POST /api/match/validate. Featured entries
// are checked by the featured package so every problem is reported per
// entry.
type matchRequest struct {
	Featured   []featured.Entry `json:"featured" validate:"max=200"`
	ProfileID  string           `json:"profileId" validate:"max=64"`
	Breakpoint int              `json:"breakpoint"`
}

func toSlots(in []slotRequest) []engine.Slot {
	out := make([]engine.Slot, len(in))
	for i, s := range in {
		out[i] = engine.Slot{
			CharacterID:    strings.TrimSpace(s.CharacterID),
			Level:          s.Level,
			EquipmentID:    strings.TrimSpace(s.EquipmentID),
			EquipmentLevel: s.EquipmentLevel,
		}
	}
	return out
}

func (req teamCostRequest) toCore() core.TeamCostRequest {
	return core.TeamCostRequest{
		Team:       toSlots(req.Team),
		Opponent:   toSlots(req.Opponent),
		ProfileA:   req.ProfileA,
		ProfileB:   req.ProfileB,
		Breakpoint: req.Breakpoint,
	}
}

func (req matchRequest) toConfig() featured.MatchConfig {
	return featured.MatchConfig{
		Featured:   req.Featured,
		ProfileID:  req.ProfileID,
		Breakpoint: req.Breakpoint,
	}
}

// decodeJSON reads a JSON body into dst and validates it. Errors wrap
// core.ErrInvalidRequest.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidRequest, describeValidation(err))
	}
	return nil
}

// describeValidation flattens validator errors to "field: tag" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = fe.Namespace() + ": " + fe.Tag()
	}
	return strings.Join(parts, ", ")
}
