package web

import (
	"net/http"

	"github.com/JonMunkholm/costdraft/internal/featured"
)

// handleTeamCost evaluates a team, and optionally an opponent, under both
// rulesets.
func (s *Server) handleTeamCost(w http.ResponseWriter, r *http.Request) {
	var req teamCostRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.service.TeamCost(r.Context(), owner(r), req.toCore())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// matchResponse is returned when a match setup is accepted.
type matchResponse struct {
	Valid  bool                 `json:"valid"`
	Config featured.MatchConfig `json:"config"`
}

// handleValidateMatch checks a featured list, cost profile and breakpoint.
// Rejected lists come back as 422 with one entry per problem.
func (s *Server) handleValidateMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	cfg, err := s.service.StartMatch(r.Context(), owner(r), req.toConfig())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{Valid: true, Config: cfg})
}
