package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/costdraft/internal/core"
	"github.com/JonMunkholm/costdraft/internal/preset"
	"github.com/JonMunkholm/costdraft/internal/profile"
)

// presetSummary is a preset without its matrices.
type presetSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Characters int       `json:"characters"`
	LightCones int       `json:"lightCones"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// presetDetail is a preset with its matrices.
type presetDetail struct {
	presetSummary
	Costs profile.Profile `json:"costs"`
}

// presetList is returned by GET /api/presets.
type presetList struct {
	Presets []presetSummary `json:"presets"`
	Limit   int             `json:"limit"`
}

func summarize(rec preset.Record) presetSummary {
	return presetSummary{
		ID:         rec.ID,
		Name:       rec.Name(),
		Characters: len(rec.Profile.Characters),
		LightCones: len(rec.Profile.Equipment),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

// presetID reads the {id} route parameter.
func presetID(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return "", fmt.Errorf("%w: missing preset id", core.ErrInvalidRequest)
	}
	return id, nil
}

// handleListPresets lists the owner's presets.
func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListPresets(r.Context(), owner(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resp := presetList{
		Presets: make([]presetSummary, 0, len(records)),
		Limit:   s.service.Presets().Limit(),
	}
	for _, rec := range records {
		resp.Presets = append(resp.Presets, summarize(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetPreset returns one preset with its matrices.
func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	id, err := presetID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	rec, err := s.service.GetPreset(r.Context(), owner(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presetDetail{presetSummary: summarize(rec), Costs: rec.Profile})
}

// handleRenamePreset renames a preset.
func (s *Server) handleRenamePreset(w http.ResponseWriter, r *http.Request) {
	id, err := presetID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req renameRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	rec, err := s.service.RenamePreset(r.Context(), owner(r), id, req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(rec))
}

// handleDeletePreset removes a preset.
func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	id, err := presetID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.service.DeletePreset(r.Context(), owner(r), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportPreset downloads a preset as a cost table.
func (s *Server) handleExportPreset(w http.ResponseWriter, r *http.Request) {
	id, err := presetID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	rec, err := s.service.GetPreset(r.Context(), owner(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := s.service.ExportTable(r.Context(), &buf, owner(r), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeCSV(w, csvFilename(rec.Name()), buf.Bytes())
}
