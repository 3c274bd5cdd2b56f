package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/costdraft/internal/core"
	"github.com/JonMunkholm/costdraft/internal/logging"
	"github.com/JonMunkholm/costdraft/internal/tabular"
	"github.com/JonMunkholm/costdraft/internal/web/views"
)

// multipartOverhead is allowed on top of the file size limit for form
// boundaries and the other fields.
const multipartOverhead = 64 << 10

// importResponse is returned by POST /api/import.
type importResponse struct {
	Summary tabular.Summary `json:"summary"`
	Preset  *presetSummary  `json:"preset,omitempty"`
}

// handleImport parses an uploaded cost table. Form fields:
//
//	file      the table (required)
//	name      profile name when the table has no NAME row
//	save      "true" to store the result as a new preset
//	presetId  overwrite this preset instead
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, fmt.Errorf("%w: %v", tabular.ErrTooLarge, err))
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: invalid form: %v", core.ErrInvalidRequest, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: no file provided", core.ErrInvalidRequest))
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		s.respondError(w, r, fmt.Errorf("%w: %d bytes", tabular.ErrTooLarge, header.Size))
		return
	}

	opts := core.ImportOptions{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Save:     formBool(r.FormValue("save")),
		PresetID: strings.TrimSpace(r.FormValue("presetId")),
	}
	if opts.Name == "" {
		opts.Name = strings.TrimSuffix(header.Filename, ".csv")
	}

	logging.FromContext(r.Context()).Debug("import received",
		"filename", header.Filename,
		"size", header.Size,
		"save", opts.Save,
	)

	out, err := s.service.ImportTable(r.Context(), owner(r), file, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := importResponse{Summary: out.Result.Summary(tabular.DefaultSummaryLimit)}
	status := http.StatusOK
	if out.Record != nil {
		sum := summarize(*out.Record)
		resp.Preset = &sum
		if opts.PresetID == "" {
			status = http.StatusCreated
		}
	}

	if isHTMX(r) {
		var id string
		if resp.Preset != nil {
			id = resp.Preset.ID
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := views.ImportSummary(resp.Summary, id).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render import summary", "error", err)
		}
		return
	}
	writeJSON(w, status, resp)
}

// formBool parses a checkbox-style form value.
func formBool(v string) bool {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "on") || strings.EqualFold(v, "yes") {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
