package web

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/JonMunkholm/costdraft/internal/core"
)

// healthResponse is returned by GET /healthz.
type healthResponse struct {
	Status  string             `json:"status"`
	Catalog *core.CatalogInfo  `json:"catalog,omitempty"`
	Imports core.LimiterStatus `json:"imports"`
}

// handleHealth reports readiness. The service is degraded until the first
// catalog fetch succeeds.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Imports: s.service.Limiter().Status()}
	info, err := s.service.Info()
	if err != nil {
		resp.Status = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Catalog = &info
	writeJSON(w, http.StatusOK, resp)
}

// handleCatalog returns the catalog summary.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Info()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleRefreshCatalog fetches the catalog now. On failure the previous
// catalog stays in effect.
func (s *Server) handleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if _, err := s.service.RefreshCatalog(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	info, err := s.service.Info()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleTemplate downloads a zero-filled cost table for the current catalog.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.service.ExportTable(r.Context(), &buf, owner(r), ""); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeCSV(w, "cost-template.csv", buf.Bytes())
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// csvFilename derives a download name from a profile name.
func csvFilename(name string) string {
	base := strings.Trim(unsafeFilename.ReplaceAllString(name, "-"), "-.")
	if base == "" {
		base = "costs"
	}
	if len(base) > 64 {
		base = base[:64]
	}
	return base + ".csv"
}

// writeCSV sends data as a CSV attachment.
func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
