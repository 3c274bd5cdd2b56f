package core

// refresher.go keeps the catalog current in the background.
//
// The loop is long-running and context-aware. A failed refresh is logged
// and the previous snapshot stays in effect.

import (
	"context"
	"log/slog"
	"time"
)

// StartCatalogRefresher refreshes the catalog every interval until ctx is
// cancelled. It does not fetch immediately; callers load the first snapshot
// themselves so startup can fail fast. A non-positive interval returns at once.
func (s *Service) StartCatalogRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	slog.Info("catalog refresher started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog refresher stopped")
			return
		case <-ticker.C:
			if _, err := s.RefreshCatalog(ctx); err != nil {
				slog.Warn("scheduled catalog refresh failed", "error", err)
			}
		}
	}
}
