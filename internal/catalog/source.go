package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// maxPayloadSize bounds catalog payloads read from disk or the network.
const maxPayloadSize = 32 << 20

// Source supplies catalog snapshots on request.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// FileSource reads a catalog JSON document from disk.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (f FileSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseJSON(data)
}

// HTTPSource fetches a catalog JSON document from the Catalog Service.
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// Fetch implements Source.
func (h HTTPSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseJSON(data)
}

// StaticSource always returns the same snapshot. Useful for tests and the CLI.
type StaticSource struct {
	Snapshot *Snapshot
}

// Fetch implements Source.
func (s StaticSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Snapshot == nil {
		return nil, ErrEmptyCatalog
	}
	return s.Snapshot, nil
}
