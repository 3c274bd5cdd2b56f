package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/engine"
	"github.com/JonMunkholm/costdraft/internal/logging"
	"github.com/JonMunkholm/costdraft/internal/preset"
	"github.com/JonMunkholm/costdraft/internal/profile"
	"github.com/JonMunkholm/costdraft/internal/resolve"
	"github.com/JonMunkholm/costdraft/internal/tabular"
)

// DefaultFetchTimeout bounds a catalog fetch when Options.FetchTimeout is unset.
const DefaultFetchTimeout = 15 * time.Second

// Options configures a Service.
type Options struct {
	Source  catalog.Source
	Presets *preset.Service
	Limiter *ImportLimiter

	// FetchTimeout bounds each catalog fetch.
	FetchTimeout time.Duration
	// MaxImportBytes is passed to the tabular importer.
	MaxImportBytes int64
	// Breakpoint is used when a match config leaves it at zero.
	Breakpoint int
	// DefaultCosts is an optional cost table that seeds the default
	// profile. It is re-imported against every new catalog.
	DefaultCosts []byte
}

// catalogState is everything derived from one committed snapshot.
type catalogState struct {
	snap     *catalog.Snapshot
	seq      uint64
	defaults profile.Profile
	loadedAt time.Time
}

// Service is the application facade.
type Service struct {
	opts Options

	mu      sync.RWMutex
	current catalogState

	fetchSeq  atomic.Uint64
	resolvers *cache.Cache
}

// NewService builds a Service. Call RefreshCatalog before serving requests.
func NewService(opts Options) *Service {
	if opts.Limiter == nil {
		opts.Limiter = NewImportLimiter(DefaultMaxConcurrentImports, DefaultMaxWaitTime)
	}
	if opts.Presets == nil {
		opts.Presets = preset.NewService(preset.NewMemoryStore(), preset.Policy{})
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Breakpoint <= 0 {
		opts.Breakpoint = engine.DefaultBreakpoint
	}
	return &Service{
		opts:      opts,
		resolvers: cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Limiter exposes the import limiter for shutdown draining.
func (s *Service) Limiter() *ImportLimiter { return s.opts.Limiter }

// Presets exposes the preset service.
func (s *Service) Presets() *preset.Service { return s.opts.Presets }

// RefreshCatalog fetches a new snapshot and commits it unless a fetch that
// started later has already committed. It returns the snapshot in effect
// after the call.
func (s *Service) RefreshCatalog(ctx context.Context) (*catalog.Snapshot, error) {
	if s.opts.Source == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrCatalogFetch)
	}

	seq := s.fetchSeq.Add(1)
	log := logging.WithFields(ctx, "fetch_seq", seq)

	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	start := time.Now()
	snap, err := s.opts.Source.Fetch(fetchCtx)
	if err != nil {
		log.Error("catalog fetch failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCatalogFetch, err)
	}

	defaults := s.buildDefaults(ctx, snap)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.current.seq {
		log.Info("discarding superseded catalog", "committed_seq", s.current.seq)
		return s.current.snap, nil
	}

	s.current = catalogState{snap: snap, seq: seq, defaults: defaults, loadedAt: time.Now()}
	log.Info("catalog loaded",
		"characters", snap.CharacterCount(),
		"light_cones", snap.EquipmentCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

// buildDefaults imports the configured default cost table against snap, or
// returns a zero-filled baseline.
func (s *Service) buildDefaults(ctx context.Context, snap *catalog.Snapshot) profile.Profile {
	if len(s.opts.DefaultCosts) == 0 {
		return profile.NewBaseline(snap, "Default")
	}
	res, err := tabular.Import(bytes.NewReader(s.opts.DefaultCosts), snap, nil, tabular.Options{Name: "Default"})
	if err != nil {
		logging.FromContext(ctx).Error("default cost table unusable, using zeros", "error", err)
		return profile.NewBaseline(snap, "Default")
	}
	if len(res.Warnings) > 0 {
		logging.FromContext(ctx).Warn("default cost table has unresolved rows", "count", len(res.Warnings))
	}
	return res.Profile
}

func (s *Service) state() (catalogState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.snap == nil {
		return catalogState{}, ErrNoCatalog
	}
	return s.current, nil
}

// Snapshot returns the committed catalog.
func (s *Service) Snapshot() (*catalog.Snapshot, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return st.snap, nil
}

// CatalogInfo describes the committed catalog.
type CatalogInfo struct {
	Generation uint64    `json:"generation"`
	Characters int       `json:"characters"`
	LightCones int       `json:"lightCones"`
	LoadedAt   time.Time `json:"loadedAt"`
}

// Info summarizes the committed catalog.
func (s *Service) Info() (CatalogInfo, error) {
	st, err := s.state()
	if err != nil {
		return CatalogInfo{}, err
	}
	return CatalogInfo{
		Generation: st.seq,
		Characters: st.snap.CharacterCount(),
		LightCones: st.snap.EquipmentCount(),
		LoadedAt:   st.loadedAt,
	}, nil
}

// Resolver returns the resolver for the committed catalog, building it at
// most once per generation.
func (s *Service) Resolver() (*resolve.Resolver, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return s.resolverFor(st), nil
}

func (s *Service) resolverFor(st catalogState) *resolve.Resolver {
	key := strconv.FormatUint(st.seq, 10)
	if v, ok := s.resolvers.Get(key); ok {
		return v.(*resolve.Resolver)
	}
	r := resolve.New(st.snap)
	s.resolvers.SetDefault(key, r)
	return r
}

// ImportOptions controls ImportTable.
type ImportOptions struct {
	// Name is used when the table has no NAME row.
	Name string
	// Save stores the imported profile as a preset.
	Save bool
	// PresetID overwrites an existing preset instead of creating one.
	PresetID string
}

// ImportOutcome is the result of ImportTable.
type ImportOutcome struct {
	Result *tabular.Result
	Record *preset.Record
}

// ImportTable parses a cost table against the committed catalog and
// optionally saves it. Nothing is saved when parsing fails.
func (s *Service) ImportTable(ctx context.Context, owner string, r io.Reader, opts ImportOptions) (*ImportOutcome, error) {
	release, err := s.opts.Limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	st, err := s.state()
	if err != nil {
		return nil, err
	}

	log := logging.WithFields(ctx, "owner", owner)
	start := time.Now()

	res, err := tabular.Import(r, st.snap, s.resolverFor(st), tabular.Options{
		MaxBytes: s.opts.MaxImportBytes,
		Name:     opts.Name,
	})
	if err != nil {
		log.Warn("import rejected", "error", err)
		return nil, err
	}

	log.Info("import parsed",
		"characters", res.CharactersUpdated,
		"light_cones", res.EquipmentUpdated,
		"warnings", len(res.Warnings),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out := &ImportOutcome{Result: res}
	if !opts.Save && opts.PresetID == "" {
		return out, nil
	}

	var rec preset.Record
	if opts.PresetID != "" {
		rec, err = s.opts.Presets.Update(ctx, owner, opts.PresetID, res.Profile)
	} else {
		rec, err = s.opts.Presets.Create(ctx, owner, res.Profile)
	}
	if err != nil {
		return nil, err
	}
	out.Record = &rec
	return out, nil
}

// ExportTable writes a preset as a cost table, or a zero-filled template
// when presetID is empty.
func (s *Service) ExportTable(ctx context.Context, w io.Writer, owner, presetID string) error {
	st, err := s.state()
	if err != nil {
		return err
	}
	if presetID == "" {
		return tabular.Template(w, st.snap, "Template")
	}
	rec, err := s.opts.Presets.Get(ctx, owner, presetID, st.snap)
	if err != nil {
		return err
	}
	return tabular.Export(w, st.snap, rec.Profile)
}

// DefaultProfile returns the default cost table for the committed catalog.
func (s *Service) DefaultProfile() (profile.Profile, error) {
	st, err := s.state()
	if err != nil {
		return profile.Profile{}, err
	}
	return st.defaults.Clone(), nil
}

// ListPresets returns owner's presets reconciled against the catalog.
func (s *Service) ListPresets(ctx context.Context, owner string) ([]preset.Record, error) {
	st, err := s.state()
	if err != nil {
		return nil, err
	}
	return s.opts.Presets.List(ctx, owner, st.snap)
}

// GetPreset returns one preset reconciled against the catalog.
func (s *Service) GetPreset(ctx context.Context, owner, id string) (preset.Record, error) {
	st, err := s.state()
	if err != nil {
		return preset.Record{}, err
	}
	return s.opts.Presets.Get(ctx, owner, id, st.snap)
}

// RenamePreset changes a preset name.
func (s *Service) RenamePreset(ctx context.Context, owner, id, name string) (preset.Record, error) {
	return s.opts.Presets.Rename(ctx, owner, id, name)
}

// DeletePreset removes a preset.
func (s *Service) DeletePreset(ctx context.Context, owner, id string) error {
	return s.opts.Presets.Delete(ctx, owner, id)
}
