package preset

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/logging"
	"github.com/JonMunkholm/costdraft/internal/profile"
)

// DefaultMaxPerOwner is the quota used when Policy.MaxPerOwner is unset.
const DefaultMaxPerOwner = 2

// Policy is the per-owner storage policy.
type Policy struct {
	MaxPerOwner int
}

func (p Policy) limit() int {
	if p.MaxPerOwner <= 0 {
		return DefaultMaxPerOwner
	}
	return p.MaxPerOwner
}

// Service applies Policy on top of a Store and reconciles stored profiles
// against the catalog on the way out.
type Service struct {
	store  Store
	policy Policy

	// mu serializes writes so quota and name checks see a stable list.
	mu sync.Mutex

	now   func() time.Time
	newID func() string
}

// NewService returns a Service backed by store.
func NewService(store Store, policy Policy) *Service {
	return &Service{
		store:  store,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

// Limit is the effective per-owner quota.
func (s *Service) Limit() int { return s.policy.limit() }

// List returns every preset of owner, reconciled against snap.
func (s *Service) List(ctx context.Context, owner string, snap *catalog.Snapshot) ([]Record, error) {
	records, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Profile = records[i].Profile.Reconcile(snap)
	}
	return records, nil
}

// Get returns one preset reconciled against snap.
func (s *Service) Get(ctx context.Context, owner, id string, snap *catalog.Snapshot) (Record, error) {
	r, err := s.store.Get(ctx, owner, id)
	if err != nil {
		return Record{}, err
	}
	r.Profile = r.Profile.Reconcile(snap)
	return r, nil
}

// Create stores p as a new preset for owner.
func (s *Service) Create(ctx context.Context, owner string, p profile.Profile) (Record, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Record{}, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.List(ctx, owner)
	if err != nil {
		return Record{}, err
	}
	if len(existing) >= s.policy.limit() {
		return Record{}, fmt.Errorf("%w: %d of %d", ErrQuotaExceeded, len(existing), s.policy.limit())
	}
	if nameTaken(existing, name, "") {
		return Record{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	now := s.now()
	r := Record{
		ID:        s.newID(),
		OwnerID:   owner,
		Profile:   p.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Profile.ID = r.ID
	r.Profile.Name = name

	if err := s.store.Save(ctx, r); err != nil {
		return Record{}, err
	}
	logging.WithFields(ctx, "owner", owner, "preset", r.ID).Info("preset created", "name", name)
	return r, nil
}

// Update replaces the name and matrices of an existing preset.
func (s *Service) Update(ctx context.Context, owner, id string, p profile.Profile) (Record, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Record{}, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.Get(ctx, owner, id)
	if err != nil {
		return Record{}, err
	}
	if !strings.EqualFold(current.Profile.Name, name) {
		existing, err := s.store.List(ctx, owner)
		if err != nil {
			return Record{}, err
		}
		if nameTaken(existing, name, id) {
			return Record{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}

	current.Profile = p.Clone()
	current.Profile.ID = id
	current.Profile.Name = name
	current.UpdatedAt = s.now()

	if err := s.store.Save(ctx, current); err != nil {
		return Record{}, err
	}
	logging.WithFields(ctx, "owner", owner, "preset", id).Info("preset updated", "name", name)
	return current, nil
}

// Rename changes only the name of a preset.
func (s *Service) Rename(ctx context.Context, owner, id, name string) (Record, error) {
	current, err := s.store.Get(ctx, owner, id)
	if err != nil {
		return Record{}, err
	}
	p := current.Profile
	p.Name = name
	return s.Update(ctx, owner, id, p)
}

// Delete removes a preset.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, owner, id); err != nil {
		return err
	}
	logging.WithFields(ctx, "owner", owner, "preset", id).Info("preset deleted")
	return nil
}

// Close closes the underlying store.
func (s *Service) Close() error { return s.store.Close() }

// nameTaken reports whether another record than skipID already uses name.
func nameTaken(records []Record, name, skipID string) bool {
	for _, r := range records {
		if r.ID != skipID && strings.EqualFold(strings.TrimSpace(r.Profile.Name), name) {
			return true
		}
	}
	return false
}
