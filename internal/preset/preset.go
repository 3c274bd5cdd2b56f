// Package preset persists cost profiles per owner.
//
// Stores are plain CRUD; quota and name rules live in Service.
package preset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/JonMunkholm/costdraft/internal/profile"
)

var (
	// ErrNotFound is returned when no preset matches owner and id.
	ErrNotFound = errors.New("preset not found")
	// ErrQuotaExceeded is returned when an owner already has the maximum
	// number of presets.
	ErrQuotaExceeded = errors.New("preset limit reached")
	// ErrDuplicateName is returned when an owner already has a preset with
	// the same name, compared case-insensitively.
	ErrDuplicateName = errors.New("preset name already in use")
	// ErrInvalidName is returned for a blank preset name.
	ErrInvalidName = errors.New("preset name is required")
)

// Record is a stored profile.
type Record struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Profile   profile.Profile `json:"profile"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Name is the profile name.
func (r Record) Name() string { return r.Profile.Name }

// Store persists records. Implementations must be safe for concurrent use.
type Store interface {
	List(ctx context.Context, owner string) ([]Record, error)
	Get(ctx context.Context, owner, id string) (Record, error)
	// Save inserts or replaces the record with r.ID.
	Save(ctx context.Context, r Record) error
	Delete(ctx context.Context, owner, id string) error
	Close() error
}

// matrices is the serialized form of a profile's cost tables.
type matrices struct {
	Characters map[string]profile.CharacterCosts `json:"characters"`
	Equipment  map[string]profile.EquipmentCosts `json:"lightCones"`
}

func encodeMatrices(p profile.Profile) ([]byte, error) {
	data, err := json.Marshal(matrices{Characters: p.Characters, Equipment: p.Equipment})
	if err != nil {
		return nil, fmt.Errorf("encode matrices: %w", err)
	}
	return data, nil
}

func decodeMatrices(data []byte, p *profile.Profile) error {
	var m matrices
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode matrices: %w", err)
	}
	p.Characters = m.Characters
	p.Equipment = m.Equipment
	return nil
}

// sortRecords orders records oldest first, ties by id.
func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
}
