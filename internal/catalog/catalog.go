// Package catalog holds immutable snapshots of the character and equipment
// catalog that every other package works against.
//
// A Snapshot is built once from whatever the Catalog Service returned and is
// never mutated afterwards. Callers that fetch a newer catalog build a new
// Snapshot and swap it in as a whole.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyCatalog is returned when a payload yields no characters and no equipment.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Character is a playable character entry.
type Character struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Subname  string `json:"subname,omitempty"`
	Rarity   int    `json:"rarity"`
	ImageRef string `json:"imageRef,omitempty"`
}

// Equipment is an equippable item (light cone) entry.
type Equipment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Subname  string `json:"subname,omitempty"`
	Rarity   int    `json:"rarity"`
	Limited  bool   `json:"limited"`
	ImageRef string `json:"imageRef,omitempty"`
}

// Snapshot is a read-only view of the catalog at one point in time.
type Snapshot struct {
	characters []Character
	equipment  []Equipment
	charIdx    map[string]int
	equipIdx   map[string]int
}

// New builds a snapshot. Codes and ids must be non-empty and unique.
func New(characters []Character, equipment []Equipment) (*Snapshot, error) {
	s := &Snapshot{
		characters: make([]Character, len(characters)),
		equipment:  make([]Equipment, len(equipment)),
		charIdx:    make(map[string]int, len(characters)),
		equipIdx:   make(map[string]int, len(equipment)),
	}
	copy(s.characters, characters)
	copy(s.equipment, equipment)

	for i, c := range s.characters {
		if strings.TrimSpace(c.Code) == "" {
			return nil, fmt.Errorf("character %d: empty code", i)
		}
		if _, dup := s.charIdx[c.Code]; dup {
			return nil, fmt.Errorf("duplicate character code %q", c.Code)
		}
		s.charIdx[c.Code] = i
	}
	for i, e := range s.equipment {
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("equipment %d: empty id", i)
		}
		if _, dup := s.equipIdx[e.ID]; dup {
			return nil, fmt.Errorf("duplicate equipment id %q", e.ID)
		}
		s.equipIdx[e.ID] = i
	}
	return s, nil
}

// Characters returns a copy of the character entries in catalog order.
func (s *Snapshot) Characters() []Character {
	if s == nil {
		return nil
	}
	out := make([]Character, len(s.characters))
	copy(out, s.characters)
	return out
}

// Equipment returns a copy of the equipment entries in catalog order.
func (s *Snapshot) Equipment() []Equipment {
	if s == nil {
		return nil
	}
	out := make([]Equipment, len(s.equipment))
	copy(out, s.equipment)
	return out
}

// Character looks up a character by exact code.
func (s *Snapshot) Character(code string) (Character, bool) {
	if s == nil {
		return Character{}, false
	}
	i, ok := s.charIdx[code]
	if !ok {
		return Character{}, false
	}
	return s.characters[i], true
}

// Item looks up an equipment entry by exact id.
func (s *Snapshot) Item(id string) (Equipment, bool) {
	if s == nil {
		return Equipment{}, false
	}
	i, ok := s.equipIdx[id]
	if !ok {
		return Equipment{}, false
	}
	return s.equipment[i], true
}

// CharacterCount returns the number of characters.
func (s *Snapshot) CharacterCount() int {
	if s == nil {
		return 0
	}
	return len(s.characters)
}

// EquipmentCount returns the number of equipment entries.
func (s *Snapshot) EquipmentCount() int {
	if s == nil {
		return 0
	}
	return len(s.equipment)
}

// SortedCharacters returns characters ordered by display name, then code.
func (s *Snapshot) SortedCharacters() []Character {
	out := s.Characters()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// SortedEquipment returns equipment ordered by display name, subname, then id.
func (s *Snapshot) SortedEquipment() []Equipment {
	out := s.Equipment()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		as, bs := strings.ToLower(out[i].Subname), strings.ToLower(out[j].Subname)
		if as != bs {
			return as < bs
		}
		return out[i].ID < out[j].ID
	})
	return out
}
