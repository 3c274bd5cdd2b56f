// Package profile defines cost matrices and cost profiles.
//
// A Profile maps every catalog character to a 7-level cost matrix and every
// equipment entry to a 5-level matrix. Outside of in-memory editing a
// profile always covers exactly the current catalog; use Reconcile to bring
// a profile built against an older catalog up to date.
package profile

import "github.com/JonMunkholm/costdraft/internal/catalog"

const (
	// CharacterLevels is the number of character upgrade ranks (0..6).
	CharacterLevels = 7
	// EquipmentLevels is the number of equipment upgrade ranks (1..5).
	EquipmentLevels = 5
)

// CharacterCosts holds one cost per character rank, indexed by rank 0..6.
type CharacterCosts [CharacterLevels]float64

// EquipmentCosts holds one cost per equipment rank, index 0 is rank 1.
type EquipmentCosts [EquipmentLevels]float64

// Profile is a named set of cost matrices.
type Profile struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	Characters map[string]CharacterCosts `json:"characters"`
	Equipment  map[string]EquipmentCosts `json:"lightCones"`
}

// NewBaseline returns a zero-filled profile covering every entry in snap.
func NewBaseline(snap *catalog.Snapshot, name string) Profile {
	p := Profile{
		Name:       name,
		Characters: make(map[string]CharacterCosts, snap.CharacterCount()),
		Equipment:  make(map[string]EquipmentCosts, snap.EquipmentCount()),
	}
	for _, c := range snap.Characters() {
		p.Characters[c.Code] = CharacterCosts{}
	}
	for _, e := range snap.Equipment() {
		p.Equipment[e.ID] = EquipmentCosts{}
	}
	return p
}

// Reconcile returns a copy of p covering exactly the ids in snap. Entries
// missing from p are zero-filled; entries no longer in snap are dropped.
func (p Profile) Reconcile(snap *catalog.Snapshot) Profile {
	out := NewBaseline(snap, p.Name)
	out.ID = p.ID
	for code := range out.Characters {
		if costs, ok := p.Characters[code]; ok {
			out.Characters[code] = costs
		}
	}
	for id := range out.Equipment {
		if costs, ok := p.Equipment[id]; ok {
			out.Equipment[id] = costs
		}
	}
	return out
}

// Complete reports whether p covers exactly the ids in snap.
func (p Profile) Complete(snap *catalog.Snapshot) bool {
	if len(p.Characters) != snap.CharacterCount() || len(p.Equipment) != snap.EquipmentCount() {
		return false
	}
	for code := range p.Characters {
		if _, ok := snap.Character(code); !ok {
			return false
		}
	}
	for id := range p.Equipment {
		if _, ok := snap.Item(id); !ok {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	out := Profile{
		ID:         p.ID,
		Name:       p.Name,
		Characters: make(map[string]CharacterCosts, len(p.Characters)),
		Equipment:  make(map[string]EquipmentCosts, len(p.Equipment)),
	}
	for k, v := range p.Characters {
		out.Characters[k] = v
	}
	for k, v := range p.Equipment {
		out.Equipment[k] = v
	}
	return out
}

// SetCharacter overwrites the matrix for code.
func (p *Profile) SetCharacter(code string, costs CharacterCosts) {
	if p.Characters == nil {
		p.Characters = make(map[string]CharacterCosts)
	}
	p.Characters[code] = costs
}

// SetEquipment overwrites the matrix for id.
func (p *Profile) SetEquipment(id string, costs EquipmentCosts) {
	if p.Equipment == nil {
		p.Equipment = make(map[string]EquipmentCosts)
	}
	p.Equipment[id] = costs
}

// CharacterMatrix returns the matrix for code.
func (p Profile) CharacterMatrix(code string) (CharacterCosts, bool) {
	c, ok := p.Characters[code]
	return c, ok
}

// EquipmentMatrix returns the matrix for id.
func (p Profile) EquipmentMatrix(id string) (EquipmentCosts, bool) {
	e, ok := p.Equipment[id]
	return e, ok
}
