// Package resolve maps loosely typed spreadsheet labels onto catalog ids.
//
// Matching is deliberately conservative: exact (case-insensitive) and
// normalized-exact lookups only, never edit distance. A label that could
// refer to more than one entry is reported as unresolved rather than
// guessed.
package resolve

import "github.com/JonMunkholm/costdraft/internal/catalog"

// Resolver holds lookup tables built from one catalog snapshot.
// It is immutable after New and safe for concurrent use.
type Resolver struct {
	charByCode      map[string]string
	charByName      map[string]string
	charByNormName  map[string]string
	equipByPair     map[string]string
	equipByNormPair map[string]string
	equipByID       map[string]string
	equipByName     map[string]string
}

// pairKey joins a name and subname into a single map key.
func pairKey(name, subname string) string {
	return name + "\x00" + subname
}

// New builds the lookup tables for snap.
func New(snap *catalog.Snapshot) *Resolver {
	r := &Resolver{
		charByCode: make(map[string]string),
		equipByID:  make(map[string]string),
	}

	names := newUniqueIndex()
	normNames := newUniqueIndex()
	for _, c := range snap.Characters() {
		r.charByCode[fold(c.Code)] = c.Code
		names.add(fold(c.Name), c.Code)
		normNames.add(Normalize(c.Name), c.Code)
	}
	r.charByName = names.unique()
	r.charByNormName = normNames.unique()

	pairs := newUniqueIndex()
	normPairs := newUniqueIndex()
	bareNames := newUniqueIndex()
	for _, e := range snap.Equipment() {
		if n := fold(e.Name); n != "" {
			pairs.add(pairKey(n, fold(e.Subname)), e.ID)
			bareNames.add(n, e.ID)
		}
		if n := Normalize(e.Name); n != "" {
			normPairs.add(pairKey(n, Normalize(e.Subname)), e.ID)
		}
		r.equipByID[fold(e.ID)] = e.ID
	}
	r.equipByPair = pairs.unique()
	r.equipByNormPair = normPairs.unique()
	r.equipByName = bareNames.unique()

	return r
}

// Character resolves a character from an optional code token and an optional
// name token. The code is tried first, then the exact name, then the
// normalized name.
func (r *Resolver) Character(code, name string) (string, bool) {
	if k := fold(code); k != "" {
		if id, ok := r.charByCode[k]; ok {
			return id, true
		}
	}
	if k := fold(name); k != "" {
		if id, ok := r.charByName[k]; ok {
			return id, true
		}
	}
	if k := Normalize(name); k != "" {
		if id, ok := r.charByNormName[k]; ok {
			return id, true
		}
	}
	return "", false
}

// Equipment resolves an equipment entry. Order: exact (name, subname) pair,
// normalized pair, explicit id, and finally the bare name when exactly one
// catalog entry carries it.
func (r *Resolver) Equipment(name, subname, id string) (string, bool) {
	if n := fold(name); n != "" {
		if eid, ok := r.equipByPair[pairKey(n, fold(subname))]; ok {
			return eid, true
		}
	}
	if n := Normalize(name); n != "" {
		if eid, ok := r.equipByNormPair[pairKey(n, Normalize(subname))]; ok {
			return eid, true
		}
	}
	if k := fold(id); k != "" {
		if eid, ok := r.equipByID[k]; ok {
			return eid, true
		}
	}
	if k := fold(name); k != "" {
		if eid, ok := r.equipByName[k]; ok {
			return eid, true
		}
	}
	return "", false
}

// uniqueIndex records which ids each key maps to so that ambiguous keys can
// be dropped.
type uniqueIndex map[string]map[string]struct{}

func newUniqueIndex() uniqueIndex { return make(uniqueIndex) }

func (u uniqueIndex) add(key, id string) {
	if key == "" {
		return
	}
	set, ok := u[key]
	if !ok {
		set = make(map[string]struct{}, 1)
		u[key] = set
	}
	set[id] = struct{}{}
}

// unique returns only the keys that map to exactly one id.
func (u uniqueIndex) unique() map[string]string {
	out := make(map[string]string, len(u))
	for key, set := range u {
		if len(set) != 1 {
			continue
		}
		for id := range set {
			out[key] = id
		}
	}
	return out
}
