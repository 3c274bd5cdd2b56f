package tabular

// DefaultSummaryLimit caps each unresolved list in a Summary.
const DefaultSummaryLimit = 20

// Summary is the display form of an import Result.
type Summary struct {
	Name                 string    `json:"name"`
	Version              string    `json:"version,omitempty"`
	CharactersUpdated    int       `json:"charactersUpdated"`
	EquipmentUpdated     int       `json:"lightConesUpdated"`
	IgnoredRows          int       `json:"ignoredRows"`
	UnresolvedCharacters []Warning `json:"unresolvedCharacters"`
	UnresolvedEquipment  []Warning `json:"unresolvedLightCones"`
	MoreCharacters       int       `json:"moreCharacters"`
	MoreEquipment        int       `json:"moreLightCones"`
}

// Summary splits the warnings by section and caps each list at limit
// entries. A limit of zero or less uses DefaultSummaryLimit.
func (r *Result) Summary(limit int) Summary {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}

	s := Summary{
		Name:                 r.Profile.Name,
		Version:              r.Version,
		CharactersUpdated:    r.CharactersUpdated,
		EquipmentUpdated:     r.EquipmentUpdated,
		IgnoredRows:          r.IgnoredRows,
		UnresolvedCharacters: []Warning{},
		UnresolvedEquipment:  []Warning{},
	}

	for _, w := range r.Warnings {
		switch w.Section {
		case SectionCharacters:
			if len(s.UnresolvedCharacters) < limit {
				s.UnresolvedCharacters = append(s.UnresolvedCharacters, w)
			} else {
				s.MoreCharacters++
			}
		case SectionLightCones:
			if len(s.UnresolvedEquipment) < limit {
				s.UnresolvedEquipment = append(s.UnresolvedEquipment, w)
			} else {
				s.MoreEquipment++
			}
		}
	}
	return s
}

// HasWarnings reports whether any row failed to resolve.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
