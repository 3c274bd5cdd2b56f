package tabular

// import.go turns a cost table back into a profile.
//
// Rows are classified by their labels, never by their position. The parser
// is a small state machine over two dimensions:
//
//	section: none | characters | lightCones
//	header:  known | unknown   (per section, remembered across banners)
//
// Header rows are recognized by the presence of their required labels in any
// column order. Once seen, a header mapping stays in force for its section
// until another header for that section replaces it, and it is restored when
// a later banner re-enters the section.

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/profile"
	"github.com/JonMunkholm/costdraft/internal/resolve"
)

var (
	reMetaName      = regexp.MustCompile(`(?i)^name$`)
	reMetaVersion   = regexp.MustCompile(`(?i)^version$`)
	reBannerChars   = regexp.MustCompile(`(?i)^characters$`)
	reBannerCones   = regexp.MustCompile(`(?i)^light ?cones?$`)
	characterLevels = []string{"m0", "m1", "m2", "m3", "m4", "m5", "m6"}
	equipmentLevels = []string{"p1", "p2", "p3", "p4", "p5"}
)

// Section identifies which block of the table a row belongs to.
type Section int

const (
	SectionNone Section = iota
	SectionCharacters
	SectionLightCones
)

func (s Section) String() string {
	switch s {
	case SectionCharacters:
		return "characters"
	case SectionLightCones:
		return "lightCones"
	default:
		return "none"
	}
}

// MarshalText encodes the section by name.
func (s Section) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a section name. Unknown names decode to SectionNone.
func (s *Section) UnmarshalText(b []byte) error {
	switch string(b) {
	case "characters":
		*s = SectionCharacters
	case "lightCones":
		*s = SectionLightCones
	default:
		*s = SectionNone
	}
	return nil
}

// Options tunes an import.
type Options struct {
	// MaxBytes limits the input size. Zero means DefaultMaxBytes.
	MaxBytes int64
	// Name is used when the table has no NAME metadata row.
	Name string
}

// Warning describes a data row that could not be matched to the catalog.
type Warning struct {
	Section Section `json:"kind"`
	Label   string  `json:"label"`
	Row     int     `json:"row"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (row %d)", w.Label, w.Row)
}

// Result is the outcome of an import pass.
type Result struct {
	Profile           profile.Profile
	Name              string
	Version           string
	CharactersUpdated int
	EquipmentUpdated  int
	IgnoredRows       int
	Warnings          []Warning
}

// characterColumns is the column mapping of a character header row.
type characterColumns struct {
	code   int
	name   int
	levels [profile.CharacterLevels]int
}

// equipmentColumns is the column mapping of an equipment header row.
type equipmentColumns struct {
	id      int
	name    int
	subname int
	levels  [profile.EquipmentLevels]int
}

// parseState is the row classifier state.
type parseState struct {
	section    Section
	charCols   *characterColumns
	equipCols  *equipmentColumns
	updatedCh  map[string]struct{}
	updatedEq  map[string]struct{}
	result     *Result
	resolver   *resolve.Resolver
	hasVersion bool
}

// headerKnown reports whether the active section has a header mapping.
func (s *parseState) headerKnown() bool {
	switch s.section {
	case SectionCharacters:
		return s.charCols != nil
	case SectionLightCones:
		return s.equipCols != nil
	default:
		return false
	}
}

// Import parses a cost table and overlays every resolved row onto a
// zero-filled baseline of snap. Unresolved rows become warnings. If res is
// nil a resolver is built from snap.
//
// Only unreadable, oversized or empty input is an error; in that case no
// result is returned.
func Import(r io.Reader, snap *catalog.Snapshot, res *resolve.Resolver, opts Options) (*Result, error) {
	data, err := readInput(r, opts.MaxBytes)
	if err != nil {
		return nil, err
	}

	rows, err := SplitRows(data, SniffDelimiter(data))
	if err != nil {
		return nil, err
	}

	nonBlank := 0
	for _, row := range rows {
		if !isBlankRow(row.Fields) {
			nonBlank++
		}
	}
	if nonBlank == 0 {
		return nil, ErrEmptyFile
	}

	if res == nil {
		res = resolve.New(snap)
	}

	state := &parseState{
		updatedCh: make(map[string]struct{}),
		updatedEq: make(map[string]struct{}),
		resolver:  res,
		result: &Result{
			Profile: profile.NewBaseline(snap, opts.Name),
		},
	}

	for _, row := range rows {
		state.consume(row)
	}

	result := state.result
	if result.Name != "" {
		result.Profile.Name = result.Name
	}
	result.CharactersUpdated = len(state.updatedCh)
	result.EquipmentUpdated = len(state.updatedEq)
	return result, nil
}

// consume classifies one row and applies it.
func (s *parseState) consume(row Row) {
	if isBlankRow(row.Fields) {
		return
	}

	labels := make([]string, len(row.Fields))
	for i, f := range row.Fields {
		labels[i] = strings.ToLower(CleanCell(f))
	}

	if cols, ok := matchCharacterHeader(labels); ok {
		s.section = SectionCharacters
		s.charCols = cols
		return
	}
	if cols, ok := matchEquipmentHeader(labels); ok {
		s.section = SectionLightCones
		s.equipCols = cols
		return
	}

	first := labels[0]
	switch {
	case reMetaName.MatchString(first):
		s.result.Name = cell(row.Fields, 1)
		return
	case reMetaVersion.MatchString(first):
		s.result.Version = cell(row.Fields, 1)
		return
	case reBannerChars.MatchString(first):
		s.section = SectionCharacters
		return
	case reBannerCones.MatchString(first):
		s.section = SectionLightCones
		return
	}

	if !s.headerKnown() {
		s.result.IgnoredRows++
		return
	}

	switch s.section {
	case SectionCharacters:
		s.applyCharacter(row)
	case SectionLightCones:
		s.applyEquipment(row)
	}
}

func (s *parseState) applyCharacter(row Row) {
	cols := s.charCols
	code := cell(row.Fields, cols.code)
	name := cell(row.Fields, cols.name)
	if code == "" && name == "" {
		s.result.IgnoredRows++
		return
	}

	id, ok := s.resolver.Character(code, name)
	if !ok {
		label := name
		if label == "" {
			label = code
		}
		s.result.Warnings = append(s.result.Warnings, Warning{Section: SectionCharacters, Label: label, Row: row.Line})
		return
	}

	var costs profile.CharacterCosts
	for i, pos := range cols.levels {
		costs[i] = ParseQuarter(cell(row.Fields, pos))
	}
	s.result.Profile.SetCharacter(id, costs)
	s.updatedCh[id] = struct{}{}
}

func (s *parseState) applyEquipment(row Row) {
	cols := s.equipCols
	id := cell(row.Fields, cols.id)
	name := cell(row.Fields, cols.name)
	subname := cell(row.Fields, cols.subname)
	if id == "" && name == "" {
		s.result.IgnoredRows++
		return
	}

	eid, ok := s.resolver.Equipment(name, subname, id)
	if !ok {
		label := name
		switch {
		case label == "":
			label = id
		case subname != "":
			label = fmt.Sprintf("%s (%s)", name, subname)
		}
		s.result.Warnings = append(s.result.Warnings, Warning{Section: SectionLightCones, Label: label, Row: row.Line})
		return
	}

	var costs profile.EquipmentCosts
	for i, pos := range cols.levels {
		costs[i] = ParseQuarter(cell(row.Fields, pos))
	}
	s.result.Profile.SetEquipment(eid, costs)
	s.updatedEq[eid] = struct{}{}
}

// headerIndex maps lowercased labels to their first column.
func headerIndex(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, seen := idx[l]; !seen && l != "" {
			idx[l] = i
		}
	}
	return idx
}

func lookup(idx map[string]int, label string) int {
	if pos, ok := idx[label]; ok {
		return pos
	}
	return -1
}

// matchCharacterHeader recognizes m0..m6 plus name or code.
func matchCharacterHeader(labels []string) (*characterColumns, bool) {
	idx := headerIndex(labels)
	cols := &characterColumns{code: lookup(idx, "code"), name: lookup(idx, "name")}
	if cols.code < 0 && cols.name < 0 {
		return nil, false
	}
	for i, l := range characterLevels {
		pos := lookup(idx, l)
		if pos < 0 {
			return nil, false
		}
		cols.levels[i] = pos
	}
	return cols, true
}

// matchEquipmentHeader recognizes p1..p5 plus name or id.
func matchEquipmentHeader(labels []string) (*equipmentColumns, bool) {
	idx := headerIndex(labels)
	cols := &equipmentColumns{id: lookup(idx, "id"), name: lookup(idx, "name"), subname: lookup(idx, "subname")}
	if cols.id < 0 && cols.name < 0 {
		return nil, false
	}
	for i, l := range equipmentLevels {
		pos := lookup(idx, l)
		if pos < 0 {
			return nil, false
		}
		cols.levels[i] = pos
	}
	return cols, true
}
