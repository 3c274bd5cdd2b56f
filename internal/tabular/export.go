package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/profile"
)

// FormatVersion is written to the VERSION metadata row.
const FormatVersion = "2"

// Section banners and header labels of the cost table format.
const (
	bannerCharacters = "Characters"
	bannerLightCones = "Light Cones"
)

var (
	characterHeader = []string{"code", "name", "M0", "M1", "M2", "M3", "M4", "M5", "M6"}
	equipmentHeader = []string{"id", "name", "subname", "P1", "P2", "P3", "P4", "P5"}
)

// Export writes p as a cost table covering every entry in snap. Entries the
// profile does not set are written as zeros; profile entries that are not in
// snap are not written.
func Export(w io.Writer, snap *catalog.Snapshot, p profile.Profile) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"NAME", cellText(p.Name)},
		{"VERSION", FormatVersion},
		{},
		{bannerCharacters},
		characterHeader,
	}

	for _, c := range snap.SortedCharacters() {
		costs := p.Characters[c.Code]
		rec := make([]string, 0, len(characterHeader))
		rec = append(rec, c.Code, c.Name)
		for _, v := range costs {
			rec = append(rec, FormatCost(v))
		}
		records = append(records, rec)
	}

	records = append(records, []string{}, []string{bannerLightCones}, equipmentHeader)

	for _, e := range snap.SortedEquipment() {
		costs := p.Equipment[e.ID]
		rec := make([]string, 0, len(equipmentHeader))
		rec = append(rec, e.ID, e.Name, e.Subname)
		for _, v := range costs {
			rec = append(rec, FormatCost(v))
		}
		records = append(records, rec)
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write cost table: %w", err)
	}
	return nil
}

// cellText flattens tabs and line breaks to spaces so a metadata cell stays
// on one line and cannot change the sniffed delimiter.
func cellText(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, s)
}

// Template writes a zero-filled cost table for snap.
func Template(w io.Writer, snap *catalog.Snapshot, name string) error {
	return Export(w, snap, profile.NewBaseline(snap, name))
}
