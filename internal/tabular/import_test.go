package tabular

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/profile"
)

func testSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()
	snap, err := catalog.New(
		[]catalog.Character{
			{Code: "1305", Name: "Dr. Ratio", Rarity: 5},
			{Code: "1102", Name: "Seele", Rarity: 5},
			{Code: "8001", Name: "Trailblazer", Subname: "Destruction", Rarity: 5},
			{Code: "8003", Name: "Trailblazer", Subname: "Preservation", Rarity: 5},
		},
		[]catalog.Equipment{
			{ID: "23020", Name: "Baptism of Pure Thought", Subname: "Dr. Ratio", Rarity: 5, Limited: true},
			{ID: "20001", Name: "Arrows", Rarity: 3},
			{ID: "21000", Name: "Cone", Subname: "Alpha", Rarity: 4},
			{ID: "21001", Name: "Cone", Subname: "Beta", Rarity: 4},
		},
	)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return snap
}

func sampleProfile(snap *catalog.Snapshot) profile.Profile {
	p := profile.NewBaseline(snap, "Tournament, Spring")
	p.SetCharacter("1305", profile.CharacterCosts{2, 2.25, 2.5, 3, 3.5, 4, 5})
	p.SetCharacter("8003", profile.CharacterCosts{0.5, 0.5, 0.75, 0.75, 1, 1, 1.25})
	p.SetEquipment("23020", profile.EquipmentCosts{0.5, 0.75, 1, 1.25, 1.5})
	p.SetEquipment("21001", profile.EquipmentCosts{0.25, 0.25, 0.25, 0.5, 0.5})
	return p
}

func mustImport(t *testing.T, in string, snap *catalog.Snapshot) *Result {
	t.Helper()
	res, err := Import(strings.NewReader(in), snap, nil, Options{})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	return res
}

func TestExport_Layout(t *testing.T) {
	snap := testSnapshot(t)
	var buf bytes.Buffer
	if err := Export(&buf, snap, sampleProfile(snap)); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		`NAME,"Tournament, Spring"`,
		"VERSION,2",
		"",
		"Characters",
		"code,name,M0,M1,M2,M3,M4,M5,M6",
		"1305,Dr. Ratio,2,2.25,2.5,3,3.5,4,5",
		"1102,Seele,0,0,0,0,0,0,0",
		"8001,Trailblazer,0,0,0,0,0,0,0",
		"8003,Trailblazer,0.5,0.5,0.75,0.75,1,1,1.25",
		"",
		"Light Cones",
		"id,name,subname,P1,P2,P3,P4,P5",
		"20001,Arrows,,0,0,0,0,0",
		"23020,Baptism of Pure Thought,Dr. Ratio,0.5,0.75,1,1.25,1.5",
		"21000,Cone,Alpha,0,0,0,0,0",
		"21001,Cone,Beta,0.25,0.25,0.25,0.5,0.5",
	}
	if len(lines) != len(want) {
		t.Fatalf("Export() wrote %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i+1, lines[i], want[i])
		}
	}
}

func TestImport_RoundTrip(t *testing.T) {
	snap := testSnapshot(t)
	orig := sampleProfile(snap)

	var buf bytes.Buffer
	if err := Export(&buf, snap, orig); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	res := mustImport(t, buf.String(), snap)
	if res.Profile.Name != orig.Name {
		t.Errorf("Profile.Name = %q, want %q", res.Profile.Name, orig.Name)
	}
	if res.Version != FormatVersion {
		t.Errorf("Version = %q, want %q", res.Version, FormatVersion)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
	if res.CharactersUpdated != 4 || res.EquipmentUpdated != 4 {
		t.Errorf("updated = %d/%d, want 4/4", res.CharactersUpdated, res.EquipmentUpdated)
	}
	for code, want := range orig.Characters {
		if got := res.Profile.Characters[code]; got != want {
			t.Errorf("Characters[%s] = %v, want %v", code, got, want)
		}
	}
	for id, want := range orig.Equipment {
		if got := res.Profile.Equipment[id]; got != want {
			t.Errorf("Equipment[%s] = %v, want %v", id, got, want)
		}
	}
}

func TestImport_RoundTripNameWithTab(t *testing.T) {
	snap := testSnapshot(t)
	orig := sampleProfile(snap)
	orig.Name = "Team\tA"

	var buf bytes.Buffer
	if err := Export(&buf, snap, orig); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	res := mustImport(t, buf.String(), snap)
	if res.Profile.Name != "Team A" {
		t.Errorf("Profile.Name = %q, want %q", res.Profile.Name, "Team A")
	}
	if res.CharactersUpdated != 4 {
		t.Errorf("CharactersUpdated = %d, want 4", res.CharactersUpdated)
	}
	for code, want := range orig.Characters {
		if got := res.Profile.Characters[code]; got != want {
			t.Errorf("Characters[%s] = %v, want %v", code, got, want)
		}
	}
}

func TestImport_QuotedTabInName(t *testing.T) {
	snap := testSnapshot(t)
	in := "NAME,\"Team\tA\"\n\nCharacters\ncode,name,M0,M1,M2,M3,M4,M5,M6\n1305,Dr. Ratio,1,1,1,1,1,1,1\n"

	res := mustImport(t, in, snap)
	want := profile.CharacterCosts{1, 1, 1, 1, 1, 1, 1}
	if got := res.Profile.Characters["1305"]; got != want {
		t.Errorf("Characters[1305] = %v, want %v", got, want)
	}
}

func TestImport_Idempotent(t *testing.T) {
	snap := testSnapshot(t)

	var first bytes.Buffer
	if err := Export(&first, snap, sampleProfile(snap)); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	a := mustImport(t, first.String(), snap)

	var second bytes.Buffer
	if err := Export(&second, snap, a.Profile); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("re-export differs:\n%s\n---\n%s", first.String(), second.String())
	}

	b := mustImport(t, first.String(), snap)
	for code, want := range a.Profile.Characters {
		if got := b.Profile.Characters[code]; got != want {
			t.Errorf("second import Characters[%s] = %v, want %v", code, got, want)
		}
	}
}

func TestImport_ColumnOrderAndDelimiter(t *testing.T) {
	snap := testSnapshot(t)
	in := strings.Join([]string{
		"M6;M5;M4;M3;M2;M1;M0;Name",
		"6;5;4;3;2;1;0,5;dr ratio",
		"P5;P4;P3;P2;P1;Subname;Name",
		"1;1;1;1;0,25;beta;CONE",
	}, "\n")

	res := mustImport(t, in, snap)
	wantChar := profile.CharacterCosts{0.5, 1, 2, 3, 4, 5, 6}
	if got := res.Profile.Characters["1305"]; got != wantChar {
		t.Errorf("Characters[1305] = %v, want %v", got, wantChar)
	}
	wantEquip := profile.EquipmentCosts{0.25, 1, 1, 1, 1}
	if got := res.Profile.Equipment["21001"]; got != wantEquip {
		t.Errorf("Equipment[21001] = %v, want %v", got, wantEquip)
	}
}

func TestImport_RepeatedSectionsReuseHeader(t *testing.T) {
	snap := testSnapshot(t)
	in := strings.Join([]string{
		"Characters",
		"name,m0,m1,m2,m3,m4,m5,m6",
		"Seele,1,1,1,1,1,1,1",
		"",
		"Light Cones",
		"id,p1,p2,p3,p4,p5",
		"20001,1,2,3,4,5",
		"",
		"Characters",
		"Dr. Ratio,2,2,2,2,2,2,2",
		"LightCone",
		"21000,0.5,0.5,0.5,0.5,0.5",
	}, "\n")

	res := mustImport(t, in, snap)
	if got := res.Profile.Characters["1305"][0]; got != 2 {
		t.Errorf("Characters[1305][0] = %v, want 2", got)
	}
	if got := res.Profile.Equipment["21000"][4]; got != 0.5 {
		t.Errorf("Equipment[21000][4] = %v, want 0.5", got)
	}
	if res.CharactersUpdated != 2 || res.EquipmentUpdated != 2 {
		t.Errorf("updated = %d/%d, want 2/2", res.CharactersUpdated, res.EquipmentUpdated)
	}
}

func TestImport_Warnings(t *testing.T) {
	snap := testSnapshot(t)
	in := strings.Join([]string{
		"orphan,row,before,header",
		"name,m0,m1,m2,m3,m4,m5,m6",
		"Nobody,1,1,1,1,1,1,1",
		"Trailblazer,1,1,1,1,1,1,1",
		"name,subname,p1,p2,p3,p4,p5",
		"Cone,,1,1,1,1,1",
		"Arrows,,1,1,1,1,1",
	}, "\n")

	res := mustImport(t, in, snap)
	if res.IgnoredRows != 1 {
		t.Errorf("IgnoredRows = %d, want 1", res.IgnoredRows)
	}

	want := []Warning{
		{Section: SectionCharacters, Label: "Nobody", Row: 3},
		{Section: SectionCharacters, Label: "Trailblazer", Row: 4},
		{Section: SectionLightCones, Label: "Cone", Row: 6},
	}
	if len(res.Warnings) != len(want) {
		t.Fatalf("Warnings = %v, want %v", res.Warnings, want)
	}
	for i := range want {
		if res.Warnings[i] != want[i] {
			t.Errorf("Warnings[%d] = %+v, want %+v", i, res.Warnings[i], want[i])
		}
	}
	if res.EquipmentUpdated != 1 {
		t.Errorf("EquipmentUpdated = %d, want 1", res.EquipmentUpdated)
	}
}

func TestImport_DropsStaleIDs(t *testing.T) {
	snap := testSnapshot(t)
	in := strings.Join([]string{
		"code,name,m0,m1,m2,m3,m4,m5,m6",
		"9999,Retired,1,1,1,1,1,1,1",
		"1102,Seele,1,1,1,1,1,1,1",
	}, "\n")

	res := mustImport(t, in, snap)
	if _, ok := res.Profile.Characters["9999"]; ok {
		t.Error("Characters contains stale id 9999")
	}
	if !res.Profile.Complete(snap) {
		t.Error("Profile.Complete() = false, want true")
	}
}

func TestImport_FatalErrors(t *testing.T) {
	snap := testSnapshot(t)

	tests := []struct {
		name    string
		in      string
		opts    Options
		wantErr error
	}{
		{"empty", "", Options{}, ErrEmptyFile},
		{"blank lines only", "\n , \n", Options{}, ErrEmptyFile},
		{"too large", strings.Repeat("x", 64), Options{MaxBytes: 32}, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Import(strings.NewReader(tt.in), snap, nil, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Import() error = %v, want %v", err, tt.wantErr)
			}
			if res != nil {
				t.Errorf("Import() result = %+v, want nil", res)
			}
		})
	}
}

func TestImport_NameFallback(t *testing.T) {
	snap := testSnapshot(t)
	res, err := Import(strings.NewReader("code,m0,m1,m2,m3,m4,m5,m6\n1102,1,1,1,1,1,1,1"), snap, nil, Options{Name: "upload.csv"})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Profile.Name != "upload.csv" {
		t.Errorf("Profile.Name = %q, want %q", res.Profile.Name, "upload.csv")
	}
}

func TestResult_Summary(t *testing.T) {
	res := &Result{
		Warnings: []Warning{
			{Section: SectionCharacters, Label: "a", Row: 1},
			{Section: SectionCharacters, Label: "b", Row: 2},
			{Section: SectionCharacters, Label: "c", Row: 3},
			{Section: SectionLightCones, Label: "d", Row: 4},
		},
	}

	s := res.Summary(2)
	if len(s.UnresolvedCharacters) != 2 || s.MoreCharacters != 1 {
		t.Errorf("characters = %d (+%d), want 2 (+1)", len(s.UnresolvedCharacters), s.MoreCharacters)
	}
	if len(s.UnresolvedEquipment) != 1 || s.MoreEquipment != 0 {
		t.Errorf("equipment = %d (+%d), want 1 (+0)", len(s.UnresolvedEquipment), s.MoreEquipment)
	}
}
