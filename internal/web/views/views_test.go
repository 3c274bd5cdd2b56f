package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/costdraft/internal/tabular"
)

func TestErrorAlert_Escapes(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorAlert("<b>bad</b>", "", "IMP001").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := buf.String()
	if strings.Contains(got, "<b>") {
		t.Errorf("message not escaped: %s", got)
	}
	if strings.Contains(got, "alert-action") {
		t.Errorf("empty action rendered: %s", got)
	}
	if !strings.Contains(got, "Code: IMP001") {
		t.Errorf("code missing: %s", got)
	}
}

func TestImportSummary(t *testing.T) {
	s := tabular.Summary{
		Name:              "Cup & Co",
		CharactersUpdated: 3,
		EquipmentUpdated:  1,
		UnresolvedCharacters: []tabular.Warning{
			{Section: tabular.SectionCharacters, Label: "Nobody", Row: 7},
		},
		MoreCharacters: 2,
	}

	var buf bytes.Buffer
	if err := ImportSummary(s, "p-1").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"Cup &amp; Co",
		"Characters updated: 3",
		"Light cones updated: 1",
		"Nobody <span class=\"row\">row 7</span>",
		"and 2 more",
		`data-preset-id="p-1"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Unknown light cones") {
		t.Errorf("empty equipment list rendered:\n%s", got)
	}
	if strings.Contains(got, "Rows ignored") {
		t.Errorf("zero ignored rows rendered:\n%s", got)
	}
}
