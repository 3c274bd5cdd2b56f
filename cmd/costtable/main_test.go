package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/costdraft/internal/engine"
)

const testCatalog = `{
  "data": {
    "characters": [
      {"code": "1305", "name": "Dr. Ratio", "rarity": 5},
      {"code": "1102", "name": "Seele", "rarity": 5}
    ],
    "lightCones": [
      {"id": "23020", "name": "Baptism of Pure Thought", "subname": "Dr. Ratio", "rarity": 5, "limited": true},
      {"id": "20001", "name": "Arrows", "rarity": 3}
    ]
  }
}`

const testTable = `NAME,Spring Cup
VERSION,2

Characters
code,name,M0,M1,M2,M3,M4,M5,M6
1305,Dr. Ratio,2,2.25,2.5,3,3.5,4,5
1102,Seele,1.25,1.5,2,2,2.5,3,4
,Mystery,1,1,1,1,1,1,1

Light Cones
id,name,subname,P1,P2,P3,P4,P5
23020,Baptism of Pure Thought,Dr. Ratio,0.5,0.75,1,1.25,1.5
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no args", nil, 2},
		{"unknown command", []string{"frobnicate"}, 2},
		{"help", []string{"help"}, 0},
		{"missing catalog", []string{"template"}, 2},
		{"import without file", []string{"import", "-catalog", "x.json"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, tt.args...); code != tt.want {
				t.Errorf("exit code = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestRun_Template(t *testing.T) {
	cat := writeFile(t, "catalog.json", testCatalog)

	code, out, errOut := runCLI(t, "template", "-catalog", cat, "-name", "Blank")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.HasPrefix(out, "NAME,Blank\nVERSION,2\n") {
		t.Errorf("output starts with %q", out[:min(len(out), 30)])
	}
	for _, want := range []string{"1102,Seele,0,0,0,0,0,0,0", "20001,Arrows,,0,0,0,0,0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_Import(t *testing.T) {
	cat := writeFile(t, "catalog.json", testCatalog)
	table := writeFile(t, "table.csv", testTable)

	code, out, errOut := runCLI(t, "import", "-catalog", cat, table)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(errOut, "Spring Cup: 2 characters, 1 light cones updated") {
		t.Errorf("stderr = %q", errOut)
	}
	if !strings.Contains(errOut, `unknown character "Mystery"`) {
		t.Errorf("stderr missing warning: %q", errOut)
	}
	if !strings.Contains(out, "1305,Dr. Ratio,2,2.25,2.5,3,3.5,4,5") {
		t.Errorf("normalized table missing 1305 row:\n%s", out)
	}

	code, out, _ = runCLI(t, "import", "-catalog", cat, "-json", table)
	if code != 0 {
		t.Fatalf("json exit code = %d", code)
	}
	if !strings.Contains(out, `"charactersUpdated": 2`) {
		t.Errorf("json output = %s", out)
	}
}

func TestRun_ImportEmptyFile(t *testing.T) {
	cat := writeFile(t, "catalog.json", testCatalog)
	table := writeFile(t, "empty.csv", "\n\n")

	code, _, errOut := runCLI(t, "import", "-catalog", cat, table)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "IMP003") {
		t.Errorf("stderr = %q, want IMP003", errOut)
	}
}

func TestRun_Cost(t *testing.T) {
	cat := writeFile(t, "catalog.json", testCatalog)
	table := writeFile(t, "table.csv", testTable)

	code, out, errOut := runCLI(t, "cost",
		"-catalog", cat,
		"-profile", table,
		"-team", "1305:0/23020:1,1102:0",
		"-opponent", "1102:0",
	)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	for _, want := range []string{"Dr. Ratio M0", "Baptism of Pure Thought P1", "3.75", "3.5", "0.625"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_CostBadSlots(t *testing.T) {
	cat := writeFile(t, "catalog.json", testCatalog)

	code, _, errOut := runCLI(t, "cost", "-catalog", cat, "-team", "1305:9")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "out of range") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestParseSlots(t *testing.T) {
	tests := []struct {
		in      string
		want    []engine.Slot
		wantErr bool
	}{
		{"", nil, false},
		{"1305:2", []engine.Slot{{CharacterID: "1305", Level: 2}}, false},
		{"1305", []engine.Slot{{CharacterID: "1305"}}, false},
		{"1305:0/23020:3, 1102:6", []engine.Slot{
			{CharacterID: "1305", EquipmentID: "23020", EquipmentLevel: 3},
			{CharacterID: "1102", Level: 6},
		}, false},
		{"1305:0/23020", []engine.Slot{{CharacterID: "1305", EquipmentID: "23020", EquipmentLevel: 1}}, false},
		{"1305:7", nil, true},
		{"1305:0/23020:0", nil, true},
		{"1305:x", nil, true},
		{":1", nil, true},
		{"a,b,c,d,e,f,g,h,i", nil, true},
	}

	for _, tt := range tests {
		got, err := parseSlots(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSlots(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseSlots(%q) = %+v, want %+v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseSlots(%q)[%d] = %+v, want %+v", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
