package tabular

import (
	"math"
	"testing"
)

func TestParseQuarter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"empty", "", 0},
		{"dash", "-", 0},
		{"em dash", "\u2014", 0},
		{"integer", "2", 2},
		{"rounds down", "1.3", 1.25},
		{"rounds up", "1.4", 1.5},
		{"negative clamps", "-5", 0},
		{"comma decimal with dot thousands", "1.234,50", 1234.5},
		{"dot decimal with comma thousands", "1,234.50", 1234.5},
		{"lone comma is decimal", "1,234", 1.25},
		{"lone comma simple", "0,5", 0.5},
		{"nbsp thousands", "1\u00a0234,5", 1234.5},
		{"narrow nbsp", "2\u202f000", 2000},
		{"zero width", "1\u200b.75", 1.75},
		{"trailing text", "1.5 pts", 1.5},
		{"leading dot", ".75", 0.75},
		{"garbage", "abc", 0},
		{"infinity", "1e400", 0},
		{"overflows when quantized", "1e308", 0},
		{"overflows near max", "5e307", 0},
		{"exponent", "2.5e1", 25},
		{"surrounding spaces", "  3  ", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQuarter(tt.in); got != tt.want {
				t.Errorf("ParseQuarter(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseQuarter_AlwaysQuantized(t *testing.T) {
	inputs := []string{"0.1", "0.13", "0.37", "9.99", "12,6", "7.125"}
	for _, in := range inputs {
		v := ParseQuarter(in)
		if v*4 != math.Trunc(v*4) {
			t.Errorf("ParseQuarter(%q) = %v, not a multiple of 0.25", in, v)
		}
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.25, "1.25"},
		{1234.5, "1234.5"},
		{3, "3"},
		{math.NaN(), "0"},
		{math.Inf(1), "0"},
	}

	for _, tt := range tests {
		if got := FormatCost(tt.in); got != tt.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
