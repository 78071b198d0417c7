package era

import (
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-0037", "37 BCE"},
		{"-37", "37 BCE"},
		{"0068", "68 CE"},
		{"68", "68 CE"},
		{"+000014", "14 CE"},
		{"-0063-09-23", "63 BCE"},
		{"0014-08-19", "14 CE"},
		{"0117-08-08T00:00:00Z", "117 CE"},
		{"37 BC", "37 BCE"},
		{"37 BCE", "37 BCE"},
		{"14 AD", "14 CE"},
		{"  -0037  ", "37 BCE"},
		{"", Unknown},
		{"   ", Unknown},
		{"not-a-date", Unknown},
		{"0014-13-01", Unknown},
		{"12345678", Unknown},
		{"-", Unknown},
		{"37 BX", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormat_BCEMagnitude(t *testing.T) {
	got := Format("-0037")
	if !strings.HasSuffix(got, "BCE") {
		t.Fatalf("expected BCE suffix, got %q", got)
	}
	if !strings.HasPrefix(got, "37 ") {
		t.Errorf("expected unsigned magnitude 37, got %q", got)
	}
}

func TestYear(t *testing.T) {
	year, ok := Year("-0044-03-15")
	if !ok || year != -44 {
		t.Errorf("Year(-0044-03-15) = %d, %v; want -44, true", year, ok)
	}

	if _, ok := Year("Unknown"); ok {
		t.Error("expected Unknown to be unparseable")
	}
}

func TestFormat_NeverPanics(t *testing.T) {
	inputs := []string{"\x00", "--1", "+", "1-", "BC 37", "9999999-01-01", "٣٧"}
	for _, in := range inputs {
		_ = Format(in)
	}
}
