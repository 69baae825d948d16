package models

import "testing"

func TestNewSizeGridParse(t *testing.T) {
	cases := []struct {
		min, max string
		ok       bool
	}{
		{"40", "45", true},
		{"40", "40", true},
		{"45", "40", false},
		{"forty", "45", false},
		{"40", "", false},
	}
	for _, tc := range cases {
		input := NewSizeGrid{Name: "Men", Min: tc.min, Max: tc.max}
		_, _, err := input.parse()
		if tc.ok && err != nil {
			t.Fatalf("parse(%q, %q) unexpected error: %v", tc.min, tc.max, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("parse(%q, %q) expected error", tc.min, tc.max)
		}
	}
}
