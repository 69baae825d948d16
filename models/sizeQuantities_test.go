package models_test

import (
	"testing"

	"bitbucket.org/stepfield/shoes_backend/models"
)

func TestSizeNoteSortsNumerically(t *testing.T) {
	s := models.SizeQuantities{10: 1, 9: 2, 40: 3}
	if got := s.Note(); got != "9(2), 10(1), 40(3)" {
		t.Fatalf("expected numeric order, got %q", got)
	}
}

func TestSizeNoteRoundTrip(t *testing.T) {
	s := models.SizeQuantities{40: 1, 42: 2, 44: 1}
	note := s.Note()
	if note != "40(1), 42(2), 44(1)" {
		t.Fatalf("unexpected note %q", note)
	}
	parsed, err := models.ParseSizeNote(note)
	if err != nil {
		t.Fatalf("ParseSizeNote(%q): %v", note, err)
	}
	if len(parsed) != len(s) {
		t.Fatalf("round trip lost entries: %v vs %v", parsed, s)
	}
	for size, qty := range s {
		if parsed[size] != qty {
			t.Fatalf("size %d expected %d, got %d", size, qty, parsed[size])
		}
	}
}

func TestParseSizeNoteRejectsMalformed(t *testing.T) {
	for _, note := range []string{"40", "40(", "(1)", "40(x)", "forty(1)"} {
		if _, err := models.ParseSizeNote(note); err == nil {
			t.Fatalf("ParseSizeNote(%q) expected error", note)
		}
	}
	if parsed, err := models.ParseSizeNote("  "); err != nil || len(parsed) != 0 {
		t.Fatalf("blank note expected empty map, got %v, %v", parsed, err)
	}
}

func TestNormalizeDropsNonPositive(t *testing.T) {
	s := models.SizeQuantities{40: 1, 41: 0, 42: -3}
	out := s.Normalize()
	if len(out) != 1 || out[40] != 1 {
		t.Fatalf("expected {40:1}, got %v", out)
	}
	if s.Total() != 1 {
		t.Fatalf("Total expected 1, got %d", s.Total())
	}
}

func TestAddIsAdditiveAndNonMutating(t *testing.T) {
	base := models.SizeQuantities{40: 1}
	box := models.SizeQuantities{40: 2, 41: 1}
	out := base.Add(box)
	if out[40] != 3 || out[41] != 1 {
		t.Fatalf("expected {40:3 41:1}, got %v", out)
	}
	if base[40] != 1 || len(base) != 1 {
		t.Fatalf("receiver mutated: %v", base)
	}
}
