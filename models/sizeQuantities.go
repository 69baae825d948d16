package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"bitbucket.org/stepfield/shoes_backend/utils"
)

// SizeQuantities maps a shoe size to how many pairs of that size an
// order line carries. Keys are integers so sizes always sort
// numerically, never lexicographically ("9" before "10").
// Zero and negative quantities are never stored.
type SizeQuantities map[int]int

// Normalize returns a copy with non-positive entries dropped.
func (s SizeQuantities) Normalize() SizeQuantities {
	out := make(SizeQuantities, len(s))
	for size, qty := range s {
		if qty > 0 {
			out[size] = qty
		}
	}
	return out
}

// Total sums the positive quantities.
func (s SizeQuantities) Total() int {
	total := 0
	for _, qty := range s {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

func (s SizeQuantities) sortedSizes() []int {
	sizes := make([]int, 0, len(s))
	for size, qty := range s {
		if qty > 0 {
			sizes = append(sizes, size)
		}
	}
	sort.Ints(sizes)
	return sizes
}

// Note renders the human-readable size breakdown: "40(1), 42(2), 44(1)".
// Always derived, never hand-edited.
func (s SizeQuantities) Note() string {
	parts := make([]string, 0, len(s))
	for _, size := range s.sortedSizes() {
		parts = append(parts, fmt.Sprintf("%d(%d)", size, s[size]))
	}
	return strings.Join(parts, ", ")
}

// Add merges other into s additively and returns the result; neither
// receiver nor argument is mutated. Used for stacking box templates.
func (s SizeQuantities) Add(other SizeQuantities) SizeQuantities {
	out := s.Normalize()
	for size, qty := range other {
		if qty > 0 {
			out[size] += qty
		}
	}
	return out
}

// ParseSizeNote is the inverse of Note.
func ParseSizeNote(note string) (SizeQuantities, error) {
	out := make(SizeQuantities)
	note = strings.TrimSpace(note)
	if note == "" {
		return out, nil
	}
	for _, part := range strings.Split(note, ",") {
		part = strings.TrimSpace(part)
		open := strings.IndexByte(part, '(')
		if open <= 0 || !strings.HasSuffix(part, ")") {
			return nil, utils.NewValidationError("note", "malformed size note: "+part)
		}
		size, err := strconv.Atoi(part[:open])
		if err != nil {
			return nil, utils.NewValidationError("note", "malformed size: "+part)
		}
		qty, err := strconv.Atoi(part[open+1 : len(part)-1])
		if err != nil {
			return nil, utils.NewValidationError("note", "malformed quantity: "+part)
		}
		if qty > 0 {
			out[size] += qty
		}
	}
	return out, nil
}

// gorm stores the map as a JSON column.

func (s SizeQuantities) Value() (driver.Value, error) {
	data, err := json.Marshal(s.Normalize())
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *SizeQuantities) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*s = make(SizeQuantities)
		return nil
	default:
		return errors.New("unsupported type for size quantities")
	}
	return json.Unmarshal(data, s)
}
