package models_test

import (
	"errors"
	"testing"

	"bitbucket.org/stepfield/shoes_backend/models"
	"bitbucket.org/stepfield/shoes_backend/utils"
)

func TestBoxTemplateApplyStacks(t *testing.T) {
	tpl := models.BoxTemplate{
		GridId:  1,
		BoxSize: 6,
		Content: models.SizeQuantities{40: 1, 41: 2, 42: 3},
	}

	current := models.SizeQuantities{40: 1}
	once, err := tpl.Apply(current)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if once[40] != 2 || once[41] != 2 || once[42] != 3 {
		t.Fatalf("unexpected merge: %v", once)
	}

	twice, err := tpl.Apply(once)
	if err != nil {
		t.Fatalf("Apply twice: %v", err)
	}
	if twice[40] != 3 || twice[41] != 4 || twice[42] != 6 {
		t.Fatalf("templates must stack additively: %v", twice)
	}
	// the input map is untouched
	if current[40] != 1 || len(current) != 1 {
		t.Fatalf("Apply mutated its input: %v", current)
	}
}

func TestBoxTemplateApplyIsCommutative(t *testing.T) {
	a := models.BoxTemplate{GridId: 1, BoxSize: 6, Content: models.SizeQuantities{40: 1, 41: 2, 42: 3}}
	b := models.BoxTemplate{GridId: 1, BoxSize: 8, Content: models.SizeQuantities{41: 1, 43: 7}}

	start := models.SizeQuantities{40: 1}

	ab, err := a.Apply(start)
	if err != nil {
		t.Fatalf("apply a: %v", err)
	}
	ab, err = b.Apply(ab)
	if err != nil {
		t.Fatalf("apply b after a: %v", err)
	}

	ba, err := b.Apply(start)
	if err != nil {
		t.Fatalf("apply b: %v", err)
	}
	ba, err = a.Apply(ba)
	if err != nil {
		t.Fatalf("apply a after b: %v", err)
	}

	if len(ab) != len(ba) {
		t.Fatalf("A then B differs from B then A: %v vs %v", ab, ba)
	}
	for size, qty := range ab {
		if ba[size] != qty {
			t.Fatalf("size %d: A then B gives %d, B then A gives %d", size, qty, ba[size])
		}
	}
	if ab[40] != 2 || ab[41] != 3 || ab[42] != 3 || ab[43] != 7 {
		t.Fatalf("unexpected stacked totals: %v", ab)
	}
}

func TestBoxTemplateApplyUnconfigured(t *testing.T) {
	tpl := models.BoxTemplate{GridId: 1, BoxSize: 6}
	if _, err := tpl.Apply(models.SizeQuantities{40: 1}); !errors.Is(err, utils.ErrorNotConfigured) {
		t.Fatalf("empty template expected ErrorNotConfigured, got %v", err)
	}
	tpl.Content = models.SizeQuantities{40: 0}
	if _, err := tpl.Apply(nil); !errors.Is(err, utils.ErrorNotConfigured) {
		t.Fatalf("all-zero template expected ErrorNotConfigured, got %v", err)
	}
}

func TestBoxTemplateIsComplete(t *testing.T) {
	tpl := models.BoxTemplate{
		BoxSize: 6,
		Content: models.SizeQuantities{40: 2, 41: 2, 42: 2},
	}
	if !tpl.IsComplete() {
		t.Fatal("6 pairs in a size-6 box expected complete")
	}
	tpl.Content[42] = 1
	if tpl.IsComplete() {
		t.Fatal("5 pairs in a size-6 box expected incomplete")
	}
}
