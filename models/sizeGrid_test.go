package models_test

import (
	"testing"

	"bitbucket.org/stepfield/shoes_backend/models"
	"bitbucket.org/stepfield/shoes_backend/utils"
)

func TestResolveGridForProduct(t *testing.T) {
	bound := &models.SizeGrid{ID: 1, Name: "Men", Min: 40, Max: 45, IsDefault: utils.NewFalse()}
	def := &models.SizeGrid{ID: 2, Name: "Women", Min: 36, Max: 41, IsDefault: utils.NewTrue()}
	other := &models.SizeGrid{ID: 3, Name: "Kids", Min: 28, Max: 35, IsDefault: utils.NewFalse()}
	grids := []*models.SizeGrid{bound, def, other}

	cases := []struct {
		name     string
		product  *models.Product
		grids    []*models.SizeGrid
		expected *models.SizeGrid
	}{
		{"bound grid wins", &models.Product{SizeGridId: 1}, grids, bound},
		{"unbound falls back to default", &models.Product{}, grids, def},
		{"dangling binding falls back to default", &models.Product{SizeGridId: 99}, grids, def},
		{"no default falls back to first", &models.Product{}, []*models.SizeGrid{bound, other}, bound},
		{"nil product falls back to default", nil, grids, def},
		{"empty registry yields nil", &models.Product{}, nil, nil},
	}
	for _, tc := range cases {
		if got := models.ResolveGridForProduct(tc.product, tc.grids); got != tc.expected {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}

func TestPromoteDefaultAfterDelete(t *testing.T) {
	first := &models.SizeGrid{ID: 1, Name: "Men", IsDefault: utils.NewTrue()}
	second := &models.SizeGrid{ID: 2, Name: "Women", IsDefault: utils.NewFalse()}
	third := &models.SizeGrid{ID: 3, Name: "Kids", IsDefault: utils.NewFalse()}

	cases := []struct {
		name      string
		deleted   *models.SizeGrid
		remaining []*models.SizeGrid
		expected  *models.SizeGrid
	}{
		{"deleting the default promotes the lowest id", first, []*models.SizeGrid{third, second}, second},
		{"deleting a non-default promotes nothing", second, []*models.SizeGrid{first, third}, nil},
		{"deleted grid still in the listing is skipped", first, []*models.SizeGrid{first, third}, third},
		{"nothing left to promote", first, nil, nil},
	}
	for _, tc := range cases {
		if got := models.PromoteDefault(tc.deleted, tc.remaining); got != tc.expected {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}
