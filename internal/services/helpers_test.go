package services_test

import (
	"fmt"
	"testing"

	"gudang/internal/models"
	"gudang/internal/repositories"
)

// newSeededRepo returns an in-memory repository with a known inventory:
// twelve active and two archived records for alice, plus one record for bob
// that must never leak into alice's results.
func newSeededRepo(t *testing.T) *repositories.MockProductRepository {
	t.Helper()
	repo := repositories.NewMockProductRepository()

	for i := 0; i < 12; i++ {
		p := models.Product{
			Name:     fmt.Sprintf("Widget %02d", i),
			Category: "Tools",
			Price:    float64(10 + i),
			Qty:      5 * i,
			Status:   models.StatusActive,
			Owner:    "alice@example.com",
		}
		if err := repo.Create(&p); err != nil {
			t.Fatalf("seeding product: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		p := models.Product{
			Name:     fmt.Sprintf("Retired %d", i),
			Category: "Legacy",
			Price:    1,
			Qty:      0,
			Status:   models.StatusArchived,
			Owner:    "alice@example.com",
		}
		if err := repo.Create(&p); err != nil {
			t.Fatalf("seeding product: %v", err)
		}
	}
	bob := models.Product{
		Name:     "bob-only",
		Category: "Private",
		Price:    99,
		Qty:      1,
		Status:   models.StatusActive,
		Owner:    "bob@example.com",
	}
	if err := repo.Create(&bob); err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return repo
}

// ownedIDs lists the ids of every record the owner can see, newest first.
func ownedIDs(t *testing.T, repo repositories.ProductRepository, owner string) []string {
	t.Helper()
	items, err := repo.Find(
		repositories.ProductFilter{Owner: owner},
		repositories.ProductSort{Field: "created_at", Desc: true},
		0, 0,
	)
	if err != nil {
		t.Fatalf("listing products: %v", err)
	}
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}

func floatPtr(f float64) *float64 { return &f }
