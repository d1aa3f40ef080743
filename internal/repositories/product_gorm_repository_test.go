package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRepo opens a fresh in-memory SQLite database for one test. The shared
// cache keeps every pooled connection pointed at the same database.
func setupRepo(t *testing.T) *repositories.GORMProductRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return repositories.NewGORMProductRepository(db)
}

func seed(t *testing.T, repo *repositories.GORMProductRepository, products []models.Product) []models.Product {
	t.Helper()
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}
	return products
}

func TestGORMProductRepository_CreateAssignsIDAndTimestamps(t *testing.T) {
	repo := setupRepo(t)

	p := models.Product{Name: "Laptop", Category: "Electronics", Price: 1200, Qty: 10, Status: "active", Owner: "a@x.com"}
	assert.NoError(t, repo.Create(&p))

	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.False(t, p.UpdatedAt.IsZero())
}

func TestGORMProductRepository_FindAndCount(t *testing.T) {
	repo := setupRepo(t)
	min := 10.0
	max := 20.0

	seed(t, repo, []models.Product{
		{Name: "Foobar", Category: "Misc", Price: 15, Qty: 1, Status: "active", Owner: "a@x.com"},
		{Name: "bar", Category: "Misc", Price: 15, Qty: 1, Status: "active", Owner: "a@x.com"},
		{Name: "plain", Category: "FOO-X", Price: 10, Qty: 1, Status: "archived", Owner: "a@x.com"},
		{Name: "Foo elsewhere", Category: "Misc", Price: 15, Qty: 1, Status: "active", Owner: "b@x.com"},
		{Name: "Foo pricey", Category: "Misc", Price: 100, Qty: 1, Status: "active", Owner: "a@x.com"},
	})

	// Case-insensitive substring over name OR category, scoped to owner,
	// price bounds inclusive.
	filter := repositories.ProductFilter{
		Owner:    "a@x.com",
		Search:   "foo",
		MinPrice: &min,
		MaxPrice: &max,
	}
	items, err := repo.Find(filter, repositories.ProductSort{Field: "price", Desc: false}, 0, 0)
	assert.NoError(t, err)
	if assert.Len(t, items, 2) {
		assert.Equal(t, "plain", items[0].Name)  // price 10, matched via category
		assert.Equal(t, "Foobar", items[1].Name) // price 15
	}

	total, err := repo.Count(filter)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGORMProductRepository_CountIndependentOfPaging(t *testing.T) {
	repo := setupRepo(t)
	var products []models.Product
	for i := 0; i < 25; i++ {
		products = append(products, models.Product{
			Name: fmt.Sprintf("P%02d", i), Category: "C", Price: float64(i), Qty: i, Status: "active", Owner: "a@x.com",
		})
	}
	seed(t, repo, products)

	filter := repositories.ProductFilter{Owner: "a@x.com"}
	sort := repositories.ProductSort{Field: "price", Desc: false}

	page, err := repo.Find(filter, sort, 20, 10)
	assert.NoError(t, err)
	assert.Len(t, page, 5) // last page is short
	assert.Equal(t, "P20", page[0].Name)

	total, err := repo.Count(filter)
	assert.NoError(t, err)
	assert.Equal(t, int64(25), total)
}

func TestGORMProductRepository_SearchEscapesWildcards(t *testing.T) {
	repo := setupRepo(t)
	seed(t, repo, []models.Product{
		{Name: "100% cotton", Category: "Fabric", Price: 5, Qty: 1, Status: "active", Owner: "a@x.com"},
		{Name: "plain shirt", Category: "Fabric", Price: 5, Qty: 1, Status: "active", Owner: "a@x.com"},
	})

	// A literal "%" in the query must not act as a wildcard.
	items, err := repo.Find(
		repositories.ProductFilter{Owner: "a@x.com", Search: "100%"},
		repositories.ProductSort{Field: "name"}, 0, 0,
	)
	assert.NoError(t, err)
	if assert.Len(t, items, 1) {
		assert.Equal(t, "100% cotton", items[0].Name)
	}
}

func TestGORMProductRepository_UpdateOwned(t *testing.T) {
	repo := setupRepo(t)
	products := seed(t, repo, []models.Product{
		{Name: "Mine", Category: "C", Price: 10, Qty: 1, Status: "active", Owner: "a@x.com"},
		{Name: "Theirs", Category: "C", Price: 10, Qty: 1, Status: "active", Owner: "b@x.com"},
	})

	updated, err := repo.UpdateOwned(products[0].ID, "a@x.com", repositories.ProductUpdate{
		Name: "Mine v2", Category: "C", Price: 0, Qty: 0, Status: "archived",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Mine v2", updated.Name)
	// Zero values must land: a price drop to 0 is a legitimate update.
	assert.Equal(t, 0.0, updated.Price)
	assert.Equal(t, 0, updated.Qty)
	assert.Equal(t, "archived", updated.Status)

	// Someone else's record is reported as missing, not as theirs.
	_, err = repo.UpdateOwned(products[1].ID, "a@x.com", repositories.ProductUpdate{
		Name: "Hijack", Category: "C", Price: 1, Qty: 1, Status: "active",
	})
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestGORMProductRepository_UpdateBumpsUpdatedAt(t *testing.T) {
	repo := setupRepo(t)
	products := seed(t, repo, []models.Product{
		{Name: "P", Category: "C", Price: 1, Qty: 1, Status: "active", Owner: "a@x.com"},
	})
	before := products[0].UpdatedAt

	time.Sleep(10 * time.Millisecond)
	updated, err := repo.UpdateOwned(products[0].ID, "a@x.com", repositories.ProductUpdate{
		Name: "P", Category: "C", Price: 2, Qty: 1, Status: "active",
	})
	assert.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(before))
	assert.Equal(t, products[0].CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestGORMProductRepository_DeleteOwnedIdempotent(t *testing.T) {
	repo := setupRepo(t)
	products := seed(t, repo, []models.Product{
		{Name: "P", Category: "C", Price: 1, Qty: 1, Status: "active", Owner: "a@x.com"},
	})

	assert.NoError(t, repo.DeleteOwned(products[0].ID, "a@x.com"))
	assert.NoError(t, repo.DeleteOwned(products[0].ID, "a@x.com"))
	assert.NoError(t, repo.DeleteOwned("never-existed", "a@x.com"))
}

func TestGORMProductRepository_UpdateStatusByIDs(t *testing.T) {
	repo := setupRepo(t)
	products := seed(t, repo, []models.Product{
		{Name: "A", Category: "C", Price: 1, Qty: 1, Status: "archived", Owner: "a@x.com"},
		{Name: "B", Category: "C", Price: 1, Qty: 1, Status: "active", Owner: "a@x.com"},
		{Name: "X", Category: "C", Price: 1, Qty: 1, Status: "active", Owner: "b@x.com"},
	})
	ids := []string{products[0].ID, products[1].ID, products[2].ID}

	result, err := repo.UpdateStatusByIDs(ids, "a@x.com", "archived")
	assert.NoError(t, err)
	// A already archived, B flips, X belongs to someone else.
	assert.Equal(t, int64(2), result.Matched)
	assert.Equal(t, int64(1), result.Modified)

	theirs, err := repo.Find(repositories.ProductFilter{Owner: "b@x.com"}, repositories.ProductSort{Field: "name"}, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, "active", theirs[0].Status)
}

func TestGORMProductRepository_DeleteByIDs(t *testing.T) {
	repo := setupRepo(t)
	products := seed(t, repo, []models.Product{
		{Name: "A", Category: "C", Price: 1, Qty: 1, Status: "active", Owner: "a@x.com"},
		{Name: "B", Category: "C", Price: 1, Qty: 1, Status: "active", Owner: "a@x.com"},
		{Name: "X", Category: "C", Price: 1, Qty: 1, Status: "active", Owner: "b@x.com"},
	})

	deleted, err := repo.DeleteByIDs([]string{products[0].ID, products[1].ID, products[2].ID}, "a@x.com")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.Count(repositories.ProductFilter{Owner: "b@x.com"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), remaining)
}

func TestGORMProductRepository_Stats(t *testing.T) {
	repo := setupRepo(t)
	seed(t, repo, []models.Product{
		{Name: "A", Category: "C", Price: 10, Qty: 5, Status: "active", Owner: "a@x.com"},
		{Name: "B", Category: "C", Price: 2, Qty: 100, Status: "active", Owner: "a@x.com"},
		{Name: "X", Category: "C", Price: 1000, Qty: 1, Status: "active", Owner: "b@x.com"},
	})

	stats, err := repo.Stats("a@x.com")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(105), stats.TotalStock)
	assert.Equal(t, 250.0, stats.TotalValue)
	assert.Equal(t, int64(1), stats.LowStock)
}
