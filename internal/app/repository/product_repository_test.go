package repository

import (
	"context"
	"testing"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return testDB, NewProductRepository(testDB)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	require.NoError(t, repo.CreateBatch(ctx, []model.Product{
		{Brand: "Nike", Model: "Pegasus 40", Category: model.CategoryRunning, Price: 120, Colors: []string{"black"}, Sizes: []string{"41", "42"}},
		{Brand: "Adidas", Model: "Samba", Category: model.CategoryCasual, Price: 90},
		{Brand: "Nike", Model: "Air Force 1", Category: model.CategoryCasual, Price: 110},
	}))

	tests := []struct {
		name   string
		filter ProductFilter
		want   int
	}{
		{"all", ProductFilter{}, 3},
		{"brand case insensitive", ProductFilter{Brand: "nike"}, 2},
		{"category", ProductFilter{Category: func() *model.ProductCategory { c := model.CategoryCasual; return &c }()}, 2},
		{"search model", ProductFilter{Search: "Samba"}, 1},
		{"limit", ProductFilter{Limit: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.FindWithFilter(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, products, tt.want)
		})
	}

	cheapestFirst, err := repo.FindWithFilter(ctx, ProductFilter{SortBy: ProductSortPrice, SortAscending: true})
	require.NoError(t, err)
	assert.Equal(t, "Samba", cheapestFirst[0].Model)
}

func TestProductRepository_StockAndSoftDelete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)
	ctx := context.Background()

	product := &model.Product{Brand: "Puma", Model: "Suede", Price: 80, StockQuantity: 5, Sizes: []string{"40"}}
	require.NoError(t, repo.Create(ctx, product))

	require.NoError(t, repo.UpdateStock(ctx, product.ID, -2))
	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.StockQuantity)
	assert.Equal(t, []string{"40"}, found.Sizes)

	require.NoError(t, repo.Delete(ctx, product.ID))
	_, err = repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(ctx, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
