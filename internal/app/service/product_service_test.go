package service

import (
	"context"
	"testing"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CRUD(t *testing.T) {
	r := setupRepos(t)
	svc := NewProductService(r.products)
	ctx := context.Background()

	product := &model.Product{
		Brand:    "Nike",
		Model:    "Air Max",
		Category: model.CategoryCasual,
		Price:    180,
		Sizes:    []string{"40", "41"},
	}
	require.NoError(t, svc.CreateProduct(ctx, product))
	assert.NotZero(t, product.ID)

	bad := &model.Product{Brand: "X", Model: "Y", Category: "slippers", Price: 1}
	assert.ErrorIs(t, svc.CreateProduct(ctx, bad), ErrInvalidCategory)

	got, err := svc.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"40", "41"}, got.Sizes)

	got.Price = 150
	require.NoError(t, svc.UpdateProduct(ctx, got))

	missing := &model.Product{ID: 9999, Brand: "X", Model: "Y"}
	assert.ErrorIs(t, svc.UpdateProduct(ctx, missing), ErrProductNotFound)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))
	_, err = svc.GetProductByID(ctx, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, product.ID), ErrProductNotFound)
}

func TestProductService_ListProducts(t *testing.T) {
	r := setupRepos(t)
	svc := NewProductService(r.products)
	ctx := context.Background()

	require.NoError(t, svc.ImportProducts(ctx, []model.Product{
		{Brand: "Nike", Model: "Pegasus", Category: model.CategoryRunning, Price: 120},
		{Brand: "Nike", Model: "Oxford", Category: model.CategoryFormal, Price: 90},
		{Brand: "Bata", Model: "Comfit", Category: model.CategorySandals, Price: 30},
	}))

	running := model.CategoryRunning
	tests := []struct {
		name      string
		opts      ProductListOptions
		wantCount int
		wantFirst string
	}{
		{name: "all", opts: ProductListOptions{}, wantCount: 3},
		{name: "by brand", opts: ProductListOptions{Brand: "Nike"}, wantCount: 2},
		{name: "by category", opts: ProductListOptions{Category: &running}, wantCount: 1, wantFirst: "Pegasus"},
		{name: "cheapest first", opts: ProductListOptions{Sort: ProductSortPrice, SortAscending: true}, wantCount: 3, wantFirst: "Comfit"},
		{name: "limit", opts: ProductListOptions{Sort: ProductSortPrice, Limit: 1}, wantCount: 1, wantFirst: "Pegasus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := svc.ListProducts(ctx, tt.opts)
			require.NoError(t, err)
			assert.Len(t, products, tt.wantCount)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, products[0].Model)
			}
		})
	}

	invalid := model.ProductCategory("hats")
	_, err := svc.ListProducts(ctx, ProductListOptions{Category: &invalid})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
