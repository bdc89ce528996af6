package service

import (
	"context"
	"errors"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidProductOption = errors.New("invalid product option")
	ErrInvalidCategory      = errors.New("invalid product category")
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
)

type ProductListOptions struct {
	Brand         string
	Category      *model.ProductCategory
	Search        string
	Sort          ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductService interface {
	ListProducts(ctx context.Context, opts ProductListOptions) ([]model.Product, error)
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	ImportProducts(ctx context.Context, products []model.Product) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(ctx context.Context, opts ProductListOptions) ([]model.Product, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"brand":    opts.Brand,
		"category": opts.Category,
		"search":   opts.Search,
		"sort":     opts.Sort,
		"limit":    opts.Limit,
		"offset":   opts.Offset,
	})

	if opts.Category != nil && !opts.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	filter := repository.ProductFilter{
		Brand:         opts.Brand,
		Category:      opts.Category,
		Search:        opts.Search,
		SortAscending: opts.SortAscending,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
	}

	switch opts.Sort {
	case ProductSortPrice:
		filter.SortBy = repository.ProductSortPrice
	default:
		filter.SortBy = repository.ProductSortCreatedAt
	}

	products, err := s.productRepo.FindWithFilter(ctx, filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	logger.Info("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *model.Product) error {
	if product.Category != "" && !product.Category.Valid() {
		return ErrInvalidCategory
	}

	logger.Info("Creating product", map[string]interface{}{
		"brand": product.Brand,
		"model": product.Model,
	})

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"brand": product.Brand,
			"model": product.Model,
		})
		return err
	}
	return nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *model.Product) error {
	if product.Category != "" && !product.Category.Valid() {
		return ErrInvalidCategory
	}

	if _, err := s.GetProductByID(ctx, product.ID); err != nil {
		return err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// ImportProducts bulk inserts a catalog. Rows with an unknown category are
// rejected before anything is written.
func (s *productService) ImportProducts(ctx context.Context, products []model.Product) error {
	for i := range products {
		if products[i].Category != "" && !products[i].Category.Valid() {
			logger.Warn("Catalog import rejected: invalid category", map[string]interface{}{
				"row":      i + 1,
				"category": products[i].Category,
			})
			return ErrInvalidCategory
		}
	}
	if len(products) == 0 {
		return nil
	}

	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		return err
	}

	logger.Info("Catalog imported", map[string]interface{}{
		"count": len(products),
	})
	return nil
}
