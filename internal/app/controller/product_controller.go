package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/service"
	apperrors "github.com/stepup/stepup-backend/internal/errors"
	"github.com/stepup/stepup-backend/internal/middleware"
)

const maxCatalogUploadBytes = 10 << 20

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type CreateProductRequest struct {
	Brand         string                `json:"brand" binding:"required"`
	Model         string                `json:"model" binding:"required"`
	Description   string                `json:"description"`
	Category      model.ProductCategory `json:"category" binding:"required"`
	Price         float64               `json:"price" binding:"required,gt=0"`
	Colors        []string              `json:"colors"`
	Sizes         []string              `json:"sizes"`
	StockQuantity int                   `json:"stockQuantity" binding:"gte=0"`
	ImageURL      string                `json:"imageUrl"`
}

type UpdateProductRequest struct {
	Brand         *string                `json:"brand"`
	Model         *string                `json:"model"`
	Description   *string                `json:"description"`
	Category      *model.ProductCategory `json:"category"`
	Price         *float64               `json:"price" binding:"omitempty,gt=0"`
	Colors        []string               `json:"colors"`
	Sizes         []string               `json:"sizes"`
	StockQuantity *int                   `json:"stockQuantity" binding:"omitempty,gte=0"`
	ImageURL      *string                `json:"imageUrl"`
}

// GetProducts lists the catalog
// GET /api/product?brand=&category=&search=&sort=price|created_at&order=asc|desc&limit=&offset=
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	opts := service.ProductListOptions{
		Brand:         c.Query("brand"),
		Search:        c.Query("search"),
		Sort:          service.ProductSort(c.Query("sort")),
		SortAscending: c.Query("order") == "asc",
	}
	if category := c.Query("category"); category != "" {
		pc := model.ProductCategory(category)
		opts.Category = &pc
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		opts.Offset = offset
	}

	products, err := ctrl.productService.ListProducts(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err, "list products")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID returns a single product
// GET /api/product/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get product")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"product": product})
}

// CreateProduct adds a product (admin only)
// POST /api/product
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product := &model.Product{
		Brand:         req.Brand,
		Model:         req.Model,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		Colors:        req.Colors,
		Sizes:         req.Sizes,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	}
	if err := ctrl.productService.CreateProduct(c.Request.Context(), product); err != nil {
		respondError(c, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})

	respondOK(c, http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct patches a product (admin only)
// PUT /api/product/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := ctrl.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get product")
		return
	}

	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Model != nil {
		product.Model = *req.Model
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Colors != nil {
		product.Colors = req.Colors
	}
	if req.Sizes != nil {
		product.Sizes = req.Sizes
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := ctrl.productService.UpdateProduct(c.Request.Context(), product); err != nil {
		respondError(c, err, "update product")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"product": product})
}

// DeleteProduct soft-deletes a product (admin only)
// DELETE /api/product/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err, "delete product")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// ImportCatalog bulk loads products from an uploaded XLSX sheet (admin only)
// POST /api/product/import  multipart field "file"
func (ctrl *ProductController) ImportCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fh, err := c.FormFile("file")
	if err != nil {
		apperrors.RespondWithValidationError(c, "file is required", map[string]string{"file": "file is required"})
		return
	}
	if fh.Size > maxCatalogUploadBytes {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Catalog file is too large")
		return
	}

	f, err := fh.Open()
	if err != nil {
		log.Error("Failed to open catalog upload", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	products, skipped, err := service.ReadCatalog(f)
	if err != nil {
		log.Warn("Catalog file rejected", map[string]interface{}{
			"filename": fh.Filename,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Catalog must be an XLSX sheet with the expected columns")
		return
	}

	if err := ctrl.productService.ImportProducts(c.Request.Context(), products); err != nil {
		respondError(c, err, "create product")
		return
	}

	log.Info("Catalog imported via upload", map[string]interface{}{
		"imported": len(products),
		"skipped":  skipped,
	})

	respondOK(c, http.StatusCreated, gin.H{
		"imported": len(products),
		"skipped":  skipped,
	})
}
