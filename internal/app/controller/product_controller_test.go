package controller

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/app/service"
	apperrors "github.com/stepup/stepup-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupProductControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB := setupControllerDB(t)

	ctrl := NewProductController(service.NewProductService(repository.NewProductRepository(testDB)))

	router := gin.New()
	router.GET("/product", ctrl.GetProducts)
	router.GET("/product/:id", ctrl.GetProductByID)

	admin := router.Group("/product", asUser(1, model.RoleAdmin))
	admin.POST("", ctrl.CreateProduct)
	admin.POST("/import", ctrl.ImportCatalog)
	admin.PUT("/:id", ctrl.UpdateProduct)
	admin.DELETE("/:id", ctrl.DeleteProduct)

	return router, testDB
}

func seedCatalog(t *testing.T, testDB *gorm.DB) []model.Product {
	t.Helper()
	products := []model.Product{
		{Brand: "Nike", Model: "Air Zoom", Category: model.CategoryRunning, Price: 150, StockQuantity: 5},
		{Brand: "Nike", Model: "Court Vision", Category: model.CategoryCasual, Price: 90, StockQuantity: 5},
		{Brand: "Clarks", Model: "Tilden", Category: model.CategoryFormal, Price: 110, StockQuantity: 5},
	}
	require.NoError(t, testDB.Create(&products).Error)
	return products
}

func TestProductController_GetProducts(t *testing.T) {
	router, testDB := setupProductControllerTest(t)
	seedCatalog(t, testDB)

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{"all", "", 3},
		{"by brand", "?brand=Nike", 2},
		{"by category", "?category=formal", 1},
		{"search model", "?search=zoom", 1},
		{"limit", "?limit=2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodGet, "/product"+tt.query, nil)

			requireStatus(t, w, http.StatusOK)
			assert.Equal(t, float64(tt.wantCount), decodeBody(t, w)["count"])
		})
	}
}

func TestProductController_GetProducts_SortByPrice(t *testing.T) {
	router, testDB := setupProductControllerTest(t)
	seedCatalog(t, testDB)

	w := performJSON(router, http.MethodGet, "/product?sort=price&order=asc", nil)

	requireStatus(t, w, http.StatusOK)
	products := decodeBody(t, w)["products"].([]interface{})
	require.Len(t, products, 3)
	assert.Equal(t, float64(90), products[0].(map[string]interface{})["price"])
	assert.Equal(t, float64(150), products[2].(map[string]interface{})["price"])
}

func TestProductController_GetProducts_InvalidCategory(t *testing.T) {
	router, _ := setupProductControllerTest(t)

	w := performJSON(router, http.MethodGet, "/product?category=slippers", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_GetProductByID(t *testing.T) {
	router, testDB := setupProductControllerTest(t)
	products := seedCatalog(t, testDB)

	w := performJSON(router, http.MethodGet, fmt.Sprintf("/product/%d", products[0].ID), nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Air Zoom", decodeBody(t, w)["product"].(map[string]interface{})["model"])

	w = performJSON(router, http.MethodGet, "/product/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ProductNotFound, errorCode(t, w))
}

func TestProductController_CreateProduct(t *testing.T) {
	router, _ := setupProductControllerTest(t)

	t.Run("success", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/product", CreateProductRequest{
			Brand:         "Bata",
			Model:         "Comfit",
			Category:      model.CategorySandals,
			Price:         35,
			Colors:        []string{"brown"},
			Sizes:         []string{"40", "41"},
			StockQuantity: 12,
		})

		requireStatus(t, w, http.StatusCreated)
		product := decodeBody(t, w)["product"].(map[string]interface{})
		assert.NotZero(t, product["id"])
		assert.Equal(t, []interface{}{"40", "41"}, product["sizes"])
	})

	t.Run("invalid category", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/product", CreateProductRequest{
			Brand:    "Bata",
			Model:    "Comfit",
			Category: "slippers",
			Price:    35,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid product category")
	})

	t.Run("missing price", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/product", map[string]interface{}{
			"brand":    "Bata",
			"model":    "Comfit",
			"category": "sandals",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidInput, errorCode(t, w))
	})
}

func TestProductController_UpdateProduct(t *testing.T) {
	router, testDB := setupProductControllerTest(t)
	products := seedCatalog(t, testDB)

	w := performJSON(router, http.MethodPut, fmt.Sprintf("/product/%d", products[2].ID), UpdateProductRequest{
		Price:         ptr(125.0),
		StockQuantity: ptr(0),
	})

	requireStatus(t, w, http.StatusOK)
	var stored model.Product
	require.NoError(t, testDB.First(&stored, products[2].ID).Error)
	assert.Equal(t, 125.0, stored.Price)
	assert.Equal(t, 0, stored.StockQuantity)
	assert.Equal(t, "Tilden", stored.Model)

	w = performJSON(router, http.MethodPut, "/product/9999", UpdateProductRequest{Price: ptr(1.0)})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_DeleteProduct(t *testing.T) {
	router, testDB := setupProductControllerTest(t)
	products := seedCatalog(t, testDB)

	w := performJSON(router, http.MethodDelete, fmt.Sprintf("/product/%d", products[0].ID), nil)
	requireStatus(t, w, http.StatusOK)

	w = performJSON(router, http.MethodGet, fmt.Sprintf("/product/%d", products[0].ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func catalogUpload(t *testing.T, rows [][]interface{}) *http.Request {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "catalog.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/product/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestProductController_ImportCatalog(t *testing.T) {
	router, testDB := setupProductControllerTest(t)

	req := catalogUpload(t, [][]interface{}{
		{"brand", "model", "category", "price", "colors", "sizes", "stock", "image_url"},
		{"Puma", "Velocity", "running", 99.5, "red, black", "41,42", 8, ""},
		{"Puma", "", "running", 99.5, "", "", 1, ""},
		{"Skechers", "Go Walk", "Casual", 70, "grey", "40", 3, "/uploads/gowalk.png"},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	requireStatus(t, w, http.StatusCreated)
	response := decodeBody(t, w)
	assert.Equal(t, float64(2), response["imported"])
	assert.Equal(t, float64(1), response["skipped"])

	var stored []model.Product
	require.NoError(t, testDB.Order("id").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, []string{"red", "black"}, stored[0].Colors)
	assert.Equal(t, model.CategoryCasual, stored[1].Category)
}

func TestProductController_ImportCatalog_Rejections(t *testing.T) {
	router, _ := setupProductControllerTest(t)

	t.Run("missing file", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/product/import", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidInput, errorCode(t, w))
	})

	t.Run("missing columns", func(t *testing.T) {
		req := catalogUpload(t, [][]interface{}{
			{"brand", "model"},
			{"Puma", "Velocity"},
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.UploadInvalidFileType, errorCode(t, w))
	})

	t.Run("unknown category", func(t *testing.T) {
		req := catalogUpload(t, [][]interface{}{
			{"brand", "model", "category", "price", "colors", "sizes", "stock", "image_url"},
			{"Puma", "Velocity", "slippers", 10, "", "", 1, ""},
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
