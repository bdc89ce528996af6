package controller

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/app/service"
	apperrors "github.com/stepup/stepup-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type cartFixture struct {
	db      *gorm.DB
	router  *gin.Engine
	user    *model.User
	other   *model.User
	product *model.Product
}

func setupCartControllerTest(t *testing.T) *cartFixture {
	testDB := setupControllerDB(t)

	cartService := service.NewCartService(
		repository.NewCartRepository(testDB),
		repository.NewProductRepository(testDB),
	)
	ctrl := NewCartController(cartService)

	f := &cartFixture{
		db:      testDB,
		user:    seedUser(t, testDB, "cart@example.com", model.RoleCustomer),
		other:   seedUser(t, testDB, "other@example.com", model.RoleCustomer),
		product: seedProduct(t, testDB, 5),
	}

	router := gin.New()
	group := router.Group("/cart", asUser(f.user.ID, model.RoleCustomer))
	group.GET("", ctrl.GetCart)
	group.POST("", ctrl.AddToCart)
	group.DELETE("", ctrl.ClearCart)
	group.PUT("/:id", ctrl.UpdateCartItem)
	group.DELETE("/:id", ctrl.RemoveFromCart)

	anonymous := router.Group("/anonymous/cart")
	anonymous.GET("", ctrl.GetCart)

	f.router = router
	return f
}

func (f *cartFixture) addItem(t *testing.T, userID uint, quantity int) *model.CartItem {
	t.Helper()
	item := &model.CartItem{
		UserID:    userID,
		ProductID: f.product.ID,
		Color:     "black",
		Size:      "42",
		Quantity:  quantity,
	}
	require.NoError(t, repository.NewCartRepository(f.db).Create(context.Background(), item))
	return item
}

func TestCartController_GetCart(t *testing.T) {
	f := setupCartControllerTest(t)
	f.addItem(t, f.user.ID, 2)
	f.addItem(t, f.other.ID, 1)

	w := performJSON(f.router, http.MethodGet, "/cart", nil)

	requireStatus(t, w, http.StatusOK)
	response := decodeBody(t, w)
	assert.Equal(t, float64(1), response["count"])
	assert.Equal(t, float64(240), response["total"])

	items := response["cartItems"].([]interface{})
	require.Len(t, items, 1)
	product := items[0].(map[string]interface{})["product"].(map[string]interface{})
	assert.Equal(t, "Nike", product["brand"])
}

func TestCartController_GetCart_Unauthenticated(t *testing.T) {
	f := setupCartControllerTest(t)

	w := performJSON(f.router, http.MethodGet, "/anonymous/cart", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartController_AddToCart(t *testing.T) {
	f := setupCartControllerTest(t)

	t.Run("new line", func(t *testing.T) {
		w := performJSON(f.router, http.MethodPost, "/cart", AddToCartRequest{
			ProductID: f.product.ID,
			Color:     "white",
			Size:      "41",
			Quantity:  2,
		})

		requireStatus(t, w, http.StatusOK)
		item := decodeBody(t, w)["cartItem"].(map[string]interface{})
		assert.Equal(t, float64(2), item["quantity"])
	})

	t.Run("same variant merges", func(t *testing.T) {
		w := performJSON(f.router, http.MethodPost, "/cart", AddToCartRequest{
			ProductID: f.product.ID,
			Color:     "white",
			Size:      "41",
			Quantity:  1,
		})

		requireStatus(t, w, http.StatusOK)
		item := decodeBody(t, w)["cartItem"].(map[string]interface{})
		assert.Equal(t, float64(3), item["quantity"])
	})

	t.Run("merged quantity exceeds stock", func(t *testing.T) {
		w := performJSON(f.router, http.MethodPost, "/cart", AddToCartRequest{
			ProductID: f.product.ID,
			Color:     "white",
			Size:      "41",
			Quantity:  3,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Not enough stock")
	})

	t.Run("unknown size", func(t *testing.T) {
		w := performJSON(f.router, http.MethodPost, "/cart", AddToCartRequest{
			ProductID: f.product.ID,
			Color:     "black",
			Size:      "47",
			Quantity:  1,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Selected color or size is not available")
	})

	t.Run("unknown product", func(t *testing.T) {
		w := performJSON(f.router, http.MethodPost, "/cart", AddToCartRequest{
			ProductID: 9999,
			Quantity:  1,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ProductNotFound, errorCode(t, w))
	})

	t.Run("zero quantity", func(t *testing.T) {
		w := performJSON(f.router, http.MethodPost, "/cart", map[string]interface{}{
			"productId": f.product.ID,
			"quantity":  0,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidInput, errorCode(t, w))
	})
}

func TestCartController_UpdateCartItem(t *testing.T) {
	f := setupCartControllerTest(t)
	mine := f.addItem(t, f.user.ID, 1)
	theirs := f.addItem(t, f.other.ID, 1)

	tests := []struct {
		name       string
		itemID     string
		quantity   int
		wantStatus int
	}{
		{"success", fmt.Sprint(mine.ID), 3, http.StatusOK},
		{"exceeds stock", fmt.Sprint(mine.ID), 6, http.StatusBadRequest},
		{"not owner", fmt.Sprint(theirs.ID), 2, http.StatusNotFound},
		{"missing item", "9999", 2, http.StatusNotFound},
		{"invalid id", "abc", 2, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(f.router, http.MethodPut, "/cart/"+tt.itemID, UpdateCartRequest{Quantity: tt.quantity})
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	var stored model.CartItem
	require.NoError(t, f.db.First(&stored, mine.ID).Error)
	assert.Equal(t, 3, stored.Quantity)
}

func TestCartController_RemoveFromCart(t *testing.T) {
	f := setupCartControllerTest(t)
	mine := f.addItem(t, f.user.ID, 1)
	theirs := f.addItem(t, f.other.ID, 1)

	w := performJSON(f.router, http.MethodDelete, fmt.Sprintf("/cart/%d", theirs.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CartItemNotFound, errorCode(t, w))

	w = performJSON(f.router, http.MethodDelete, fmt.Sprintf("/cart/%d", mine.ID), nil)
	requireStatus(t, w, http.StatusOK)

	var count int64
	f.db.Model(&model.CartItem{}).Where("user_id = ?", f.user.ID).Count(&count)
	assert.Zero(t, count)
}

func TestCartController_ClearCart(t *testing.T) {
	f := setupCartControllerTest(t)
	f.addItem(t, f.user.ID, 1)
	f.addItem(t, f.other.ID, 1)

	w := performJSON(f.router, http.MethodDelete, "/cart", nil)
	requireStatus(t, w, http.StatusOK)

	var mine, theirs int64
	f.db.Model(&model.CartItem{}).Where("user_id = ?", f.user.ID).Count(&mine)
	f.db.Model(&model.CartItem{}).Where("user_id = ?", f.other.ID).Count(&theirs)
	assert.Zero(t, mine)
	assert.Equal(t, int64(1), theirs)
}
