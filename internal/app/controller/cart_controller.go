package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stepup/stepup-backend/internal/app/service"
	"github.com/stepup/stepup-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// GetCart returns the caller's cart
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	items, err := ctrl.cartService.GetUserCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "get cart")
		return
	}

	var total float64
	for _, item := range items {
		total += item.Product.Price * float64(item.Quantity)
	}

	respondOK(c, http.StatusOK, gin.H{
		"cartItems": items,
		"count":     len(items),
		"total":     total,
	})
}

// AddToCart adds a product variant, merging with an existing line
// POST /api/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := ctrl.cartService.AddToCart(c.Request.Context(), userID, req.ProductID, req.Color, req.Size, req.Quantity)
	if err != nil {
		respondError(c, err, "add to cart")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	respondOK(c, http.StatusOK, gin.H{"cartItem": item})
}

// UpdateCartItem sets the quantity of a cart line
// PUT /api/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := ctrl.cartService.UpdateCartItem(c.Request.Context(), userID, id, req.Quantity)
	if err != nil {
		respondError(c, err, "update cart item")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"cartItem": item})
}

// RemoveFromCart deletes one cart line
// DELETE /api/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "delete cart item")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// ClearCart empties the caller's cart
// DELETE /api/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		respondError(c, err, "delete cart")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"message": "Cart cleared"})
}
