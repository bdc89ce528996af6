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
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

type CartService interface {
	GetUserCart(ctx context.Context, userID uint) ([]model.CartItem, error)
	AddToCart(ctx context.Context, userID, productID uint, color, size string, quantity int) (*model.CartItem, error)
	UpdateCartItem(ctx context.Context, userID, cartItemID uint, quantity int) (*model.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, cartItemID uint) error
	ClearCart(ctx context.Context, userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetUserCart(ctx context.Context, userID uint) ([]model.CartItem, error) {
	cartItems, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("User cart fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

// AddToCart merges quantities for an existing (product, color, size) line.
func (s *cartService) AddToCart(ctx context.Context, userID, productID uint, color, size string, quantity int) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"color":      color,
		"size":       size,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if !model.HasOption(product.Colors, color) || !model.HasOption(product.Sizes, size) {
		logger.Warn("Cannot add to cart: unknown variant", map[string]interface{}{
			"product_id": productID,
			"color":      color,
			"size":       size,
		})
		return nil, ErrInvalidProductOption
	}

	existingItem, err := s.cartRepo.FindByVariant(ctx, userID, productID, color, size)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	requestedQuantity := quantity
	if existingItem != nil {
		requestedQuantity = existingItem.Quantity + quantity
	}

	if product.StockQuantity < requestedQuantity {
		logger.Warn("Cannot add to cart: insufficient product stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"requested":  requestedQuantity,
			"available":  product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	if existingItem != nil {
		existingItem.Quantity = requestedQuantity
		if err := s.cartRepo.Update(ctx, existingItem); err != nil {
			return nil, err
		}
		return existingItem, nil
	}

	cartItem := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Color:     color,
		Size:      size,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(ctx, cartItem); err != nil {
		return nil, err
	}

	logger.Info("Cart item added", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return cartItem, nil
}

func (s *cartService) findOwned(ctx context.Context, userID, cartItemID uint) (*model.CartItem, error) {
	cartItem, err := s.cartRepo.FindByID(ctx, cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if cartItem.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return nil, ErrCartItemNotFound
	}
	return cartItem, nil
}

func (s *cartService) UpdateCartItem(ctx context.Context, userID, cartItemID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cartItem, err := s.findOwned(ctx, userID, cartItemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, cartItem.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.StockQuantity < quantity {
		logger.Warn("Cannot update cart item: insufficient product stock", map[string]interface{}{
			"cart_item_id": cartItemID,
			"requested":    quantity,
			"available":    product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(ctx, cartItem); err != nil {
		return nil, err
	}
	return cartItem, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID, cartItemID uint) error {
	if _, err := s.findOwned(ctx, userID, cartItemID); err != nil {
		return err
	}

	if err := s.cartRepo.Delete(ctx, cartItemID); err != nil {
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uint) error {
	if err := s.cartRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}

	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
