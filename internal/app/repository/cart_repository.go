package repository

import (
	"context"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(ctx context.Context, cartItem *model.CartItem) error
	FindByUserID(ctx context.Context, userID uint) ([]model.CartItem, error)
	FindByID(ctx context.Context, id uint) (*model.CartItem, error)
	FindByVariant(ctx context.Context, userID, productID uint, color, size string) (*model.CartItem, error)
	Update(ctx context.Context, cartItem *model.CartItem) error
	Delete(ctx context.Context, id uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(ctx context.Context, cartItem *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"user_id":    cartItem.UserID,
		"product_id": cartItem.ProductID,
		"quantity":   cartItem.Quantity,
	})

	if err := r.db.WithContext(ctx).Omit("Product").Create(cartItem).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"user_id":    cartItem.UserID,
			"product_id": cartItem.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) ([]model.CartItem, error) {
	var cartItems []model.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&cartItems).Error; err != nil {
		logger.Error("Failed to find cart items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart items found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

func (r *cartRepository) FindByID(ctx context.Context, id uint) (*model.CartItem, error) {
	var cartItem model.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").First(&cartItem, id).Error; err != nil {
		return nil, err
	}
	return &cartItem, nil
}

func (r *cartRepository) FindByVariant(ctx context.Context, userID, productID uint, color, size string) (*model.CartItem, error) {
	var cartItem model.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND color = ? AND size = ?", userID, productID, color, size).
		First(&cartItem).Error; err != nil {
		return nil, err
	}
	return &cartItem, nil
}

func (r *cartRepository) Update(ctx context.Context, cartItem *model.CartItem) error {
	if err := r.db.WithContext(ctx).Omit("Product").Save(cartItem).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": cartItem.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item in database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Debug("Cart cleared in database", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
