package repository

import (
	"context"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

type RefundRepository interface {
	Create(ctx context.Context, refund *model.Refund) error
	FindByID(ctx context.Context, id uint) (*model.Refund, error)
	ExistsForOrder(ctx context.Context, orderID uint) (bool, error)
	FindByUserID(ctx context.Context, userID uint) ([]model.Refund, error)
	FindAll(ctx context.Context, status model.RefundStatus) ([]model.Refund, error)
	Update(ctx context.Context, refund *model.Refund) error
	Delete(ctx context.Context, id uint) error
}

type refundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, refund *model.Refund) error {
	logger.Debug("Creating refund in database", map[string]interface{}{
		"order_id": refund.OrderID,
		"user_id":  refund.UserID,
	})

	if err := r.db.WithContext(ctx).Omit("Order").Create(refund).Error; err != nil {
		logger.Error("Failed to create refund in database", err, map[string]interface{}{
			"order_id": refund.OrderID,
			"user_id":  refund.UserID,
		})
		return err
	}

	logger.Debug("Refund created in database", map[string]interface{}{
		"refund_id": refund.ID,
		"order_id":  refund.OrderID,
	})
	return nil
}

func (r *refundRepository) FindByID(ctx context.Context, id uint) (*model.Refund, error) {
	logger.Debug("Finding refund by ID in database", map[string]interface{}{
		"refund_id": id,
	})

	var refund model.Refund
	if err := r.db.WithContext(ctx).Preload("Order").First(&refund, id).Error; err != nil {
		logger.Error("Failed to find refund by ID in database", err, map[string]interface{}{
			"refund_id": id,
		})
		return nil, err
	}

	logger.Debug("Refund found by ID in database", map[string]interface{}{
		"refund_id": refund.ID,
		"status":    refund.Status,
	})
	return &refund, nil
}

func (r *refundRepository) ExistsForOrder(ctx context.Context, orderID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to check refund for order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *refundRepository) FindByUserID(ctx context.Context, userID uint) ([]model.Refund, error) {
	var refunds []model.Refund
	if err := r.db.WithContext(ctx).Preload("Order").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&refunds).Error; err != nil {
		logger.Error("Failed to find refunds by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Refunds found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(refunds),
	})
	return refunds, nil
}

func (r *refundRepository) FindAll(ctx context.Context, status model.RefundStatus) ([]model.Refund, error) {
	query := r.db.WithContext(ctx).Preload("Order")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var refunds []model.Refund
	if err := query.Order("created_at DESC").Find(&refunds).Error; err != nil {
		logger.Error("Failed to list refunds in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}

	logger.Debug("Refunds listed from database", map[string]interface{}{
		"status": status,
		"count":  len(refunds),
	})
	return refunds, nil
}

func (r *refundRepository) Update(ctx context.Context, refund *model.Refund) error {
	logger.Debug("Updating refund in database", map[string]interface{}{
		"refund_id": refund.ID,
		"status":    refund.Status,
	})

	if err := r.db.WithContext(ctx).Omit("Order").Save(refund).Error; err != nil {
		logger.Error("Failed to update refund in database", err, map[string]interface{}{
			"refund_id": refund.ID,
		})
		return err
	}
	return nil
}

func (r *refundRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting refund in database", map[string]interface{}{
		"refund_id": id,
	})

	if err := r.db.WithContext(ctx).Delete(&model.Refund{}, id).Error; err != nil {
		logger.Error("Failed to delete refund in database", err, map[string]interface{}{
			"refund_id": id,
		})
		return err
	}
	return nil
}
