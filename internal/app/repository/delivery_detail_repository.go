package repository

import (
	"context"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

type DeliveryDetailRepository interface {
	Create(ctx context.Context, detail *model.DeliveryDetail) error
	FindByOrderAndPerson(ctx context.Context, orderID, deliveryPersonID uint) (*model.DeliveryDetail, error)
	FindAll(ctx context.Context) ([]model.DeliveryDetail, error)
	Update(ctx context.Context, detail *model.DeliveryDetail) error
	Delete(ctx context.Context, id uint) error
}

type deliveryDetailRepository struct {
	db *gorm.DB
}

func NewDeliveryDetailRepository(db *gorm.DB) DeliveryDetailRepository {
	return &deliveryDetailRepository{db: db}
}

func (r *deliveryDetailRepository) Create(ctx context.Context, detail *model.DeliveryDetail) error {
	logger.Debug("Creating delivery details in database", map[string]interface{}{
		"order_id":           detail.OrderID,
		"delivery_person_id": detail.DeliveryPersonID,
	})

	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		logger.Error("Failed to create delivery details in database", err, map[string]interface{}{
			"order_id":           detail.OrderID,
			"delivery_person_id": detail.DeliveryPersonID,
		})
		return err
	}

	logger.Debug("Delivery details created in database", map[string]interface{}{
		"delivery_details_id": detail.ID,
		"order_id":            detail.OrderID,
		"delivery_person_id":  detail.DeliveryPersonID,
	})
	return nil
}

func (r *deliveryDetailRepository) FindByOrderAndPerson(ctx context.Context, orderID, deliveryPersonID uint) (*model.DeliveryDetail, error) {
	var detail model.DeliveryDetail
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND delivery_person_id = ?", orderID, deliveryPersonID).
		First(&detail).Error; err != nil {
		logger.Debug("Delivery details not found for order and delivery person", map[string]interface{}{
			"order_id":           orderID,
			"delivery_person_id": deliveryPersonID,
			"error":              err.Error(),
		})
		return nil, err
	}
	return &detail, nil
}

func (r *deliveryDetailRepository) FindAll(ctx context.Context) ([]model.DeliveryDetail, error) {
	var details []model.DeliveryDetail
	if err := r.db.WithContext(ctx).
		Preload("DeliveryPerson").
		Order("submitted_at DESC").
		Order("id DESC").
		Find(&details).Error; err != nil {
		logger.Error("Failed to list delivery details in database", err)
		return nil, err
	}

	logger.Debug("Delivery details listed from database", map[string]interface{}{
		"count": len(details),
	})
	return details, nil
}

func (r *deliveryDetailRepository) Update(ctx context.Context, detail *model.DeliveryDetail) error {
	if err := r.db.WithContext(ctx).Omit("DeliveryPerson").Save(detail).Error; err != nil {
		logger.Error("Failed to update delivery details in database", err, map[string]interface{}{
			"delivery_details_id": detail.ID,
		})
		return err
	}
	return nil
}

func (r *deliveryDetailRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.DeliveryDetail{}, id).Error; err != nil {
		logger.Error("Failed to delete delivery details in database", err, map[string]interface{}{
			"delivery_details_id": id,
		})
		return err
	}
	return nil
}
