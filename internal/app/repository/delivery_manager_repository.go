package repository

import (
	"context"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

type DeliveryManagerRepository interface {
	Create(ctx context.Context, manager *model.DeliveryManager) error
	FindByID(ctx context.Context, id uint) (*model.DeliveryManager, error)
	FindByEmail(ctx context.Context, email string) (*model.DeliveryManager, error)
	FindAll(ctx context.Context) ([]model.DeliveryManager, error)
	Update(ctx context.Context, manager *model.DeliveryManager) error
	Delete(ctx context.Context, id uint) error
}

type deliveryManagerRepository struct {
	db *gorm.DB
}

func NewDeliveryManagerRepository(db *gorm.DB) DeliveryManagerRepository {
	return &deliveryManagerRepository{db: db}
}

func (r *deliveryManagerRepository) Create(ctx context.Context, manager *model.DeliveryManager) error {
	if err := r.db.WithContext(ctx).Create(manager).Error; err != nil {
		logger.Error("Failed to create delivery manager in database", err, map[string]interface{}{
			"email": manager.Email,
		})
		return err
	}

	logger.Debug("Delivery manager created in database", map[string]interface{}{
		"delivery_manager_id": manager.ID,
		"assigned_area":       manager.AssignedArea,
	})
	return nil
}

func (r *deliveryManagerRepository) FindByID(ctx context.Context, id uint) (*model.DeliveryManager, error) {
	var manager model.DeliveryManager
	if err := r.db.WithContext(ctx).First(&manager, id).Error; err != nil {
		logger.Error("Failed to find delivery manager by ID in database", err, map[string]interface{}{
			"delivery_manager_id": id,
		})
		return nil, err
	}
	return &manager, nil
}

func (r *deliveryManagerRepository) FindByEmail(ctx context.Context, email string) (*model.DeliveryManager, error) {
	var manager model.DeliveryManager
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&manager).Error; err != nil {
		return nil, err
	}
	return &manager, nil
}

func (r *deliveryManagerRepository) FindAll(ctx context.Context) ([]model.DeliveryManager, error) {
	var managers []model.DeliveryManager
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&managers).Error; err != nil {
		logger.Error("Failed to list delivery managers in database", err)
		return nil, err
	}
	return managers, nil
}

func (r *deliveryManagerRepository) Update(ctx context.Context, manager *model.DeliveryManager) error {
	if err := r.db.WithContext(ctx).Save(manager).Error; err != nil {
		logger.Error("Failed to update delivery manager in database", err, map[string]interface{}{
			"delivery_manager_id": manager.ID,
		})
		return err
	}
	return nil
}

func (r *deliveryManagerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.DeliveryManager{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete delivery manager in database", result.Error, map[string]interface{}{
			"delivery_manager_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
