package repository

import (
	"context"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

type DeliveryPersonRepository interface {
	Create(ctx context.Context, person *model.DeliveryPerson) error
	FindByID(ctx context.Context, id uint) (*model.DeliveryPerson, error)
	FindByEmail(ctx context.Context, email string) (*model.DeliveryPerson, error)
	FindAll(ctx context.Context, status model.DeliveryPersonStatus) ([]model.DeliveryPerson, error)
	Update(ctx context.Context, person *model.DeliveryPerson) error
	Delete(ctx context.Context, id uint) error
}

type deliveryPersonRepository struct {
	db *gorm.DB
}

func NewDeliveryPersonRepository(db *gorm.DB) DeliveryPersonRepository {
	return &deliveryPersonRepository{db: db}
}

func (r *deliveryPersonRepository) Create(ctx context.Context, person *model.DeliveryPerson) error {
	logger.Debug("Creating delivery person in database", map[string]interface{}{
		"email": person.Email,
	})

	if err := r.db.WithContext(ctx).Create(person).Error; err != nil {
		logger.Error("Failed to create delivery person in database", err, map[string]interface{}{
			"email": person.Email,
		})
		return err
	}

	logger.Debug("Delivery person created in database", map[string]interface{}{
		"delivery_person_id": person.ID,
		"email":              person.Email,
	})
	return nil
}

func (r *deliveryPersonRepository) FindByID(ctx context.Context, id uint) (*model.DeliveryPerson, error) {
	var person model.DeliveryPerson
	if err := r.db.WithContext(ctx).First(&person, id).Error; err != nil {
		logger.Error("Failed to find delivery person by ID in database", err, map[string]interface{}{
			"delivery_person_id": id,
		})
		return nil, err
	}
	return &person, nil
}

func (r *deliveryPersonRepository) FindByEmail(ctx context.Context, email string) (*model.DeliveryPerson, error) {
	var person model.DeliveryPerson
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&person).Error; err != nil {
		logger.Debug("Delivery person not found by email", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}
	return &person, nil
}

func (r *deliveryPersonRepository) FindAll(ctx context.Context, status model.DeliveryPersonStatus) ([]model.DeliveryPerson, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var persons []model.DeliveryPerson
	if err := query.Find(&persons).Error; err != nil {
		logger.Error("Failed to list delivery persons in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}

	logger.Debug("Delivery persons listed from database", map[string]interface{}{
		"status": status,
		"count":  len(persons),
	})
	return persons, nil
}

func (r *deliveryPersonRepository) Update(ctx context.Context, person *model.DeliveryPerson) error {
	if err := r.db.WithContext(ctx).Save(person).Error; err != nil {
		logger.Error("Failed to update delivery person in database", err, map[string]interface{}{
			"delivery_person_id": person.ID,
		})
		return err
	}

	logger.Debug("Delivery person updated in database", map[string]interface{}{
		"delivery_person_id": person.ID,
		"status":             person.Status,
	})
	return nil
}

func (r *deliveryPersonRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.DeliveryPerson{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete delivery person in database", result.Error, map[string]interface{}{
			"delivery_person_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Delivery person deleted from database", map[string]interface{}{
		"delivery_person_id": id,
	})
	return nil
}
