package repository

import (
	"context"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

type LeaveFilter struct {
	EmployeeID *uint
	Status     model.LeaveStatus
}

type LeaveRepository interface {
	Create(ctx context.Context, leave *model.Leave) error
	FindByID(ctx context.Context, id uint) (*model.Leave, error)
	FindAll(ctx context.Context, filter LeaveFilter) ([]model.Leave, error)
	Update(ctx context.Context, leave *model.Leave) error
	Delete(ctx context.Context, id uint) error
}

type leaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, leave *model.Leave) error {
	if err := r.db.WithContext(ctx).Omit("Employee").Create(leave).Error; err != nil {
		logger.Error("Failed to create leave in database", err, map[string]interface{}{
			"employee_id": leave.EmployeeID,
		})
		return err
	}
	return nil
}

func (r *leaveRepository) FindByID(ctx context.Context, id uint) (*model.Leave, error) {
	var leave model.Leave
	if err := r.db.WithContext(ctx).Preload("Employee").First(&leave, id).Error; err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRepository) FindAll(ctx context.Context, filter LeaveFilter) ([]model.Leave, error) {
	query := r.db.WithContext(ctx).Preload("Employee")
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var leaves []model.Leave
	if err := query.Order("start_date DESC").Find(&leaves).Error; err != nil {
		logger.Error("Failed to list leaves in database", err, map[string]interface{}{
			"employee_id": filter.EmployeeID,
			"status":      filter.Status,
		})
		return nil, err
	}
	return leaves, nil
}

func (r *leaveRepository) Update(ctx context.Context, leave *model.Leave) error {
	if err := r.db.WithContext(ctx).Omit("Employee").Save(leave).Error; err != nil {
		logger.Error("Failed to update leave in database", err, map[string]interface{}{
			"leave_id": leave.ID,
		})
		return err
	}
	return nil
}

func (r *leaveRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Leave{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete leave in database", result.Error, map[string]interface{}{
			"leave_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
