package repository

import (
	"context"
	"time"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

type AttendanceFilter struct {
	EmployeeID *uint
	From       *time.Time
	To         *time.Time
}

type AttendanceRepository interface {
	Create(ctx context.Context, attendance *model.Attendance) error
	FindByID(ctx context.Context, id uint) (*model.Attendance, error)
	FindAll(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error)
	Update(ctx context.Context, attendance *model.Attendance) error
	Delete(ctx context.Context, id uint) error
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *model.Attendance) error {
	if err := r.db.WithContext(ctx).Omit("Employee").Create(attendance).Error; err != nil {
		logger.Error("Failed to create attendance in database", err, map[string]interface{}{
			"employee_id": attendance.EmployeeID,
			"date":        attendance.Date.Format("2006-01-02"),
		})
		return err
	}
	return nil
}

func (r *attendanceRepository) FindByID(ctx context.Context, id uint) (*model.Attendance, error) {
	var attendance model.Attendance
	if err := r.db.WithContext(ctx).Preload("Employee").First(&attendance, id).Error; err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepository) FindAll(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error) {
	query := r.db.WithContext(ctx).Preload("Employee")
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var records []model.Attendance
	if err := query.Order("date DESC").Order("id DESC").Find(&records).Error; err != nil {
		logger.Error("Failed to list attendance in database", err, map[string]interface{}{
			"employee_id": filter.EmployeeID,
		})
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) Update(ctx context.Context, attendance *model.Attendance) error {
	if err := r.db.WithContext(ctx).Omit("Employee").Save(attendance).Error; err != nil {
		logger.Error("Failed to update attendance in database", err, map[string]interface{}{
			"attendance_id": attendance.ID,
		})
		return err
	}
	return nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Attendance{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete attendance in database", result.Error, map[string]interface{}{
			"attendance_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
