package service

import (
	"context"
	"errors"
	"time"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrAttendanceAlreadyExists = errors.New("attendance already recorded for this day")
	ErrInvalidAttendanceStatus = errors.New("invalid attendance status")
	ErrInvalidTimeRange        = errors.New("check-out must not be before check-in")
)

type AttendanceInput struct {
	EmployeeID uint
	Date       time.Time
	Status     model.AttendanceStatus
	CheckIn    *time.Time
	CheckOut   *time.Time
	Notes      string
}

type AttendanceService interface {
	List(ctx context.Context, filter repository.AttendanceFilter) ([]model.Attendance, error)
	Create(ctx context.Context, input AttendanceInput) (*model.Attendance, error)
	GetByID(ctx context.Context, id uint) (*model.Attendance, error)
	Update(ctx context.Context, id uint, input AttendanceInput) (*model.Attendance, error)
	Delete(ctx context.Context, id uint) error
}

type attendanceService struct {
	attendanceRepo repository.AttendanceRepository
	employees      EmployeeService
}

func NewAttendanceService(attendanceRepo repository.AttendanceRepository, employees EmployeeService) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		employees:      employees,
	}
}

// truncateDay keeps only the calendar date in UTC.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *attendanceService) validate(input AttendanceInput) error {
	if !input.Status.Valid() {
		return ErrInvalidAttendanceStatus
	}
	if input.CheckIn != nil && input.CheckOut != nil && input.CheckOut.Before(*input.CheckIn) {
		return ErrInvalidTimeRange
	}
	return nil
}

func (s *attendanceService) List(ctx context.Context, filter repository.AttendanceFilter) ([]model.Attendance, error) {
	return s.attendanceRepo.FindAll(ctx, filter)
}

func (s *attendanceService) Create(ctx context.Context, input AttendanceInput) (*model.Attendance, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	if _, err := s.employees.GetByID(ctx, input.EmployeeID); err != nil {
		return nil, err
	}

	record := &model.Attendance{
		EmployeeID: input.EmployeeID,
		Date:       truncateDay(input.Date),
		Status:     input.Status,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		Notes:      input.Notes,
	}
	if err := s.attendanceRepo.Create(ctx, record); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrAttendanceAlreadyExists
		}
		return nil, err
	}

	logger.Info("Attendance recorded", map[string]interface{}{
		"attendance_id": record.ID,
		"employee_id":   record.EmployeeID,
		"status":        record.Status,
	})
	return record, nil
}

func (s *attendanceService) GetByID(ctx context.Context, id uint) (*model.Attendance, error) {
	record, err := s.attendanceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}
	return record, nil
}

// Update replaces status, times and notes. Employee and date are fixed.
func (s *attendanceService) Update(ctx context.Context, id uint, input AttendanceInput) (*model.Attendance, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Status = input.Status
	record.CheckIn = input.CheckIn
	record.CheckOut = input.CheckOut
	record.Notes = input.Notes

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *attendanceService) Delete(ctx context.Context, id uint) error {
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendanceNotFound
		}
		return err
	}
	return nil
}
