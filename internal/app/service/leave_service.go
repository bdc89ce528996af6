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
	ErrLeaveNotFound      = errors.New("leave request not found")
	ErrInvalidLeaveType   = errors.New("invalid leave type")
	ErrInvalidLeaveStatus = errors.New("invalid leave status")
	ErrInvalidLeaveDates  = errors.New("leave end date must not be before start date")
	ErrLeaveNotPending    = errors.New("leave request already decided")
)

type LeaveInput struct {
	LeaveType model.LeaveType
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

type LeaveService interface {
	List(ctx context.Context, filter repository.LeaveFilter) ([]model.Leave, error)
	Create(ctx context.Context, employeeID uint, input LeaveInput) (*model.Leave, error)
	GetByID(ctx context.Context, id uint) (*model.Leave, error)
	Update(ctx context.Context, id uint, input LeaveInput) (*model.Leave, error)
	UpdateStatus(ctx context.Context, id uint, status model.LeaveStatus) (*model.Leave, error)
	Delete(ctx context.Context, id uint) error
}

type leaveService struct {
	leaveRepo repository.LeaveRepository
}

func NewLeaveService(leaveRepo repository.LeaveRepository) LeaveService {
	return &leaveService{leaveRepo: leaveRepo}
}

func validateLeave(input LeaveInput) error {
	if !input.LeaveType.Valid() {
		return ErrInvalidLeaveType
	}
	if input.EndDate.Before(input.StartDate) {
		return ErrInvalidLeaveDates
	}
	return nil
}

func (s *leaveService) List(ctx context.Context, filter repository.LeaveFilter) ([]model.Leave, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidLeaveStatus
	}
	return s.leaveRepo.FindAll(ctx, filter)
}

func (s *leaveService) Create(ctx context.Context, employeeID uint, input LeaveInput) (*model.Leave, error) {
	if err := validateLeave(input); err != nil {
		return nil, err
	}

	leave := &model.Leave{
		EmployeeID: employeeID,
		LeaveType:  input.LeaveType,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Reason:     input.Reason,
		Status:     model.LeavePending,
	}
	if err := s.leaveRepo.Create(ctx, leave); err != nil {
		return nil, err
	}

	logger.Info("Leave requested", map[string]interface{}{
		"leave_id":    leave.ID,
		"employee_id": employeeID,
		"leave_type":  leave.LeaveType,
	})
	return leave, nil
}

func (s *leaveService) GetByID(ctx context.Context, id uint) (*model.Leave, error) {
	leave, err := s.leaveRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	return leave, nil
}

func (s *leaveService) Update(ctx context.Context, id uint, input LeaveInput) (*model.Leave, error) {
	if err := validateLeave(input); err != nil {
		return nil, err
	}

	leave, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	leave.LeaveType = input.LeaveType
	leave.StartDate = input.StartDate
	leave.EndDate = input.EndDate
	leave.Reason = input.Reason

	if err := s.leaveRepo.Update(ctx, leave); err != nil {
		return nil, err
	}
	return leave, nil
}

// UpdateStatus moves a pending request to approved or rejected.
func (s *leaveService) UpdateStatus(ctx context.Context, id uint, status model.LeaveStatus) (*model.Leave, error) {
	if status != model.LeaveApproved && status != model.LeaveRejected {
		return nil, ErrInvalidLeaveStatus
	}

	leave, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.Status != model.LeavePending {
		return nil, ErrLeaveNotPending
	}

	leave.Status = status
	if err := s.leaveRepo.Update(ctx, leave); err != nil {
		return nil, err
	}

	logger.Info("Leave decided", map[string]interface{}{
		"leave_id": id,
		"status":   status,
	})
	return leave, nil
}

func (s *leaveService) Delete(ctx context.Context, id uint) error {
	if err := s.leaveRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeaveNotFound
		}
		return err
	}
	return nil
}
