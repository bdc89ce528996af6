package service

import (
	"context"
	"errors"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/pkg/logger"
	"github.com/stepup/stepup-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidRole      = errors.New("invalid role")
)

type EmployeeInput struct {
	Name     string
	Email    string
	Password string
	Role     model.UserRole
	Age      int
	Phone    string
}

// EmployeeUpdate leaves nil fields unchanged.
type EmployeeUpdate struct {
	Name     *string
	Role     *model.UserRole
	Age      *int
	Phone    *string
	Password *string
}

// EmployeeService manages staff accounts stored in the users table.
type EmployeeService interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, input EmployeeInput) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	Update(ctx context.Context, id uint, input EmployeeUpdate) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type employeeService struct {
	userRepo repository.UserRepository
}

func NewEmployeeService(userRepo repository.UserRepository) EmployeeService {
	return &employeeService{userRepo: userRepo}
}

func staffRoles() []model.UserRole {
	return []model.UserRole{
		model.RoleAdmin,
		model.RoleHRManager,
		model.RoleDeliveryManager,
		model.RoleDeliveryPerson,
		model.RoleEmployee,
	}
}

func (s *employeeService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindByRoles(ctx, staffRoles())
}

func (s *employeeService) Create(ctx context.Context, input EmployeeInput) (*model.User, error) {
	if input.Role == "" {
		input.Role = model.RoleEmployee
	}
	if !input.Role.IsStaff() {
		return nil, ErrInvalidRole
	}

	email := normalizeEmail(input.Email)
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Age:          input.Age,
		Phone:        input.Phone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	logger.Info("Employee created", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

func (s *employeeService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	if !user.Role.IsStaff() {
		return nil, ErrEmployeeNotFound
	}
	return user, nil
}

func (s *employeeService) Update(ctx context.Context, id uint, input EmployeeUpdate) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		if !input.Role.IsStaff() {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Age != nil {
		user.Age = *input.Age
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("Employee updated", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

func (s *employeeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	logger.Info("Employee deleted", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
