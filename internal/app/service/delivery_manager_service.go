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

var ErrDeliveryManagerNotFound = errors.New("delivery manager not found")

type DeliveryManagerInput struct {
	Name         string
	Email        string
	Password     string
	PhoneNumber  string
	AssignedArea string
}

// DeliveryManagerUpdate leaves nil fields unchanged.
type DeliveryManagerUpdate struct {
	Name         *string
	PhoneNumber  *string
	AssignedArea *string
	Password     *string
	IsActive     *bool
}

type DeliveryManagerService interface {
	Register(ctx context.Context, input DeliveryManagerInput) (*model.DeliveryManager, *util.Token, error)
	Login(ctx context.Context, email, password string) (*model.DeliveryManager, *util.Token, error)
	GetByID(ctx context.Context, id uint) (*model.DeliveryManager, error)
	List(ctx context.Context) ([]model.DeliveryManager, error)
	Update(ctx context.Context, id uint, input DeliveryManagerUpdate) (*model.DeliveryManager, error)
	Delete(ctx context.Context, id uint) error
	ListOrdersForManager(ctx context.Context, managerID uint, status model.DeliveryStatus) ([]model.Order, error)
}

type deliveryManagerService struct {
	managerRepo repository.DeliveryManagerRepository
	orderRepo   repository.OrderRepository
	tokens      TokenConfig
}

func NewDeliveryManagerService(
	managerRepo repository.DeliveryManagerRepository,
	orderRepo repository.OrderRepository,
	tokens TokenConfig,
) DeliveryManagerService {
	return &deliveryManagerService{
		managerRepo: managerRepo,
		orderRepo:   orderRepo,
		tokens:      tokens,
	}
}

func (s *deliveryManagerService) Register(ctx context.Context, input DeliveryManagerInput) (*model.DeliveryManager, *util.Token, error) {
	email := normalizeEmail(input.Email)

	if _, err := s.managerRepo.FindByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	manager := &model.DeliveryManager{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  input.PhoneNumber,
		AssignedArea: input.AssignedArea,
		IsActive:     true,
	}
	if err := s.managerRepo.Create(ctx, manager); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, err
	}

	token, err := s.tokens.issue(manager.ID, manager.Email, model.RoleDeliveryManager)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Delivery manager registered", map[string]interface{}{
		"delivery_manager_id": manager.ID,
		"assigned_area":       manager.AssignedArea,
	})
	return manager, token, nil
}

func (s *deliveryManagerService) Login(ctx context.Context, email, password string) (*model.DeliveryManager, *util.Token, error) {
	email = normalizeEmail(email)

	manager, err := s.managerRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !util.VerifyPassword(manager.PasswordHash, password) {
		logger.Warn("Delivery manager login failed: invalid password", map[string]interface{}{
			"delivery_manager_id": manager.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}
	if !manager.IsActive {
		return nil, nil, ErrAccountInactive
	}

	token, err := s.tokens.issue(manager.ID, manager.Email, model.RoleDeliveryManager)
	if err != nil {
		return nil, nil, err
	}
	return manager, token, nil
}

func (s *deliveryManagerService) GetByID(ctx context.Context, id uint) (*model.DeliveryManager, error) {
	manager, err := s.managerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryManagerNotFound
		}
		return nil, err
	}
	return manager, nil
}

func (s *deliveryManagerService) List(ctx context.Context) ([]model.DeliveryManager, error) {
	return s.managerRepo.FindAll(ctx)
}

func (s *deliveryManagerService) Update(ctx context.Context, id uint, input DeliveryManagerUpdate) (*model.DeliveryManager, error) {
	manager, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		manager.Name = *input.Name
	}
	if input.PhoneNumber != nil {
		manager.PhoneNumber = *input.PhoneNumber
	}
	if input.AssignedArea != nil {
		manager.AssignedArea = *input.AssignedArea
	}
	if input.IsActive != nil {
		manager.IsActive = *input.IsActive
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		manager.PasswordHash = hash
	}

	if err := s.managerRepo.Update(ctx, manager); err != nil {
		return nil, err
	}
	return manager, nil
}

func (s *deliveryManagerService) Delete(ctx context.Context, id uint) error {
	if err := s.managerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeliveryManagerNotFound
		}
		return err
	}

	logger.Info("Delivery manager deleted", map[string]interface{}{
		"delivery_manager_id": id,
	})
	return nil
}

// ListOrdersForManager limits orders to the manager's area. Managers without
// an area see every order.
func (s *deliveryManagerService) ListOrdersForManager(ctx context.Context, managerID uint, status model.DeliveryStatus) ([]model.Order, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidDeliveryStatus
	}

	manager, err := s.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.FindAll(ctx, repository.OrderFilter{
		DeliveryStatus: status,
		City:           manager.AssignedArea,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Orders listed for delivery manager", map[string]interface{}{
		"delivery_manager_id": managerID,
		"assigned_area":       manager.AssignedArea,
		"count":               len(orders),
	})
	return orders, nil
}
