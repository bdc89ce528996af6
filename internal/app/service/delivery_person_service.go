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
	ErrDeliveryPersonHasActiveOrders = errors.New("delivery person still has active orders")
	ErrInvalidDeliveryPersonStatus   = errors.New("invalid delivery person status")
)

type DeliveryPersonInput struct {
	Name          string
	Email         string
	Password      string
	Phone         string
	VehicleNumber string
	LicenseNumber string
}

// DeliveryPersonUpdate leaves nil fields unchanged.
type DeliveryPersonUpdate struct {
	Name          *string
	Phone         *string
	VehicleNumber *string
	LicenseNumber *string
	Password      *string
	Status        *model.DeliveryPersonStatus
}

type DeliveryPersonService interface {
	Register(ctx context.Context, input DeliveryPersonInput) (*model.DeliveryPerson, *util.Token, error)
	Login(ctx context.Context, email, password string) (*model.DeliveryPerson, *util.Token, error)
	GetByID(ctx context.Context, id uint) (*model.DeliveryPerson, error)
	List(ctx context.Context, status model.DeliveryPersonStatus) ([]model.DeliveryPerson, error)
	Update(ctx context.Context, id uint, input DeliveryPersonUpdate) (*model.DeliveryPerson, error)
	Delete(ctx context.Context, id uint) error
}

type deliveryPersonService struct {
	personRepo repository.DeliveryPersonRepository
	orderRepo  repository.OrderRepository
	tokens     TokenConfig
}

func NewDeliveryPersonService(
	personRepo repository.DeliveryPersonRepository,
	orderRepo repository.OrderRepository,
	tokens TokenConfig,
) DeliveryPersonService {
	return &deliveryPersonService{
		personRepo: personRepo,
		orderRepo:  orderRepo,
		tokens:     tokens,
	}
}

func (s *deliveryPersonService) Register(ctx context.Context, input DeliveryPersonInput) (*model.DeliveryPerson, *util.Token, error) {
	email := normalizeEmail(input.Email)
	logger.Info("Registering delivery person", map[string]interface{}{
		"email": email,
	})

	if _, err := s.personRepo.FindByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	person := &model.DeliveryPerson{
		Name:          input.Name,
		Email:         email,
		PasswordHash:  hash,
		Phone:         input.Phone,
		VehicleNumber: input.VehicleNumber,
		LicenseNumber: input.LicenseNumber,
		Status:        model.DeliveryPersonActive,
	}
	if err := s.personRepo.Create(ctx, person); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, err
	}

	token, err := s.tokens.issue(person.ID, person.Email, model.RoleDeliveryPerson)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Delivery person registered", map[string]interface{}{
		"delivery_person_id": person.ID,
	})
	return person, token, nil
}

func (s *deliveryPersonService) Login(ctx context.Context, email, password string) (*model.DeliveryPerson, *util.Token, error) {
	email = normalizeEmail(email)

	person, err := s.personRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Delivery person login failed: unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !util.VerifyPassword(person.PasswordHash, password) {
		logger.Warn("Delivery person login failed: invalid password", map[string]interface{}{
			"delivery_person_id": person.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}
	if person.Status == model.DeliveryPersonInactive {
		return nil, nil, ErrAccountInactive
	}

	token, err := s.tokens.issue(person.ID, person.Email, model.RoleDeliveryPerson)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Delivery person logged in", map[string]interface{}{
		"delivery_person_id": person.ID,
	})
	return person, token, nil
}

func (s *deliveryPersonService) GetByID(ctx context.Context, id uint) (*model.DeliveryPerson, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryPersonNotFound
		}
		return nil, err
	}
	return person, nil
}

func (s *deliveryPersonService) List(ctx context.Context, status model.DeliveryPersonStatus) ([]model.DeliveryPerson, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidDeliveryPersonStatus
	}
	return s.personRepo.FindAll(ctx, status)
}

// Update does not touch snapshots already copied onto orders.
func (s *deliveryPersonService) Update(ctx context.Context, id uint, input DeliveryPersonUpdate) (*model.DeliveryPerson, error) {
	person, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		person.Name = *input.Name
	}
	if input.Phone != nil {
		person.Phone = *input.Phone
	}
	if input.VehicleNumber != nil {
		person.VehicleNumber = *input.VehicleNumber
	}
	if input.LicenseNumber != nil {
		person.LicenseNumber = *input.LicenseNumber
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidDeliveryPersonStatus
		}
		person.Status = *input.Status
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		person.PasswordHash = hash
	}

	if err := s.personRepo.Update(ctx, person); err != nil {
		return nil, err
	}

	logger.Info("Delivery person updated", map[string]interface{}{
		"delivery_person_id": person.ID,
	})
	return person, nil
}

func (s *deliveryPersonService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.orderRepo.CountActiveByDeliveryPerson(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		logger.Warn("Refusing to delete delivery person with active orders", map[string]interface{}{
			"delivery_person_id": id,
			"active_orders":      active,
		})
		return ErrDeliveryPersonHasActiveOrders
	}

	if err := s.personRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeliveryPersonNotFound
		}
		return err
	}

	logger.Info("Delivery person deleted", map[string]interface{}{
		"delivery_person_id": id,
	})
	return nil
}
