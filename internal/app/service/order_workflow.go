package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderNotAssigned        = errors.New("order not found or not assigned to this delivery person")
	ErrInvalidDeliveryStatus   = errors.New("invalid delivery status")
	ErrDeliveryPersonNotFound  = errors.New("delivery person not found")
	ErrDeliveryDetailsExists   = errors.New("delivery details already exist for this order")
	ErrDeliveryDetailsNotFound = errors.New("delivery details not found")
)

// DeliveryDetailsInput is checked field by field in declaration order.
type DeliveryDetailsInput struct {
	DeliveryCost    *float64 `json:"deliveryCost" validate:"required,gt=0"`
	Mileage         *float64 `json:"mileage" validate:"required,gt=0"`
	PetrolCost      *float64 `json:"petrolCost" validate:"required,gt=0"`
	TimeSpent       *float64 `json:"timeSpent" validate:"required,gt=0"`
	AdditionalNotes string   `json:"additionalNotes" validate:"max=2000"`
}

// OrderWorkflow owns every delivery-side state change on an order. The
// order, delivery-person and delivery-manager endpoints all go through it.
type OrderWorkflow interface {
	AssignDeliveryPerson(ctx context.Context, orderID, deliveryPersonID uint) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status model.DeliveryStatus) (*model.Order, error)
	UpdateAssignedOrderStatus(ctx context.Context, deliveryPersonID, orderID uint, status model.DeliveryStatus) (*model.Order, error)
	ListAssignedOrders(ctx context.Context, deliveryPersonID uint, status model.DeliveryStatus) ([]model.Order, error)
	GetAssignedOrder(ctx context.Context, deliveryPersonID, orderID uint) (*model.Order, error)

	SubmitDeliveryDetails(ctx context.Context, orderID, deliveryPersonID uint, input DeliveryDetailsInput) (*model.DeliveryDetail, error)
	GetDeliveryDetails(ctx context.Context, orderID, deliveryPersonID uint) (*model.DeliveryDetail, error)
	UpdateDeliveryDetails(ctx context.Context, orderID, deliveryPersonID uint, input DeliveryDetailsInput) (*model.DeliveryDetail, error)
	DeleteDeliveryDetails(ctx context.Context, orderID, deliveryPersonID uint) error
	ListAllDeliveryDetails(ctx context.Context) ([]model.DeliveryDetail, error)
}

type orderWorkflow struct {
	tm         repository.TransactionManager
	orderRepo  repository.OrderRepository
	detailRepo repository.DeliveryDetailRepository
	validate   *validator.Validate
	now        func() time.Time
}

func NewOrderWorkflow(
	tm repository.TransactionManager,
	orderRepo repository.OrderRepository,
	detailRepo repository.DeliveryDetailRepository,
) OrderWorkflow {
	return &orderWorkflow{
		tm:         tm,
		orderRepo:  orderRepo,
		detailRepo: detailRepo,
		validate:   newValidator(),
		now:        time.Now,
	}
}

func (w *orderWorkflow) AssignDeliveryPerson(ctx context.Context, orderID, deliveryPersonID uint) (*model.Order, error) {
	logger.Info("Assigning delivery person to order", map[string]interface{}{
		"order_id":           orderID,
		"delivery_person_id": deliveryPersonID,
	})

	var assigned *model.Order
	err := w.tm.Execute(ctx, func(repos repository.TxRepositories) error {
		order, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		person, err := repos.DeliveryPersons().FindByID(ctx, deliveryPersonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDeliveryPersonNotFound
			}
			return err
		}

		if !order.AssignedTo(person.ID) || order.AssignedAt == nil {
			now := w.now()
			order.AssignedAt = &now
		}
		order.DeliveryPerson = person.Snapshot()
		order.DeliveryStatus = model.DeliveryStatusProcessing

		if err := repos.Orders().Update(ctx, order); err != nil {
			return err
		}

		assigned, err = repos.Orders().FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrDeliveryPersonNotFound) {
			logger.Warn("Assignment failed: missing order or delivery person", map[string]interface{}{
				"order_id":           orderID,
				"delivery_person_id": deliveryPersonID,
				"error":              err.Error(),
			})
		} else {
			logger.Error("Failed to assign delivery person", err, map[string]interface{}{
				"order_id":           orderID,
				"delivery_person_id": deliveryPersonID,
			})
		}
		return nil, err
	}

	logger.Info("Delivery person assigned", map[string]interface{}{
		"order_id":           assigned.ID,
		"delivery_person_id": deliveryPersonID,
		"delivery_status":    assigned.DeliveryStatus,
	})
	return assigned, nil
}

func (w *orderWorkflow) UpdateOrderStatus(ctx context.Context, orderID uint, status model.DeliveryStatus) (*model.Order, error) {
	return w.setStatus(ctx, orderID, nil, status)
}

func (w *orderWorkflow) UpdateAssignedOrderStatus(ctx context.Context, deliveryPersonID, orderID uint, status model.DeliveryStatus) (*model.Order, error) {
	return w.setStatus(ctx, orderID, &deliveryPersonID, status)
}

// setStatus restricts the update to orders assigned to deliveryPersonID when it is set.
func (w *orderWorkflow) setStatus(ctx context.Context, orderID uint, deliveryPersonID *uint, status model.DeliveryStatus) (*model.Order, error) {
	if !status.Valid() {
		logger.Warn("Rejected invalid delivery status", map[string]interface{}{
			"order_id": orderID,
			"status":   status,
		})
		return nil, ErrInvalidDeliveryStatus
	}

	var updated *model.Order
	err := w.tm.Execute(ctx, func(repos repository.TxRepositories) error {
		order, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if deliveryPersonID != nil {
					return ErrOrderNotAssigned
				}
				return ErrOrderNotFound
			}
			return err
		}
		if deliveryPersonID != nil && !order.AssignedTo(*deliveryPersonID) {
			return ErrOrderNotAssigned
		}

		order.DeliveryStatus = status
		if status == model.DeliveryStatusDelivered && order.Status == model.OrderStatusPlaced {
			order.Status = model.OrderStatusDelivered
		}

		if err := repos.Orders().Update(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		logger.Warn("Failed to update delivery status", map[string]interface{}{
			"order_id": orderID,
			"status":   status,
			"error":    err.Error(),
		})
		return nil, err
	}

	logger.Info("Delivery status updated", map[string]interface{}{
		"order_id":        updated.ID,
		"delivery_status": updated.DeliveryStatus,
		"status":          updated.Status,
	})
	return updated, nil
}

func (w *orderWorkflow) ListAssignedOrders(ctx context.Context, deliveryPersonID uint, status model.DeliveryStatus) ([]model.Order, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidDeliveryStatus
	}
	return w.orderRepo.FindAll(ctx, repository.OrderFilter{
		DeliveryStatus:   status,
		DeliveryPersonID: &deliveryPersonID,
	})
}

func (w *orderWorkflow) GetAssignedOrder(ctx context.Context, deliveryPersonID, orderID uint) (*model.Order, error) {
	order, err := w.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotAssigned
		}
		return nil, err
	}
	if !order.AssignedTo(deliveryPersonID) {
		return nil, ErrOrderNotAssigned
	}
	return order, nil
}

func (w *orderWorkflow) validateDetails(input DeliveryDetailsInput) error {
	if err := w.validate.Struct(input); err != nil {
		return firstValidationError(err)
	}
	return nil
}

func (w *orderWorkflow) SubmitDeliveryDetails(ctx context.Context, orderID, deliveryPersonID uint, input DeliveryDetailsInput) (*model.DeliveryDetail, error) {
	logger.Info("Submitting delivery details", map[string]interface{}{
		"order_id":           orderID,
		"delivery_person_id": deliveryPersonID,
	})

	if _, err := w.GetAssignedOrder(ctx, deliveryPersonID, orderID); err != nil {
		return nil, err
	}

	if err := w.validateDetails(input); err != nil {
		logger.Warn("Delivery details failed validation", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return nil, err
	}

	if _, err := w.detailRepo.FindByOrderAndPerson(ctx, orderID, deliveryPersonID); err == nil {
		logger.Warn("Delivery details already submitted", map[string]interface{}{
			"order_id":           orderID,
			"delivery_person_id": deliveryPersonID,
		})
		return nil, ErrDeliveryDetailsExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	detail := &model.DeliveryDetail{
		OrderID:          orderID,
		DeliveryPersonID: deliveryPersonID,
		DeliveryCost:     *input.DeliveryCost,
		Mileage:          *input.Mileage,
		PetrolCost:       *input.PetrolCost,
		TimeSpent:        *input.TimeSpent,
		AdditionalNotes:  input.AdditionalNotes,
		SubmittedAt:      w.now(),
	}
	if err := w.detailRepo.Create(ctx, detail); err != nil {
		// a concurrent submission lost the race on the unique index
		if repository.IsDuplicateKey(err) {
			return nil, ErrDeliveryDetailsExists
		}
		return nil, err
	}

	logger.Info("Delivery details submitted", map[string]interface{}{
		"delivery_details_id": detail.ID,
		"order_id":            orderID,
		"delivery_person_id":  deliveryPersonID,
	})
	return detail, nil
}

func (w *orderWorkflow) GetDeliveryDetails(ctx context.Context, orderID, deliveryPersonID uint) (*model.DeliveryDetail, error) {
	detail, err := w.detailRepo.FindByOrderAndPerson(ctx, orderID, deliveryPersonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryDetailsNotFound
		}
		return nil, err
	}
	return detail, nil
}

func (w *orderWorkflow) UpdateDeliveryDetails(ctx context.Context, orderID, deliveryPersonID uint, input DeliveryDetailsInput) (*model.DeliveryDetail, error) {
	detail, err := w.GetDeliveryDetails(ctx, orderID, deliveryPersonID)
	if err != nil {
		return nil, err
	}

	if err := w.validateDetails(input); err != nil {
		return nil, err
	}

	detail.DeliveryCost = *input.DeliveryCost
	detail.Mileage = *input.Mileage
	detail.PetrolCost = *input.PetrolCost
	detail.TimeSpent = *input.TimeSpent
	detail.AdditionalNotes = input.AdditionalNotes

	if err := w.detailRepo.Update(ctx, detail); err != nil {
		return nil, err
	}

	logger.Info("Delivery details updated", map[string]interface{}{
		"delivery_details_id": detail.ID,
		"order_id":            orderID,
	})
	return detail, nil
}

func (w *orderWorkflow) DeleteDeliveryDetails(ctx context.Context, orderID, deliveryPersonID uint) error {
	detail, err := w.GetDeliveryDetails(ctx, orderID, deliveryPersonID)
	if err != nil {
		return err
	}
	if err := w.detailRepo.Delete(ctx, detail.ID); err != nil {
		return err
	}

	logger.Info("Delivery details deleted", map[string]interface{}{
		"delivery_details_id": detail.ID,
		"order_id":            orderID,
	})
	return nil
}

func (w *orderWorkflow) ListAllDeliveryDetails(ctx context.Context) ([]model.DeliveryDetail, error) {
	return w.detailRepo.FindAll(ctx)
}
