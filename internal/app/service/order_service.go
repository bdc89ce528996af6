package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrEmptyOrder             = errors.New("order has no items")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
	ErrInvalidPaymentStatus   = errors.New("invalid payment status")
	ErrShippingAddressMissing = errors.New("shipping address is required")
)

type OrderItemInput struct {
	ProductID uint
	Color     string
	Size      string
	Quantity  int
}

// CreateOrderInput falls back to the caller's cart when Items is empty.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress string
	ShippingCity    string
	CustomerPhone   string
	PaymentMethod   model.PaymentMethod
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID uint, input CreateOrderInput) (*model.Order, error)
	GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error)
	GetOrderByID(ctx context.Context, userID, orderID uint) (*model.Order, error)
	UpdatePaymentStatus(ctx context.Context, userID, orderID uint, status model.PaymentStatus) (*model.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*model.Order, error)
}

type orderService struct {
	tm        repository.TransactionManager
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
}

func NewOrderService(
	tm repository.TransactionManager,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
) OrderService {
	return &orderService{
		tm:        tm,
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

// CreateOrder locks each product, checks stock and prices the order from the
// catalog. The submitted cart is cleared in the same transaction.
func (s *orderService) CreateOrder(ctx context.Context, userID uint, input CreateOrderInput) (*model.Order, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id":        userID,
		"item_count":     len(input.Items),
		"payment_method": input.PaymentMethod,
	})

	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, ErrShippingAddressMissing
	}
	if !input.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	customer, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var created *model.Order
	err = s.tm.Execute(ctx, func(repos repository.TxRepositories) error {
		items := input.Items
		fromCart := len(items) == 0
		if fromCart {
			cartItems, err := repos.Carts().FindByUserID(ctx, userID)
			if err != nil {
				return err
			}
			for _, ci := range cartItems {
				items = append(items, OrderItemInput{
					ProductID: ci.ProductID,
					Color:     ci.Color,
					Size:      ci.Size,
					Quantity:  ci.Quantity,
				})
			}
		}
		if len(items) == 0 {
			logger.Warn("Cannot create order: no items", map[string]interface{}{
				"user_id": userID,
			})
			return ErrEmptyOrder
		}

		var (
			totalAmount float64
			orderItems  []model.OrderItem
		)
		for _, item := range items {
			product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Warn("Product not found during order creation", map[string]interface{}{
						"user_id":    userID,
						"product_id": item.ProductID,
					})
					return ErrProductNotFound
				}
				return err
			}
			if !model.HasOption(product.Colors, item.Color) || !model.HasOption(product.Sizes, item.Size) {
				return ErrInvalidProductOption
			}
			if product.StockQuantity < item.Quantity {
				logger.Warn("Order creation failed: insufficient product stock", map[string]interface{}{
					"user_id":    userID,
					"product_id": product.ID,
					"requested":  item.Quantity,
					"available":  product.StockQuantity,
				})
				return ErrInsufficientStock
			}
			if err := repos.Products().UpdateStock(ctx, product.ID, -item.Quantity); err != nil {
				return err
			}

			productID := product.ID
			orderItems = append(orderItems, model.OrderItem{
				ProductID: &productID,
				Brand:     product.Brand,
				Model:     product.Model,
				Color:     item.Color,
				Size:      item.Size,
				Quantity:  item.Quantity,
				Price:     product.Price,
				ImageURL:  product.ImageURL,
			})
			totalAmount += product.Price * float64(item.Quantity)
		}

		phone := input.CustomerPhone
		if phone == "" {
			phone = customer.Phone
		}
		order := &model.Order{
			UserID:          userID,
			CustomerName:    customer.Name,
			CustomerEmail:   customer.Email,
			CustomerPhone:   phone,
			ShippingAddress: input.ShippingAddress,
			ShippingCity:    strings.TrimSpace(input.ShippingCity),
			TotalAmount:     totalAmount,
			PaymentMethod:   input.PaymentMethod,
			PaymentStatus:   model.PaymentStatusPending,
			Status:          model.OrderStatusPlaced,
			DeliveryStatus:  model.DeliveryStatusProcessing,
			Items:           orderItems,
		}
		if err := repos.Orders().Create(ctx, order); err != nil {
			return err
		}

		if fromCart {
			if err := repos.Carts().DeleteByUserID(ctx, userID); err != nil {
				return err
			}
		}

		created, err = repos.Orders().FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"user_id":      userID,
		"order_id":     created.ID,
		"total_amount": created.TotalAmount,
		"item_count":   len(created.Items),
	})
	return created, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("User orders fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdatePaymentStatus records the gateway outcome for a pending payment.
func (s *orderService) UpdatePaymentStatus(ctx context.Context, userID, orderID uint, status model.PaymentStatus) (*model.Order, error) {
	logger.Info("Updating payment status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if status != model.PaymentStatusPaid && status != model.PaymentStatusFailed {
		return nil, ErrInvalidPaymentStatus
	}

	order, err := s.GetOrderByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == model.PaymentStatusPaid || order.PaymentStatus == model.PaymentStatusRefunded {
		logger.Warn("Payment status already settled", map[string]interface{}{
			"order_id":       orderID,
			"payment_status": order.PaymentStatus,
		})
		return nil, ErrInvalidPaymentStatus
	}

	order.PaymentStatus = status
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	if filter.DeliveryStatus != "" && !filter.DeliveryStatus.Valid() {
		return nil, ErrInvalidDeliveryStatus
	}
	return s.orderRepo.FindAll(ctx, filter)
}
