package repository

import (
	"context"
	"strings"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter narrows FindAll. Zero values are ignored.
type OrderFilter struct {
	DeliveryStatus   model.DeliveryStatus
	City             string
	DeliveryPersonID *uint
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	FindByUserID(ctx context.Context, userID uint) ([]model.Order, error)
	FindAll(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	CountActiveByDeliveryPerson(ctx context.Context, deliveryPersonID uint) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("DeliveryDetails", func(db *gorm.DB) *gorm.DB {
			return db.Order("submitted_at DESC")
		})
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.Items),
	})

	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":      order.UserID,
			"total_amount": order.TotalAmount,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	})
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder(ctx).First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id":        order.ID,
		"user_id":         order.UserID,
		"status":          order.Status,
		"delivery_status": order.DeliveryStatus,
	})
	return &order, nil
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	if err := r.preloadOrder(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindAll(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	logger.Debug("Finding orders in database", map[string]interface{}{
		"delivery_status": filter.DeliveryStatus,
		"city":            filter.City,
	})

	query := r.preloadOrder(ctx)
	if filter.DeliveryStatus != "" {
		query = query.Where("delivery_status = ?", filter.DeliveryStatus)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("LOWER(shipping_city) = ?", strings.ToLower(city))
	}
	if filter.DeliveryPersonID != nil {
		query = query.Where("delivery_person_id = ?", *filter.DeliveryPersonID)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders in database", err, map[string]interface{}{
			"delivery_status": filter.DeliveryStatus,
			"city":            filter.City,
		})
		return nil, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

// Update saves the order row only. Items and delivery details are left alone.
func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id":        order.ID,
		"status":          order.Status,
		"delivery_status": order.DeliveryStatus,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	logger.Debug("Order updated in database", map[string]interface{}{
		"order_id":        order.ID,
		"status":          order.Status,
		"payment_status":  order.PaymentStatus,
		"delivery_status": order.DeliveryStatus,
	})
	return nil
}

func (r *orderRepository) CountActiveByDeliveryPerson(ctx context.Context, deliveryPersonID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("delivery_person_id = ?", deliveryPersonID).
		Where("delivery_status NOT IN ?", model.TerminalDeliveryStatuses()).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count active orders for delivery person", err, map[string]interface{}{
			"delivery_person_id": deliveryPersonID,
		})
		return 0, err
	}

	logger.Debug("Counted active orders for delivery person", map[string]interface{}{
		"delivery_person_id": deliveryPersonID,
		"count":              count,
	})
	return count, nil
}
