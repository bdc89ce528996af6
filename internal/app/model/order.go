package model

import (
	"fmt"
	"time"
)

type OrderStatus string    // customer-facing order state
type PaymentStatus string  // payment outcome
type PaymentMethod string  // how the customer pays
type DeliveryStatus string // logistics state driven by delivery staff

const (
	OrderStatusPlaced          OrderStatus = "placed"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusRefundRequested OrderStatus = "refund_requested"
	OrderStatusRefunded        OrderStatus = "refunded"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodPayHere        PaymentMethod = "payhere"

	DeliveryStatusProcessing DeliveryStatus = "processing"
	DeliveryStatusPickedUp   DeliveryStatus = "pickedup"
	DeliveryStatusDelivered  DeliveryStatus = "delivered"
	DeliveryStatusCancelled  DeliveryStatus = "cancelled"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusProcessing, DeliveryStatusPickedUp, DeliveryStatusDelivered, DeliveryStatusCancelled:
		return true
	}
	return false
}

// Terminal statuses release the assigned delivery person.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusCancelled
}

// TerminalDeliveryStatuses are the statuses that no longer block deleting
// the assigned delivery person.
func TerminalDeliveryStatuses() []DeliveryStatus {
	return []DeliveryStatus{DeliveryStatusDelivered, DeliveryStatusCancelled}
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCashOnDelivery, PaymentMethodPayHere:
		return true
	}
	return false
}

// DeliveryPersonSnapshot is copied onto the order at assignment time and is
// not refreshed when the delivery person's profile changes.
type DeliveryPersonSnapshot struct {
	PersonID *uint  `gorm:"column:id;index" json:"id"`
	Name     string `gorm:"column:name" json:"name"`
	Email    string `gorm:"column:email" json:"email"`
	Phone    string `gorm:"column:phone" json:"phone"`
}

type Order struct {
	ID              uint                   `gorm:"primarykey" json:"id"`
	UserID          uint                   `gorm:"not null;index" json:"userId"`
	CustomerName    string                 `gorm:"not null" json:"customerName"`
	CustomerEmail   string                 `gorm:"not null" json:"customerEmail"`
	CustomerPhone   string                 `json:"customerPhone"`
	ShippingAddress string                 `gorm:"type:text;not null" json:"shippingAddress"`
	ShippingCity    string                 `gorm:"index" json:"shippingCity"`
	TotalAmount     float64                `gorm:"not null" json:"totalAmount"`
	PaymentMethod   PaymentMethod          `gorm:"type:varchar(30);not null" json:"paymentMethod"`
	PaymentStatus   PaymentStatus          `gorm:"type:varchar(20);default:'pending'" json:"paymentStatus"`
	Status          OrderStatus            `gorm:"type:varchar(30);default:'placed'" json:"status"`
	DeliveryStatus  DeliveryStatus         `gorm:"type:varchar(20);default:'processing';index" json:"deliveryStatus"`
	DeliveryPerson  DeliveryPersonSnapshot `gorm:"embedded;embeddedPrefix:delivery_person_" json:"deliveryPerson"`
	AssignedAt      *time.Time             `json:"assignedAt,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`

	Items           []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	DeliveryDetails []DeliveryDetail `gorm:"foreignKey:OrderID" json:"deliveryDetails,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderNumber is the display form used in refunds and emails.
func (o *Order) OrderNumber() string {
	return fmt.Sprintf("ORD-%06d", o.ID)
}

// AssignedTo reports whether the snapshot points at deliveryPersonID.
func (o *Order) AssignedTo(deliveryPersonID uint) bool {
	return o.DeliveryPerson.PersonID != nil && *o.DeliveryPerson.PersonID == deliveryPersonID
}

type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"orderId"`
	ProductID *uint     `gorm:"index" json:"productId,omitempty"`
	Brand     string    `gorm:"not null" json:"brand"`
	Model     string    `gorm:"not null" json:"model"`
	Color     string    `json:"color"`
	Size      string    `json:"size"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
