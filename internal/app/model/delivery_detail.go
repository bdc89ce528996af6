package model

import (
	"time"
)

// DeliveryDetail is the cost report a delivery person files for an order.
// At most one exists per (order, delivery person).
type DeliveryDetail struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OrderID          uint      `gorm:"not null;uniqueIndex:idx_delivery_details_order_person" json:"orderId"`
	DeliveryPersonID uint      `gorm:"not null;uniqueIndex:idx_delivery_details_order_person;index" json:"deliveryPersonId"`
	DeliveryCost     float64   `gorm:"not null" json:"deliveryCost"`
	Mileage          float64   `gorm:"not null" json:"mileage"`
	PetrolCost       float64   `gorm:"not null" json:"petrolCost"`
	TimeSpent        float64   `gorm:"not null" json:"timeSpent"`
	AdditionalNotes  string    `gorm:"type:text" json:"additionalNotes"`
	SubmittedAt      time.Time `json:"submittedAt"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	DeliveryPerson *DeliveryPerson `gorm:"foreignKey:DeliveryPersonID;constraint:-" json:"deliveryPerson,omitempty"`
}

func (DeliveryDetail) TableName() string {
	return "delivery_details"
}
