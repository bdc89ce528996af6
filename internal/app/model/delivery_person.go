package model

import (
	"time"
)

type DeliveryPersonStatus string

const (
	DeliveryPersonActive   DeliveryPersonStatus = "active"
	DeliveryPersonInactive DeliveryPersonStatus = "inactive"
)

func (s DeliveryPersonStatus) Valid() bool {
	return s == DeliveryPersonActive || s == DeliveryPersonInactive
}

type DeliveryPerson struct {
	ID            uint                 `gorm:"primarykey" json:"id"`
	Name          string               `gorm:"not null" json:"name"`
	Email         string               `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string               `gorm:"not null" json:"-"`
	Phone         string               `gorm:"not null" json:"phone"`
	VehicleNumber string               `json:"vehicleNumber"`
	LicenseNumber string               `json:"licenseNumber"`
	Status        DeliveryPersonStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func (DeliveryPerson) TableName() string {
	return "delivery_persons"
}

// Snapshot returns the fields copied onto an order at assignment time.
func (p *DeliveryPerson) Snapshot() DeliveryPersonSnapshot {
	id := p.ID
	return DeliveryPersonSnapshot{
		PersonID: &id,
		Name:     p.Name,
		Email:    p.Email,
		Phone:    p.Phone,
	}
}
