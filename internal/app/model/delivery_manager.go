package model

import (
	"time"
)

type DeliveryManager struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	PhoneNumber  string    `json:"phoneNumber"`
	AssignedArea string    `gorm:"index" json:"assignedArea"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (DeliveryManager) TableName() string {
	return "delivery_managers"
}
