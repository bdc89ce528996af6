package model

import (
	"time"
)

type RefundStatus string
type ContactPreference string

const (
	RefundStatusPending  RefundStatus = "pending"
	RefundStatusApproved RefundStatus = "approved"
	RefundStatusRejected RefundStatus = "rejected"

	ContactByEmail ContactPreference = "email"
	ContactByPhone ContactPreference = "phone"
)

// Decision reports whether s is a status a manager may set.
func (s RefundStatus) Decision() bool {
	return s == RefundStatusApproved || s == RefundStatusRejected
}

func (p ContactPreference) Valid() bool {
	return p == ContactByEmail || p == ContactByPhone
}

type Refund struct {
	ID                uint              `gorm:"primarykey" json:"id"`
	OrderID           uint              `gorm:"not null;uniqueIndex" json:"orderId"`
	UserID            uint              `gorm:"not null;index" json:"userId"`
	OrderNumber       string            `gorm:"not null" json:"orderNumber"`
	Reason            string            `gorm:"not null" json:"reason"`
	Description       string            `gorm:"type:text" json:"description"`
	Images            []string          `gorm:"serializer:json" json:"images"`
	ContactPreference ContactPreference `gorm:"type:varchar(10);not null" json:"contactPreference"`
	ContactDetails    string            `gorm:"not null" json:"contactDetails"`
	Status            RefundStatus      `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	AdminNote         string            `gorm:"type:text" json:"adminNote,omitempty"`
	ResolvedAt        *time.Time        `json:"resolvedAt,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

func (Refund) TableName() string {
	return "refunds"
}
