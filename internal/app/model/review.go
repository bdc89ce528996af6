package model

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is unique per (product, user).
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_reviews_product_user" json:"productId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_product_user" json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Review) TableName() string {
	return "reviews"
}
