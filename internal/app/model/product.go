package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryRunning ProductCategory = "running"
	CategoryCasual  ProductCategory = "casual"
	CategoryFormal  ProductCategory = "formal"
	CategorySports  ProductCategory = "sports"
	CategoryBoots   ProductCategory = "boots"
	CategorySandals ProductCategory = "sandals"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryRunning, CategoryCasual, CategoryFormal, CategorySports, CategoryBoots, CategorySandals:
		return true
	}
	return false
}

// HasOption reports whether value is listed in options. An empty option list
// accepts any value.
func HasOption(options []string, value string) bool {
	if len(options) == 0 {
		return true
	}
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Brand         string          `gorm:"not null;index" json:"brand"`
	Model         string          `gorm:"not null" json:"model"`
	Description   string          `gorm:"type:text" json:"description"`
	Category      ProductCategory `gorm:"type:varchar(50);index" json:"category"`
	Price         float64         `gorm:"not null" json:"price"`
	Colors        []string        `gorm:"serializer:json" json:"colors"`
	Sizes         []string        `gorm:"serializer:json" json:"sizes"`
	StockQuantity int             `gorm:"default:0" json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Reviews []Review `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
