package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Slug           string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string         `gorm:"type:text" json:"description"`
	Price          float64        `gorm:"not null" json:"price"`
	CompareAtPrice *float64       `json:"compareAtPrice,omitempty"`
	Brand          string         `gorm:"index" json:"brand"`
	Images         []string       `gorm:"serializer:json" json:"images"`
	InStock        bool           `json:"inStock"`
	StockCount     int            `gorm:"default:0" json:"stockCount"`
	Rating         float64        `gorm:"default:0" json:"rating"`
	ReviewCount    int            `gorm:"default:0" json:"reviewCount"`
	CategoryID     uint           `gorm:"not null;index" json:"categoryId"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Category   Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Reviews    []Review    `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
