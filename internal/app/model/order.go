package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the five order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	UserID    uint        `gorm:"not null;index" json:"userId"`
	Status    OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Subtotal  float64     `gorm:"not null" json:"subtotal"`
	Tax       float64     `gorm:"not null" json:"tax"`
	Shipping  float64     `gorm:"not null" json:"shipping"`
	Total     float64     `gorm:"not null" json:"total"`

	ShippingLine1   string `gorm:"not null" json:"shippingLine1"`
	ShippingLine2   string `json:"shippingLine2,omitempty"`
	ShippingCity    string `gorm:"not null" json:"shippingCity"`
	ShippingState   string `gorm:"not null" json:"shippingState"`
	ShippingPostal  string `gorm:"not null" json:"shippingPostal"`
	ShippingCountry string `gorm:"not null" json:"shippingCountry"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem freezes the product name and unit price at purchase time.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"orderId"`
	ProductID uint      `gorm:"not null;index" json:"productId"`
	Name      string    `gorm:"not null" json:"name"`
	Price     float64   `gorm:"not null" json:"price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
