package model

import "time"

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_product_wishlist" json:"userId"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_user_product_wishlist" json:"productId"`
	CreatedAt time.Time `json:"createdAt"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
