package model

import "time"

// Review rows are hard-deleted so the (user, product) unique index allows a
// user to review a product again after removing their review.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_product_review" json:"userId"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_user_product_review" json:"productId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Title     string    `json:"title,omitempty"`
	Body      string    `gorm:"type:text" json:"body,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
