package models

import "time"

// Cart holds the pre-checkout product lines of one user. Exactly one
// cart per user, created lazily on first access.
type Cart struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Items     []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one product line in a cart. At most one line per
// (cart, product) pair — adding the same product again increments
// the quantity instead of duplicating the line.
type CartItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CartID       uint      `json:"cart_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID    uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	Product      Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	IsCustomized bool      `json:"is_customized" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
