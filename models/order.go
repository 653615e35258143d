package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of a customer order
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderPaid       OrderStatus = "PAID"
	OrderFailed     OrderStatus = "FAILED"
)

// CanBeCancelled reports whether an order in this status may still be
// cancelled by the customer.
func (s OrderStatus) CanBeCancelled() bool {
	return s == OrderPending || s == OrderInProgress
}

// Order is the immutable-items, mutable-status record of a checkout.
// Items are snapshotted at assembly time and never change afterwards;
// only the status (and its update timestamp) moves.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	CustomerID      uint            `json:"customer_id" gorm:"not null"`
	Customer        User            `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Status          OrderStatus     `json:"status" gorm:"not null;default:'PENDING'"`
	Amount          decimal.Decimal `json:"amount" gorm:"not null;type:decimal(10,2)"`
	Currency        string          `json:"currency" gorm:"not null"`
	TransactionID   string          `json:"transaction_id" gorm:"uniqueIndex;not null"`
	DeliveryAddress string          `json:"delivery_address" gorm:"not null"`
	DeliveryModeID  uint            `json:"delivery_mode_id"`
	Phone           string          `json:"phone"`
	Items           []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is a snapshot of one cart line at assembly time.
type OrderItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OrderID      uint            `json:"order_id" gorm:"not null"`
	ProductID    uint            `json:"product_id" gorm:"not null"`
	Product      Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	Price        decimal.Decimal `json:"price" gorm:"not null;type:decimal(10,2)"` // unit price at order time
	IsCustomized bool            `json:"is_customized" gorm:"default:false"`
	ImagePath    string          `json:"image_path"` // product image at order time
	CreatedAt    time.Time       `json:"created_at"`
}
