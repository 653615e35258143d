package models

import "time"

// DeliveryStatus represents the states of a delivery assignment
type DeliveryStatus string

const (
	DeliveryPending       DeliveryStatus = "PENDING"
	DeliveryAssigned      DeliveryStatus = "ASSIGNED"
	DeliveryInProgress    DeliveryStatus = "IN_PROGRESS"
	DeliveryDelivered     DeliveryStatus = "DELIVERED"
	DeliveryCancelled     DeliveryStatus = "CANCELLED"
	DeliveryIssueReported DeliveryStatus = "ISSUE_REPORTED"
)

// IsActive reports whether a delivery in this status is being worked on
// and therefore eligible for issue reporting.
func (s DeliveryStatus) IsActive() bool {
	return s == DeliveryAssigned || s == DeliveryInProgress
}

// IsTerminal reports whether the delivery can no longer move.
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryDelivered || s == DeliveryCancelled || s == DeliveryIssueReported
}

// Delivery tracks a deliverer's handling of exactly one order.
type Delivery struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	OrderID          uint           `json:"order_id" gorm:"uniqueIndex;not null"`
	Order            Order          `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	DelivererID      uint           `json:"deliverer_id" gorm:"not null"`
	Deliverer        User           `json:"deliverer,omitempty" gorm:"foreignKey:DelivererID"`
	Status           DeliveryStatus `json:"status" gorm:"not null;default:'PENDING'"`
	IssueDescription string         `json:"issue_description"`
	DeliveredAt      *time.Time     `json:"delivered_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
