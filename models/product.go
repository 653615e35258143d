package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"not null;type:decimal(10,2)"`
	CategoryID  uint            `json:"category_id"`
	Category    Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	VendorID    uint            `json:"vendor_id" gorm:"not null"`
	Vendor      User            `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	ImagePath   string          `json:"image_path"`
	Approved    bool            `json:"approved" gorm:"default:false"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
