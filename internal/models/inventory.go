package models

import (
	"time"
)

// Column widths of the inventory table, in characters
const (
	MaxItemNameLen = 100
	MaxUnitLen     = 20
	MaxCategoryLen = 50
)

// InventoryItem is one pantry row owned by a single user
type InventoryItem struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	Name         string     `gorm:"size:100;not null;index" json:"name"`
	Quantity     float64    `gorm:"not null;default:0" json:"quantity"`
	Unit         string     `gorm:"size:20" json:"unit"`
	Category     string     `gorm:"size:50;default:'pantry'" json:"category"`
	PricePerUnit float64    `json:"price_per_unit"`
	IsExhausted  bool       `gorm:"not null;default:false" json:"is_exhausted"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
}

// TableName keeps the historical table name
func (InventoryItem) TableName() string {
	return "inventory"
}
