package types

import (
	"time"

	"github.com/himanshu-anonymous/CookMate/internal/models"
)

// InventoryItemCreate is one row of a bulk-add payload
type InventoryItemCreate struct {
	Name         string     `json:"name" binding:"required,max=100"`
	Quantity     float64    `json:"quantity" binding:"gte=0"`
	Unit         string     `json:"unit" binding:"max=20"`
	Category     string     `json:"category" binding:"max=50"`
	PricePerUnit float64    `json:"price_per_unit" binding:"gte=0"`
	ExpiryDate   *time.Time `json:"expiry_date"`
}

// BulkAddResult reports what a bulk add changed
type BulkAddResult struct {
	Status  string                 `json:"status"`
	Created int                    `json:"created"`
	Updated int                    `json:"updated"`
	Items   []models.InventoryItem `json:"items"`
}

// ShoppingItem is one suggested purchase
type ShoppingItem struct {
	Name         string  `json:"name"`
	SuggestedQty float64 `json:"suggested_qty"`
	Reason       string  `json:"reason"`
}

// ImageRequest carries a base64 encoded photo
type ImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// ScannedItem is a line item read off a grocery bill
type ScannedItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Price      float64 `json:"price"`
	ExpiryDays int     `json:"expiry_days"`
	Category   string  `json:"category"`
}

// ScanBillResponse lists the extracted items and how they were stored
type ScanBillResponse struct {
	Items    []ScannedItem `json:"items"`
	Added    BulkAddResult `json:"added"`
	ImageURL string        `json:"image_url,omitempty"`
}

// DetectedItems is the pantry photo tagging result
type DetectedItems struct {
	DetectedItems []string `json:"detected_items"`
}
