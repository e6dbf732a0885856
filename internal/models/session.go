package models

import (
	"time"
)

// Session outcome values stored on CookingSessionRecord.Status
const (
	SessionCompleted = "completed"
)

// MaxDishNameLen bounds recipe titles and dish names wherever they are stored
const (
	MaxDishNameLen       = 200
	MaxLeftoverAmountLen = 50
)

// CookingSessionRecord is the write-once summary of an ended mentor session
type CookingSessionRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   uint64    `gorm:"not null;index" json:"session_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	RecipeTitle string    `gorm:"size:200" json:"recipe_title"`
	StartedAt   time.Time `gorm:"not null" json:"started_at"`
	EndedAt     time.Time `gorm:"not null" json:"ended_at"`
	StepsViewed int       `json:"steps_viewed"`
	Rating      int       `json:"rating"`
	Leftovers   bool      `json:"leftovers"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	XPAwarded   int       `json:"xp_awarded"`
}

// MealLog records a rating given outside a mentor session
type MealLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	DishName       string    `gorm:"size:200;not null" json:"dish_name"`
	DateCooked     time.Time `gorm:"not null" json:"date_cooked"`
	Rating         int       `json:"rating"`
	LeftoverAmount string    `gorm:"size:50" json:"leftover_amount"`
	Comments       string    `gorm:"type:text" json:"comments"`
}
