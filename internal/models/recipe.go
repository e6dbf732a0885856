package models

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// SavedRecipe is a generated recipe the user chose to keep
type SavedRecipe struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	UserID           uint             `gorm:"not null;index" json:"user_id"`
	DishName         string           `gorm:"size:200;not null" json:"dish_name"`
	Description      string           `gorm:"type:text" json:"description"`
	Ingredients      JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps            CookingSteps     `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	TotalTimeMinutes int              `json:"total_time_minutes"`
	EffortScore      float64          `gorm:"default:5" json:"effort_score"`
	Embedding        pgvector.Vector  `gorm:"type:vector(16)" json:"-"`
}
