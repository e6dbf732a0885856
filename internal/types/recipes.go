package types

import (
	"time"

	"github.com/himanshu-anonymous/CookMate/internal/models"
)

// RecipeRequest asks the chef for one dish
type RecipeRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	MealType    string `json:"meal_type"`
	EffortLevel string `json:"effort_level"`
	Craving     string `json:"craving"`
}

// Recipe is the structured dish returned by the chef
type Recipe struct {
	DishName         string               `json:"dish_name"`
	Description      string               `json:"description"`
	Ingredients      []string             `json:"ingredients"`
	Steps            []models.CookingStep `json:"steps"`
	TotalTimeMinutes int                  `json:"total_time_minutes"`
	EffortScore      float64              `json:"effort_score"`
}

// RecipeDraft is a generated recipe held in the draft cache
type RecipeDraft struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Fallback  bool      `json:"fallback"`
	Recipe    Recipe    `json:"recipe"`
}

// SaveRecipeRequest persists a cached draft
type SaveRecipeRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	DraftID string `json:"draft_id" binding:"required"`
}

// SearchRequest looks for dishes that fit the pantry
type SearchRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Query  string `json:"query" binding:"required"`
}

// SearchResult is one ranked suggestion
type SearchResult struct {
	Title         string `json:"title"`
	MatchScore    int    `json:"match_score"`
	Source        string `json:"source"`
	SavedRecipeID *uint  `json:"saved_recipe_id,omitempty"`
}

// RateMealRequest records feedback for a cooked dish
type RateMealRequest struct {
	UserID         uint   `json:"user_id" binding:"required"`
	DishName       string `json:"dish_name" binding:"required,max=200"`
	Rating         int    `json:"rating" binding:"required,min=1,max=5"`
	LeftoverAmount string `json:"leftover_amount" binding:"max=50"`
	Comments       string `json:"comments"`
}

// SubstituteRequest asks for a replacement ingredient
type SubstituteRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	Ingredient string `json:"ingredient" binding:"required"`
	Recipe     string `json:"recipe"`
}

// Substitution is the chef's replacement advice
type Substitution struct {
	Substitute string `json:"substitute"`
	Advice     string `json:"advice"`
}

// DayPlanRequest asks for a breakfast, lunch and dinner plan
type DayPlanRequest struct {
	UserID         uint     `json:"user_id" binding:"required"`
	DietPreference []string `json:"diet_preference"`
}

// DayPlan names one dish per meal slot
type DayPlan struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}
