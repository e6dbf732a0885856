package types

import "github.com/himanshu-anonymous/CookMate/internal/models"

// CreateUserRequest is the onboarding payload
type CreateUserRequest struct {
	Username           string   `json:"username" binding:"required,max=50"`
	Age                int      `json:"age" binding:"gte=0"`
	Weight             float64  `json:"weight" binding:"gte=0"`
	Height             float64  `json:"height" binding:"gte=0"`
	Gender             string   `json:"gender" binding:"max=20"`
	Persona            string   `json:"persona" binding:"max=20"`
	HealthGoal         string   `json:"health_goal" binding:"max=100"`
	RotisPerMeal       *int     `json:"rotis_per_meal"`
	CookingSkill       string   `json:"cooking_skill" binding:"max=20"`
	MedicalConditions  []string `json:"medical_conditions"`
	Allergies          []string `json:"allergies"`
	DietaryPreferences []string `json:"dietary_preferences"`
	SpiceTolerance     string   `json:"spice_tolerance" binding:"max=20"`
	FavCuisine         []string `json:"fav_cuisine"`
	WeeklyBudget       float64  `json:"weekly_budget" binding:"gte=0"`
	CurrentEffortLevel string   `json:"current_effort_level" binding:"max=20"`
}

// UserResponse is a profile plus an optional bearer token
type UserResponse struct {
	*models.User
	Token string `json:"token,omitempty"`
}
