package models

import (
	"time"
)

// Persona selects the tone the recipe collaborator writes in
type Persona string

const (
	PersonaHosteler   Persona = "hosteler"
	PersonaIndianMom  Persona = "indian_mom"
	PersonaGymBro     Persona = "gym_bro"
	PersonaMasterChef Persona = "master_chef"
)

// Valid reports whether p is a known persona
func (p Persona) Valid() bool {
	switch p {
	case PersonaHosteler, PersonaIndianMom, PersonaGymBro, PersonaMasterChef:
		return true
	}
	return false
}

// User is a pantry owner with a nutritional profile and gamification counters
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `gorm:"size:50;not null;uniqueIndex" json:"username"`

	Age          int     `json:"age"`
	Weight       float64 `json:"weight"`
	Height       float64 `json:"height"`
	Gender       string  `gorm:"size:20" json:"gender"`
	Persona      Persona `gorm:"size:20;not null;default:'hosteler'" json:"persona"`
	HealthGoal   string  `gorm:"size:100;default:'Balanced'" json:"health_goal"`
	RotisPerMeal int     `gorm:"not null" json:"rotis_per_meal"`
	CookingSkill string  `gorm:"size:20;default:'beginner'" json:"cooking_skill"`

	MedicalConditions  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"medical_conditions"`
	Allergies          JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	DietaryPreferences JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"dietary_preferences"`
	FavCuisine         JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"fav_cuisine"`
	SpiceTolerance     string           `gorm:"size:20;default:'medium'" json:"spice_tolerance"`
	WeeklyBudget       float64          `json:"weekly_budget"`
	CurrentEffortLevel string           `gorm:"size:20;default:'normal'" json:"current_effort_level"`

	PortionMultiplier float64    `gorm:"not null;default:1" json:"portion_multiplier"`
	XPPoints          int        `gorm:"not null;default:0" json:"xp_points"`
	CurrentStreak     int        `gorm:"not null;default:0" json:"current_streak"`
	LastCookedDate    *time.Time `json:"last_cooked_date,omitempty"`

	Badges []Badge `gorm:"constraint:OnDelete:CASCADE" json:"badges"`
}

// Badge is an append-only award. A user holds each badge name at most once.
type Badge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_badge_user_name" json:"user_id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_badge_user_name" json:"name"`
	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
}
