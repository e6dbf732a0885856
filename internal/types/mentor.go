package types

import "github.com/himanshu-anonymous/CookMate/internal/models"

// StartSessionRequest opens a mentor session. Steps come from the payload,
// or from a cached draft when DraftID is set.
type StartSessionRequest struct {
	UserID      uint                 `json:"user_id" binding:"required"`
	RecipeTitle string               `json:"recipe_title" binding:"max=200"`
	Steps       []models.CookingStep `json:"steps"`
	DraftID     string               `json:"draft_id"`
}

// StartSessionResponse describes the first step
type StartSessionResponse struct {
	SessionID     uint64 `json:"session_id"`
	StepNumber    int    `json:"step_number"`
	Instruction   string `json:"instruction"`
	TimerSeconds  int    `json:"timer_seconds"`
	Message       string `json:"message"`
	AllStepTimers []int  `json:"all_step_timers"`
}

// NextStepResponse describes the step under the cursor after advancing
type NextStepResponse struct {
	SessionID   uint64 `json:"session_id"`
	Step        int    `json:"step"`
	Instruction string `json:"instruction"`
	Timer       int    `json:"timer"`
	Finished    bool   `json:"finished"`
}

// EndSessionRequest closes a session with feedback and what was used
type EndSessionRequest struct {
	SessionID           uint64   `json:"session_id" binding:"required"`
	Rating              int      `json:"rating" binding:"required,min=1,max=5"`
	Leftovers           bool     `json:"leftovers"`
	IngredientsConsumed []string `json:"ingredients_consumed"`
}

// EndSessionResponse summarises what ending the session changed
type EndSessionResponse struct {
	Status             string   `json:"status"`
	NewXP              int      `json:"new_xp"`
	CurrentStreak      int      `json:"current_streak"`
	InventoryUpdates   int      `json:"inventory_updates"`
	PortionAdjustment  string   `json:"portion_adjustment"`
	PortionMultiplier  float64  `json:"portion_multiplier"`
	ReorderSuggestions []string `json:"reorder_suggestions"`
	BadgesEarned       []string `json:"badges_earned"`
	DeductionSource    string   `json:"deduction_source"`
}

// ProgressCheck is the chef's verdict on a photo of the current step
type ProgressCheck struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Correction string `json:"correction,omitempty"`
}
