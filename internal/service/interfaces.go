package service

import (
	"context"

	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/pantry"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

// RecipePrompt is everything the chef is told about the cook and the pantry
type RecipePrompt struct {
	Persona            models.Persona
	Pantry             []string
	Expiring           []string
	HealthGoal         string
	Allergies          []string
	DietaryPreferences []string
	MedicalConditions  []string
	MealType           string
	EffortLevel        string
	Craving            string
	PortionMultiplier  float64
}

// ChefClient is the AI collaborator. Every method may fail with an error
// wrapping ErrExternalService; callers own the fallback.
type ChefClient interface {
	GenerateRecipe(ctx context.Context, prompt RecipePrompt) (*types.Recipe, error)
	ProposeDeductions(ctx context.Context, consumed []string, inventory []models.InventoryItem) ([]pantry.Deduction, error)
	ParseBill(ctx context.Context, imageBase64 string) ([]types.ScannedItem, error)
	SuggestSubstitute(ctx context.Context, ingredient, dish string, allergies []string) (*types.Substitution, error)
	PlanMeal(ctx context.Context, slot string, pantryNames, preferences []string, goal string) (string, error)
	SearchRecipes(ctx context.Context, query string, pantryNames []string) ([]types.SearchResult, error)
	CheckCookingProgress(ctx context.Context, instruction, imageBase64 string) (*types.ProgressCheck, error)
}

// DraftStore caches generated recipes until the user saves or cooks them
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *types.RecipeDraft) error
	GetDraft(ctx context.Context, id string) (*types.RecipeDraft, error)
}

// ImageArchive stores uploaded photos
type ImageArchive interface {
	PutImage(ctx context.Context, objectKey string, data []byte, contentType string) error
}

// LabelDetector tags the contents of a photo
type LabelDetector interface {
	DetectLabels(ctx context.Context, image []byte) ([]string, error)
}
