package service

import (
	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

// Deterministic answers served when a collaborator call fails.

func fallbackRecipe() types.Recipe {
	return types.Recipe{
		DishName:    "Emergency Pantry Pasta",
		Description: "AI was unreachable.",
		Ingredients: []string{"Pasta", "Oil"},
		Steps: []models.CookingStep{
			{StepNumber: 1, Instruction: "Boil pasta.", DurationSeconds: 600},
		},
		TotalTimeMinutes: 15,
		EffortScore:      1.0,
	}
}

func fallbackSubstitution() types.Substitution {
	return types.Substitution{
		Substitute: "Skip it",
		Advice:     "Just omit this ingredient.",
	}
}

var fallbackMeals = map[string]string{
	"breakfast": "Oats",
	"lunch":     "Rice",
	"dinner":    "Salad",
}

func fallbackProgress() types.ProgressCheck {
	return types.ProgressCheck{
		Status:  "error",
		Message: "Vision system offline. Please check manually.",
	}
}
