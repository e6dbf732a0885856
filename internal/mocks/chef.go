package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/pantry"
	"github.com/himanshu-anonymous/CookMate/internal/service"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

// MockChef is a mock implementation of service.ChefClient
type MockChef struct {
	mock.Mock
}

var _ service.ChefClient = (*MockChef)(nil)

// GenerateRecipe mocks the GenerateRecipe method
func (m *MockChef) GenerateRecipe(ctx context.Context, prompt service.RecipePrompt) (*types.Recipe, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

// ProposeDeductions mocks the ProposeDeductions method
func (m *MockChef) ProposeDeductions(ctx context.Context, consumed []string, inventory []models.InventoryItem) ([]pantry.Deduction, error) {
	args := m.Called(ctx, consumed, inventory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pantry.Deduction), args.Error(1)
}

// ParseBill mocks the ParseBill method
func (m *MockChef) ParseBill(ctx context.Context, imageBase64 string) ([]types.ScannedItem, error) {
	args := m.Called(ctx, imageBase64)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ScannedItem), args.Error(1)
}

// SuggestSubstitute mocks the SuggestSubstitute method
func (m *MockChef) SuggestSubstitute(ctx context.Context, ingredient, dish string, allergies []string) (*types.Substitution, error) {
	args := m.Called(ctx, ingredient, dish, allergies)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Substitution), args.Error(1)
}

// PlanMeal mocks the PlanMeal method
func (m *MockChef) PlanMeal(ctx context.Context, slot string, pantryNames, preferences []string, goal string) (string, error) {
	args := m.Called(ctx, slot, pantryNames, preferences, goal)
	return args.String(0), args.Error(1)
}

// SearchRecipes mocks the SearchRecipes method
func (m *MockChef) SearchRecipes(ctx context.Context, query string, pantryNames []string) ([]types.SearchResult, error) {
	args := m.Called(ctx, query, pantryNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.SearchResult), args.Error(1)
}

// CheckCookingProgress mocks the CheckCookingProgress method
func (m *MockChef) CheckCookingProgress(ctx context.Context, instruction, imageBase64 string) (*types.ProgressCheck, error) {
	args := m.Called(ctx, instruction, imageBase64)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProgressCheck), args.Error(1)
}
