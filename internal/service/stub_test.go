package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/pantry"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

var errChefDown = fmt.Errorf("%w: stub offline", ErrExternalService)

// stubChef answers from canned values; a nil value means the call fails
type stubChef struct {
	mu sync.Mutex

	recipe       *types.Recipe
	deductions   []pantry.Deduction
	bill         []types.ScannedItem
	substitution *types.Substitution
	meals        map[string]string
	search       []types.SearchResult
	progress     *types.ProgressCheck

	lastPrompt   RecipePrompt
	billImage    string
	planCalls    int
	deductCalled bool
}

func (s *stubChef) GenerateRecipe(_ context.Context, p RecipePrompt) (*types.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPrompt = p
	if s.recipe == nil {
		return nil, errChefDown
	}
	r := *s.recipe
	return &r, nil
}

func (s *stubChef) ProposeDeductions(_ context.Context, _ []string, _ []models.InventoryItem) ([]pantry.Deduction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deductCalled = true
	if s.deductions == nil {
		return nil, errChefDown
	}
	return s.deductions, nil
}

func (s *stubChef) ParseBill(_ context.Context, imageBase64 string) ([]types.ScannedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.billImage = imageBase64
	if s.bill == nil {
		return nil, errChefDown
	}
	return s.bill, nil
}

func (s *stubChef) SuggestSubstitute(_ context.Context, _, _ string, _ []string) (*types.Substitution, error) {
	if s.substitution == nil {
		return nil, errChefDown
	}
	return s.substitution, nil
}

func (s *stubChef) PlanMeal(_ context.Context, slot string, _, _ []string, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planCalls++
	dish, ok := s.meals[slot]
	if !ok {
		return "", errChefDown
	}
	return dish, nil
}

func (s *stubChef) SearchRecipes(_ context.Context, _ string, _ []string) ([]types.SearchResult, error) {
	if s.search == nil {
		return nil, errChefDown
	}
	return s.search, nil
}

func (s *stubChef) CheckCookingProgress(_ context.Context, _, _ string) (*types.ProgressCheck, error) {
	if s.progress == nil {
		return nil, errChefDown
	}
	return s.progress, nil
}

type stubArchive struct {
	keys []string
	err  error
}

func (a *stubArchive) PutImage(_ context.Context, key string, _ []byte, _ string) error {
	if a.err != nil {
		return a.err
	}
	a.keys = append(a.keys, key)
	return nil
}

type stubDetector struct {
	labels []string
	err    error
}

func (d *stubDetector) DetectLabels(_ context.Context, _ []byte) ([]string, error) {
	return d.labels, d.err
}
