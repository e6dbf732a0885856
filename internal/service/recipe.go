package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/himanshu-anonymous/CookMate/internal/logger"
	"github.com/himanshu-anonymous/CookMate/internal/metrics"
	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/pantry"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

const maxSavedSearchResults = 10

var mealSlots = []string{"breakfast", "lunch", "dinner"}

// RecipeService generates, caches and stores recipes
type RecipeService struct {
	db      *gorm.DB
	chef    ChefClient
	drafts  DraftStore
	logger  *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, chef ChefClient, drafts DraftStore, log *zap.Logger, m *metrics.Collector) *RecipeService {
	return &RecipeService{
		db:      db,
		chef:    chef,
		drafts:  drafts,
		logger:  logger.OrNop(log).Named("recipes"),
		metrics: m,
		now:     time.Now,
	}
}

// GenerateRecipe asks the chef for a dish built from the user's pantry and
// caches it as a draft. A failed call yields the canned fallback recipe.
func (s *RecipeService) GenerateRecipe(ctx context.Context, req *types.RecipeRequest) (*types.RecipeDraft, error) {
	user, err := findUser(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}
	prompt, err := s.buildPrompt(ctx, user)
	if err != nil {
		return nil, err
	}
	prompt.MealType = req.MealType
	prompt.Craving = req.Craving
	prompt.EffortLevel = defaultString(req.EffortLevel, user.CurrentEffortLevel)

	draft := &types.RecipeDraft{UserID: user.ID}
	recipe, err := s.chef.GenerateRecipe(ctx, prompt)
	if err != nil {
		s.logger.Warn("recipe generation failed, serving fallback", zap.Uint("user_id", user.ID), zap.Error(err))
		s.metrics.Fallback("recipe")
		draft.Recipe = fallbackRecipe()
		draft.Fallback = true
	} else {
		draft.Recipe = *recipe
	}

	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		s.logger.Error("failed to cache recipe draft", zap.Uint("user_id", user.ID), zap.Error(err))
		draft.ID = ""
	}
	return draft, nil
}

func (s *RecipeService) buildPrompt(ctx context.Context, user *models.User) (RecipePrompt, error) {
	db := s.db.WithContext(ctx)
	items, err := loadInventory(db, user.ID)
	if err != nil {
		return RecipePrompt{}, err
	}
	expiring, err := expiringWithin(db, user.ID, s.now().AddDate(0, 0, DefaultExpiryWindowDays))
	if err != nil {
		return RecipePrompt{}, err
	}

	return RecipePrompt{
		Persona:            user.Persona,
		Pantry:             itemNames(liveItems(items)),
		Expiring:           itemNames(expiring),
		HealthGoal:         user.HealthGoal,
		Allergies:          user.Allergies,
		DietaryPreferences: user.DietaryPreferences,
		MedicalConditions:  user.MedicalConditions,
		PortionMultiplier:  user.PortionMultiplier,
	}, nil
}

// SaveRecipe persists a cached draft for its owner
func (s *RecipeService) SaveRecipe(ctx context.Context, req *types.SaveRecipeRequest) (*models.SavedRecipe, error) {
	if _, err := findUser(ctx, s.db, req.UserID); err != nil {
		return nil, err
	}
	draft, err := s.drafts.GetDraft(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}
	if draft.UserID != req.UserID {
		return nil, ErrDraftNotFound
	}

	r := draft.Recipe
	saved := &models.SavedRecipe{
		UserID:           req.UserID,
		DishName:         clip(r.DishName, models.MaxDishNameLen),
		Description:      r.Description,
		Ingredients:      models.JSONBStringArray(r.Ingredients),
		Steps:            models.CookingSteps(r.Steps),
		TotalTimeMinutes: r.TotalTimeMinutes,
		EffortScore:      r.EffortScore,
		Embedding:        RecipeEmbedding(r.DishName, r.Ingredients),
	}
	if err := s.db.WithContext(ctx).Create(saved).Error; err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	return saved, nil
}

// SearchRecipes ranks the user's saved recipes by pantry coverage and adds
// the chef's suggestions after them.
func (s *RecipeService) SearchRecipes(ctx context.Context, req *types.SearchRequest) ([]types.SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if _, err := findUser(ctx, s.db, req.UserID); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	items, err := loadInventory(db, req.UserID)
	if err != nil {
		return nil, err
	}
	live := liveItems(items)

	saved, err := s.findSaved(db, req.UserID, query)
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(saved))
	for i := range saved {
		id := saved[i].ID
		results = append(results, types.SearchResult{
			Title:         saved[i].DishName,
			MatchScore:    coverage(saved[i].Ingredients, live),
			Source:        "saved",
			SavedRecipeID: &id,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	suggested, err := s.chef.SearchRecipes(ctx, query, itemNames(live))
	if err != nil {
		s.logger.Warn("recipe search suggestions unavailable", zap.Error(err))
		s.metrics.Fallback("search")
		return results, nil
	}
	return append(results, suggested...), nil
}

func (s *RecipeService) findSaved(db *gorm.DB, userID uint, query string) ([]models.SavedRecipe, error) {
	q := db.Where("user_id = ? AND LOWER(dish_name) LIKE ?", userID, "%"+strings.ToLower(query)+"%")
	if db.Dialector.Name() == "postgres" {
		q = q.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding <-> ?",
			Vars: []interface{}{GenerateEmbedding(query)},
		}})
	} else {
		q = q.Order("id DESC")
	}

	var saved []models.SavedRecipe
	if err := q.Limit(maxSavedSearchResults).Find(&saved).Error; err != nil {
		return nil, fmt.Errorf("failed to search saved recipes: %w", err)
	}
	return saved, nil
}

// coverage is the share of ingredients the pantry has, as 0..100
func coverage(ingredients []string, items []models.InventoryItem) int {
	if len(ingredients) == 0 {
		return 0
	}
	matched := len(pantry.Match(ingredients, items))
	return matched * 100 / len(ingredients)
}

// RateMeal records feedback for a dish cooked outside a mentor session
func (s *RecipeService) RateMeal(ctx context.Context, req *types.RateMealRequest) (*models.MealLog, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if err := checkLen("dish_name", req.DishName, models.MaxDishNameLen); err != nil {
		return nil, err
	}
	if err := checkLen("leftover_amount", req.LeftoverAmount, models.MaxLeftoverAmountLen); err != nil {
		return nil, err
	}
	if _, err := findUser(ctx, s.db, req.UserID); err != nil {
		return nil, err
	}

	entry := &models.MealLog{
		UserID:         req.UserID,
		DishName:       req.DishName,
		DateCooked:     s.now(),
		Rating:         req.Rating,
		LeftoverAmount: req.LeftoverAmount,
		Comments:       req.Comments,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to log meal: %w", err)
	}
	return entry, nil
}

// SuggestSubstitute proposes a replacement that respects the user's allergies
func (s *RecipeService) SuggestSubstitute(ctx context.Context, req *types.SubstituteRequest) (*types.Substitution, error) {
	user, err := findUser(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}

	sub, err := s.chef.SuggestSubstitute(ctx, req.Ingredient, req.Recipe, user.Allergies)
	if err != nil {
		s.logger.Warn("substitute unavailable, serving fallback", zap.String("ingredient", req.Ingredient), zap.Error(err))
		s.metrics.Fallback("substitute")
		fb := fallbackSubstitution()
		return &fb, nil
	}
	return sub, nil
}

// PlanDay picks a dish for every meal slot in parallel. Each slot falls back
// on its own.
func (s *RecipeService) PlanDay(ctx context.Context, req *types.DayPlanRequest) (*types.DayPlan, error) {
	user, err := findUser(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}
	items, err := loadInventory(s.db.WithContext(ctx), user.ID)
	if err != nil {
		return nil, err
	}
	names := itemNames(liveItems(items))
	prefs := req.DietPreference
	if len(prefs) == 0 {
		prefs = user.DietaryPreferences
	}

	var mu sync.Mutex
	dishes := make(map[string]string, len(mealSlots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(mealSlots))
	for _, slot := range mealSlots {
		slot := slot
		g.Go(func() error {
			dish, err := s.chef.PlanMeal(gctx, slot, names, prefs, user.HealthGoal)
			if err != nil {
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("meal slot unavailable, serving fallback", zap.String("slot", slot), zap.Error(err))
				s.metrics.Fallback("plan_" + slot)
				dish = fallbackMeals[slot]
			}
			mu.Lock()
			dishes[slot] = dish
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.DayPlan{
		Breakfast: dishes["breakfast"],
		Lunch:     dishes["lunch"],
		Dinner:    dishes["dinner"],
	}, nil
}

func liveItems(items []models.InventoryItem) []models.InventoryItem {
	out := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if !item.IsExhausted {
			out = append(out, item)
		}
	}
	return out
}

func itemNames(items []models.InventoryItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
