package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/himanshu-anonymous/CookMate/internal/logger"
	"github.com/himanshu-anonymous/CookMate/internal/mentor"
	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

const defaultRotisPerMeal = 2

// UserService handles onboarding and profile lookups
type UserService struct {
	db     *gorm.DB
	auth   *AuthService
	logger *zap.Logger
}

// NewUserService creates a new UserService. auth may be nil, in which case
// no tokens are issued.
func NewUserService(db *gorm.DB, auth *AuthService, log *zap.Logger) *UserService {
	return &UserService{
		db:     db,
		auth:   auth,
		logger: logger.OrNop(log).Named("users"),
	}
}

// CreateUser onboards a user. An existing username returns the stored row
// untouched and created=false.
func (s *UserService) CreateUser(ctx context.Context, req *types.CreateUserRequest) (*types.UserResponse, bool, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, false, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	if err := checkProfileLengths(req); err != nil {
		return nil, false, err
	}

	persona := models.Persona(strings.ToLower(strings.TrimSpace(req.Persona)))
	if persona == "" {
		persona = models.PersonaHosteler
	}
	if !persona.Valid() {
		return nil, false, fmt.Errorf("%w: unknown persona %q", ErrInvalidInput, req.Persona)
	}

	rotis := defaultRotisPerMeal
	if req.RotisPerMeal != nil {
		rotis = *req.RotisPerMeal
	}
	if rotis < 0 {
		return nil, false, fmt.Errorf("%w: rotis_per_meal must not be negative", ErrInvalidInput)
	}

	profile := models.User{
		Username:           username,
		Age:                req.Age,
		Weight:             req.Weight,
		Height:             req.Height,
		Gender:             req.Gender,
		Persona:            persona,
		HealthGoal:         defaultString(req.HealthGoal, "Balanced"),
		RotisPerMeal:       rotis,
		CookingSkill:       defaultString(req.CookingSkill, "beginner"),
		MedicalConditions:  models.JSONBStringArray(req.MedicalConditions),
		Allergies:          models.JSONBStringArray(req.Allergies),
		DietaryPreferences: models.JSONBStringArray(req.DietaryPreferences),
		FavCuisine:         models.JSONBStringArray(req.FavCuisine),
		SpiceTolerance:     defaultString(req.SpiceTolerance, "medium"),
		WeeklyBudget:       req.WeeklyBudget,
		CurrentEffortLevel: defaultString(req.CurrentEffortLevel, "normal"),
		PortionMultiplier:  mentor.PortionFromRotis(rotis),
	}

	// FirstOrCreate keeps one row per username even when two onboarding
	// requests race; the unique index rejects the loser.
	var user models.User
	result := s.db.WithContext(ctx).
		Where(models.User{Username: username}).
		Attrs(profile).
		FirstOrCreate(&user)
	if result.Error != nil {
		var existing models.User
		if err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error; err == nil {
			return s.respond(&existing, false)
		}
		return nil, false, fmt.Errorf("failed to create user: %w", result.Error)
	}

	created := result.RowsAffected > 0
	if created {
		s.logger.Info("user created",
			zap.Uint("user_id", user.ID),
			zap.String("persona", string(user.Persona)),
			zap.Float64("portion_multiplier", user.PortionMultiplier))
	}
	return s.respond(&user, created)
}

func (s *UserService) respond(user *models.User, created bool) (*types.UserResponse, bool, error) {
	resp := &types.UserResponse{User: user}
	if s.auth != nil {
		token, err := s.auth.GenerateToken(user)
		if err != nil {
			s.logger.Warn("token not issued", zap.Uint("user_id", user.ID), zap.Error(err))
		} else {
			resp.Token = token
		}
	}
	return resp, created, nil
}

// GetUser returns the profile with its badges
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Badges").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// findUser loads a user row without associations
func findUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func checkProfileLengths(req *types.CreateUserRequest) error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"username", strings.TrimSpace(req.Username), 50},
		{"gender", req.Gender, 20},
		{"health_goal", req.HealthGoal, 100},
		{"cooking_skill", req.CookingSkill, 20},
		{"spice_tolerance", req.SpiceTolerance, 20},
		{"current_effort_level", req.CurrentEffortLevel, 20},
	}
	for _, f := range fields {
		if err := checkLen(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}
