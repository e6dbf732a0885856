package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/himanshu-anonymous/CookMate/internal/logger"
	"github.com/himanshu-anonymous/CookMate/internal/mentor"
	"github.com/himanshu-anonymous/CookMate/internal/metrics"
	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/pantry"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

const (
	startGreeting = "Let's start cooking."

	DeductionSourceFixed = "fixed"
	DeductionSourceAI    = "ai"
)

// MentorService drives cooking sessions from start to end
type MentorService struct {
	db           *gorm.DB
	registry     *mentor.Registry
	chef         ChefClient
	drafts       DraftStore
	aiDeductions bool
	logger       *zap.Logger
	metrics      *metrics.Collector
	now          func() time.Time
}

// MentorConfig wires a MentorService
type MentorConfig struct {
	DB       *gorm.DB
	Registry *mentor.Registry
	Chef     ChefClient
	Drafts   DraftStore
	// AIDeductions asks the chef for variable decrement amounts before
	// falling back to the fixed plan.
	AIDeductions bool
	Logger       *zap.Logger
	Metrics      *metrics.Collector
}

func NewMentorService(cfg MentorConfig) *MentorService {
	registry := cfg.Registry
	if registry == nil {
		registry = mentor.NewRegistry()
	}
	return &MentorService{
		db:           cfg.DB,
		registry:     registry,
		chef:         cfg.Chef,
		drafts:       cfg.Drafts,
		aiDeductions: cfg.AIDeductions,
		logger:       logger.OrNop(cfg.Logger).Named("mentor"),
		metrics:      cfg.Metrics,
		now:          time.Now,
	}
}

// Registry exposes the session registry, e.g. for the idle janitor
func (s *MentorService) Registry() *mentor.Registry {
	return s.registry
}

// StartSession opens a session for an existing user
func (s *MentorService) StartSession(ctx context.Context, req *types.StartSessionRequest) (*types.StartSessionResponse, error) {
	user, err := findUser(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.RecipeTitle)
	if err := checkLen("recipe_title", title, models.MaxDishNameLen); err != nil {
		return nil, err
	}
	steps := req.Steps
	if req.DraftID != "" && len(steps) == 0 {
		if s.drafts == nil {
			return nil, ErrDraftNotFound
		}
		draft, err := s.drafts.GetDraft(ctx, req.DraftID)
		if err != nil {
			return nil, err
		}
		if draft.UserID != user.ID {
			return nil, ErrDraftNotFound
		}
		steps = draft.Recipe.Steps
		if title == "" {
			title = clip(strings.TrimSpace(draft.Recipe.DishName), models.MaxDishNameLen)
		}
	}
	if title == "" {
		return nil, fmt.Errorf("%w: recipe_title is required", ErrInvalidInput)
	}
	for _, step := range steps {
		if step.DurationSeconds < 0 {
			return nil, fmt.Errorf("%w: step durations must not be negative", ErrInvalidInput)
		}
	}

	session := s.registry.Start(user.ID, title, steps)
	s.metrics.SessionStarted()
	s.metrics.SetActiveSessions(s.registry.Len())
	s.logger.Info("session started",
		zap.Uint64("session_id", session.ID),
		zap.Uint("user_id", user.ID),
		zap.String("recipe", title),
		zap.Int("steps", len(session.Steps)))

	view := session.Current()
	return &types.StartSessionResponse{
		SessionID:     session.ID,
		StepNumber:    view.Number,
		Instruction:   view.Instruction,
		TimerSeconds:  view.TimerSeconds,
		Message:       startGreeting,
		AllStepTimers: session.Timers(),
	}, nil
}

// NextStep advances the cursor. Past the last step it reports the finished marker.
func (s *MentorService) NextStep(_ context.Context, sessionID uint64) (*types.NextStepResponse, error) {
	view, err := s.registry.Advance(sessionID)
	if errors.Is(err, mentor.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &types.NextStepResponse{
		SessionID:   sessionID,
		Step:        view.Number,
		Instruction: view.Instruction,
		Timer:       view.TimerSeconds,
		Finished:    view.Finished,
	}, nil
}

// EndSession removes the session, applies the deduction plan, updates the
// user's counters and writes the session record in one transaction. When
// the transaction fails the session is put back so the client may retry.
func (s *MentorService) EndSession(ctx context.Context, req *types.EndSessionRequest) (*types.EndSessionResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	session, err := s.registry.End(req.SessionID)
	if errors.Is(err, mentor.ErrSessionNotFound) {
		s.metrics.SessionEnded("not_found")
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	resp, err := s.finish(ctx, session, req)
	if err != nil {
		s.registry.Restore(session)
		s.metrics.SessionEnded("failed")
		s.logger.Error("failed to end session",
			zap.Uint64("session_id", session.ID),
			zap.Uint("user_id", session.UserID),
			zap.Error(err))
		return nil, err
	}

	s.metrics.SessionEnded(models.SessionCompleted)
	s.metrics.SetActiveSessions(s.registry.Len())
	s.logger.Info("session ended",
		zap.Uint64("session_id", session.ID),
		zap.Uint("user_id", session.UserID),
		zap.Int("new_xp", resp.NewXP),
		zap.Int("inventory_updates", resp.InventoryUpdates),
		zap.String("deduction_source", resp.DeductionSource))
	return resp, nil
}

func (s *MentorService) finish(ctx context.Context, session mentor.Session, req *types.EndSessionRequest) (*types.EndSessionResponse, error) {
	db := s.db.WithContext(ctx)

	// The AI plan is computed outside the transaction so no row lock is held
	// across the network call. It is validated again against the locked rows.
	var proposed []pantry.Deduction
	if s.aiDeductions && s.chef != nil && len(req.IngredientsConsumed) > 0 {
		snapshot, err := loadInventory(db, session.UserID)
		if err != nil {
			return nil, err
		}
		proposed, err = s.chef.ProposeDeductions(ctx, req.IngredientsConsumed, snapshot)
		if err != nil {
			s.logger.Warn("ai deductions unavailable, using fixed plan", zap.Error(err))
			s.metrics.Fallback("deductions")
			proposed = nil
		}
	}

	now := s.now()
	resp := &types.EndSessionResponse{
		Status:             models.SessionCompleted,
		ReorderSuggestions: []string{},
		BadgesEarned:       []string{},
		DeductionSource:    DeductionSourceFixed,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := lockRows(tx).First(&user, session.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}

		items, err := loadInventory(lockRows(tx), user.ID)
		if err != nil {
			return err
		}

		plan := pantry.Sanitize(proposed, items)
		if len(plan) > 0 {
			resp.DeductionSource = DeductionSourceAI
		} else {
			plan = pantry.Match(req.IngredientsConsumed, items)
		}

		byID := make(map[uint]*models.InventoryItem, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}
		for _, d := range pantry.Totals(plan) {
			item := byID[d.ItemID]
			before, wasExhausted := item.Quantity, item.IsExhausted
			if pantry.Apply(item, d.Amount) {
				resp.ReorderSuggestions = append(resp.ReorderSuggestions, item.Name)
			}
			// a row already empty has nothing left to take
			if item.Quantity == before && item.IsExhausted == wasExhausted {
				continue
			}
			err := tx.Model(item).Updates(map[string]interface{}{
				"quantity":     item.Quantity,
				"is_exhausted": item.IsExhausted,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to update %s: %w", item.Name, err)
			}
			resp.InventoryUpdates++
		}

		multiplier, adjustment := mentor.AdjustPortion(user.PortionMultiplier, req.Leftovers, req.Rating)
		user.PortionMultiplier = multiplier
		user.XPPoints += mentor.XPReward
		user.CurrentStreak++
		user.LastCookedDate = &now
		err = tx.Model(&user).Updates(map[string]interface{}{
			"portion_multiplier": user.PortionMultiplier,
			"xp_points":          user.XPPoints,
			"current_streak":     user.CurrentStreak,
			"last_cooked_date":   user.LastCookedDate,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		if mentor.EarnsStreakBadge(user.CurrentStreak) {
			badge := models.Badge{UserID: user.ID, Name: mentor.StreakBadgeName}
			result := tx.Where(models.Badge{UserID: user.ID, Name: mentor.StreakBadgeName}).
				Attrs(models.Badge{AwardedAt: now}).
				FirstOrCreate(&badge)
			if result.Error != nil {
				return fmt.Errorf("failed to award badge: %w", result.Error)
			}
			if result.RowsAffected > 0 {
				resp.BadgesEarned = append(resp.BadgesEarned, badge.Name)
			}
		}

		record := models.CookingSessionRecord{
			SessionID:   session.ID,
			UserID:      user.ID,
			RecipeTitle: session.RecipeTitle,
			StartedAt:   session.StartedAt,
			EndedAt:     now,
			StepsViewed: session.Cursor,
			Rating:      req.Rating,
			Leftovers:   req.Leftovers,
			Status:      models.SessionCompleted,
			XPAwarded:   mentor.XPReward,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}

		resp.NewXP = user.XPPoints
		resp.CurrentStreak = user.CurrentStreak
		resp.PortionAdjustment = adjustment
		resp.PortionMultiplier = user.PortionMultiplier
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Deductions(resp.DeductionSource, resp.InventoryUpdates, len(resp.ReorderSuggestions))
	return resp, nil
}

// CheckProgress asks the chef to judge a photo of the current step
func (s *MentorService) CheckProgress(ctx context.Context, sessionID uint64, imageBase64 string) (*types.ProgressCheck, error) {
	session, err := s.registry.Get(sessionID)
	if errors.Is(err, mentor.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, _, err := decodeImage(imageBase64); err != nil {
		return nil, err
	}

	view := session.Current()
	check, err := s.chef.CheckCookingProgress(ctx, view.Instruction, rawBase64(imageBase64))
	if err != nil {
		s.logger.Warn("progress check unavailable", zap.Uint64("session_id", sessionID), zap.Error(err))
		s.metrics.Fallback("progress")
		fb := fallbackProgress()
		return &fb, nil
	}
	return check, nil
}

// ListSessions returns the user's completed sessions, newest first
func (s *MentorService) ListSessions(ctx context.Context, userID uint) ([]models.CookingSessionRecord, error) {
	if _, err := findUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	var records []models.CookingSessionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ended_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return records, nil
}

// SweepIdle drops sessions idle longer than ttl and reports how many went
func (s *MentorService) SweepIdle(ttl time.Duration) int {
	removed := s.registry.Sweep(ttl)
	if removed > 0 {
		s.metrics.SetActiveSessions(s.registry.Len())
		s.logger.Info("idle sessions expired", zap.Int("removed", removed))
	}
	return removed
}

// RunJanitor expires idle sessions until ctx is done. A non-positive ttl
// disables expiry.
func (s *MentorService) RunJanitor(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	s.registry.RunJanitor(ctx, ttl, interval, func(removed int) {
		if removed > 0 {
			s.metrics.SetActiveSessions(s.registry.Len())
			s.logger.Info("idle sessions expired", zap.Int("removed", removed))
		}
	})
}
