// Package mentor holds in-flight cooking sessions and the rules applied when
// one ends.
package mentor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/himanshu-anonymous/CookMate/internal/models"
)

// ErrSessionNotFound is returned for ids that were never issued, already
// ended or expired.
var ErrSessionNotFound = errors.New("session not found")

const (
	// FinishedStepNumber is reported once the cursor passes the last step
	FinishedStepNumber  = 99
	FinishedInstruction = "Done!"

	DefaultInstruction     = "Prepare ingredients"
	DefaultDurationSeconds = 60
)

// Session is a snapshot of one in-flight cooking session
type Session struct {
	ID           uint64
	UserID       uint
	RecipeTitle  string
	Steps        []models.CookingStep
	Cursor       int
	StartedAt    time.Time
	LastActivity time.Time
}

// StepView is what the client sees for the step under the cursor
type StepView struct {
	Number       int
	Instruction  string
	TimerSeconds int
	Finished     bool
}

// Current returns the view of the step under the cursor
func (s Session) Current() StepView {
	if s.Cursor >= len(s.Steps) {
		return StepView{
			Number:      FinishedStepNumber,
			Instruction: FinishedInstruction,
			Finished:    true,
		}
	}
	step := s.Steps[s.Cursor]
	number := step.StepNumber
	if number <= 0 {
		number = s.Cursor + 1
	}
	return StepView{
		Number:       number,
		Instruction:  step.Instruction,
		TimerSeconds: step.DurationSeconds,
	}
}

// Timers lists every step duration in order
func (s Session) Timers() []int {
	out := make([]int, len(s.Steps))
	for i, step := range s.Steps {
		out[i] = step.DurationSeconds
	}
	return out
}

// Registry maps session ids to in-flight sessions. Ids come from a counter
// that is never reset, so an id is never handed out twice in one process.
// The registry is not durable.
type Registry struct {
	mu       sync.Mutex
	next     uint64
	sessions map[uint64]*Session
	now      func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uint64]*Session),
		now:      time.Now,
	}
}

// Start registers a session. A session without steps gets a single default step.
func (r *Registry) Start(userID uint, recipeTitle string, steps []models.CookingStep) Session {
	if len(steps) == 0 {
		steps = []models.CookingStep{{
			StepNumber:      1,
			Instruction:     DefaultInstruction,
			DurationSeconds: DefaultDurationSeconds,
		}}
	} else {
		steps = append([]models.CookingStep(nil), steps...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	now := r.now()
	s := &Session{
		ID:           r.next,
		UserID:       userID,
		RecipeTitle:  recipeTitle,
		Steps:        steps,
		StartedAt:    now,
		LastActivity: now,
	}
	r.sessions[s.ID] = s
	return s.snapshot()
}

// Advance moves the cursor forward by one, stopping at the step count
func (r *Registry) Advance(id uint64) (StepView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return StepView{}, ErrSessionNotFound
	}
	if s.Cursor < len(s.Steps) {
		s.Cursor++
	}
	s.LastActivity = r.now()
	return s.Current(), nil
}

// Get returns a snapshot without modifying the session
func (r *Registry) Get(id uint64) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s.snapshot(), nil
}

// End removes the session and returns its final snapshot. Of two concurrent
// calls for the same id exactly one succeeds.
func (r *Registry) End(id uint64) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	delete(r.sessions, id)
	return s.snapshot(), nil
}

// Restore puts an ended session back, e.g. when persisting its end failed
func (r *Registry) Restore(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; exists {
		return
	}
	s.LastActivity = r.now()
	restored := s.snapshot()
	r.sessions[s.ID] = &restored
}

// Len returns the number of in-flight sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than idle and returns how many were removed
func (r *Registry) Sweep(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, s := range r.sessions {
		if s.LastActivity.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is cancelled
func (r *Registry) RunJanitor(ctx context.Context, idle, interval time.Duration, onSweep func(removed int)) {
	if idle <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := r.Sweep(idle)
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

func (s *Session) snapshot() Session {
	cp := *s
	cp.Steps = append([]models.CookingStep(nil), s.Steps...)
	return cp
}
