package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/himanshu-anonymous/CookMate/internal/types"
)

const draftTTL = 24 * time.Hour

// RedisDraftStore keeps recipe drafts in Redis for 24 hours
type RedisDraftStore struct {
	redis *redis.Client
}

// NewRedisDraftStore creates a draft store on the given client
func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{redis: client}
}

func draftKey(id string) string {
	return fmt.Sprintf("recipe:draft:%s", id)
}

// SaveDraft assigns an id when missing and stores the draft
func (s *RedisDraftStore) SaveDraft(ctx context.Context, draft *types.RecipeDraft) error {
	stampDraft(draft)

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := s.redis.Set(ctx, draftKey(draft.ID), data, draftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// GetDraft retrieves a recipe draft from Redis
func (s *RedisDraftStore) GetDraft(ctx context.Context, id string) (*types.RecipeDraft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft types.RecipeDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// MemoryDraftStore is the draft cache used when Redis is not configured
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string]memoryDraft
	now    func() time.Time
}

type memoryDraft struct {
	draft     types.RecipeDraft
	expiresAt time.Time
}

// NewMemoryDraftStore creates an empty in-process draft cache
func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{
		drafts: make(map[string]memoryDraft),
		now:    time.Now,
	}
}

// SaveDraft assigns an id when missing and stores the draft
func (s *MemoryDraftStore) SaveDraft(_ context.Context, draft *types.RecipeDraft) error {
	stampDraft(draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, d := range s.drafts {
		if now.After(d.expiresAt) {
			delete(s.drafts, id)
		}
	}
	s.drafts[draft.ID] = memoryDraft{draft: *draft, expiresAt: now.Add(draftTTL)}
	return nil
}

// GetDraft returns a copy of a live draft
func (s *MemoryDraftStore) GetDraft(_ context.Context, id string) (*types.RecipeDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok || s.now().After(d.expiresAt) {
		return nil, ErrDraftNotFound
	}
	draft := d.draft
	return &draft, nil
}

func stampDraft(draft *types.RecipeDraft) {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now()
	}
}
