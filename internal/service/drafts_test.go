package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanshu-anonymous/CookMate/internal/types"
)

func TestMemoryDraftStore(t *testing.T) {
	store := NewMemoryDraftStore()
	ctx := context.Background()

	draft := &types.RecipeDraft{UserID: 1, Recipe: types.Recipe{DishName: "Dal"}}
	require.NoError(t, store.SaveDraft(ctx, draft))
	assert.NotEmpty(t, draft.ID)
	assert.False(t, draft.CreatedAt.IsZero())

	got, err := store.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dal", got.Recipe.DishName)

	got.Recipe.DishName = "changed"
	again, err := store.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dal", again.Recipe.DishName)

	_, err = store.GetDraft(ctx, "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestMemoryDraftStoreExpiry(t *testing.T) {
	store := NewMemoryDraftStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	draft := &types.RecipeDraft{UserID: 1}
	require.NoError(t, store.SaveDraft(context.Background(), draft))

	now = now.Add(draftTTL + time.Minute)
	_, err := store.GetDraft(context.Background(), draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestRedisDraftStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Skipping Redis-dependent test - REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := NewRedisDraftStore(client)

	draft := &types.RecipeDraft{UserID: 7, Recipe: types.Recipe{DishName: "Khichdi"}}
	require.NoError(t, store.SaveDraft(ctx, draft))
	t.Cleanup(func() { client.Del(ctx, draftKey(draft.ID)) })

	ttl, err := client.TTL(ctx, draftKey(draft.ID)).Result()
	require.NoError(t, err)
	assert.InDelta(t, draftTTL.Seconds(), ttl.Seconds(), 5)

	got, err := store.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Khichdi", got.Recipe.DishName)
	assert.Equal(t, uint(7), got.UserID)

	_, err = store.GetDraft(ctx, "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}
