package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	router := limitedRouter(NewAIRateLimiter(nil, 1, nil))

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiterWithRedis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Skipping Redis-dependent test - REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	prefix := "rate_limit:test:" + time.Now().Format("150405.000000")
	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 2, KeyPrefix: prefix}, nil)
	router := limitedRouter(rl)

	codes := make([]int, 3)
	for i := range codes {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		codes[i] = rr.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	keys, err := client.Keys(context.Background(), prefix+":*").Result()
	require.NoError(t, err)
	if len(keys) > 0 {
		client.Del(context.Background(), keys...)
	}
}
