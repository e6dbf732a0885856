package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/himanshu-anonymous/CookMate/internal/database"
)

// HealthHandler reports database and cache reachability
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler accepts a nil redis client when caching is not configured
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Health answers 503 only when the database is down; redis is optional
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "healthy", "database": "up", "redis": "disabled"}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = "down"
	}
	if h.redis != nil {
		body["redis"] = "up"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			body["redis"] = "down"
		}
	}

	c.JSON(status, body)
}
