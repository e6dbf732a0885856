package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/himanshu-anonymous/CookMate/internal/middleware"
	"github.com/himanshu-anonymous/CookMate/internal/service"
)

// respondError maps a service error onto a status code and a JSON body
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, service.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// pathID parses a positive numeric path parameter
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return 0, false
	}
	if !canActAs(c, uint(id)) {
		return 0, false
	}
	return uint(id), true
}

// canActAs rejects a bearer token that names a different user
func canActAs(c *gin.Context, userID uint) bool {
	caller, ok := middleware.UserID(c)
	if !ok || caller == userID {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "token does not belong to this user"})
	return false
}
