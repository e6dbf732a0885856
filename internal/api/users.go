package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/himanshu-anonymous/CookMate/internal/service"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

// UserHandler serves onboarding and profile routes
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes mounts /users. Creating a user is always public since it
// is how a client obtains its token.
func (h *UserHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/users", h.CreateUser)
	protected.GET("/users/:user_id", h.GetUser)
}

// CreateUser returns 201 for a new user and 200 when the username already exists
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req types.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, created, err := h.users.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
