package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/himanshu-anonymous/CookMate/internal/middleware"
	"github.com/himanshu-anonymous/CookMate/internal/service"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

// MentorHandler serves the cooking session lifecycle
type MentorHandler struct {
	mentor *service.MentorService
}

func NewMentorHandler(mentor *service.MentorService) *MentorHandler {
	return &MentorHandler{mentor: mentor}
}

func (h *MentorHandler) RegisterRoutes(router *gin.RouterGroup, aiLimit gin.HandlerFunc) {
	mentor := router.Group("/mentor")
	{
		mentor.POST("/start", h.StartSession)
		mentor.POST("/next-step/:session_id", h.NextStep)
		mentor.POST("/end", h.EndSession)
		mentor.POST("/check-progress/:session_id", aiLimit, h.CheckProgress)
		mentor.GET("/sessions/:user_id", h.ListSessions)
	}
}

func (h *MentorHandler) StartSession(c *gin.Context) {
	var req types.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !canActAs(c, req.UserID) {
		return
	}

	resp, err := h.mentor.StartSession(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MentorHandler) NextStep(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok || !h.ownsSession(c, sessionID) {
		return
	}

	resp, err := h.mentor.NextStep(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EndSession answers 404 for an id that is unknown, already ended or expired
func (h *MentorHandler) EndSession(c *gin.Context) {
	var req types.EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !h.ownsSession(c, req.SessionID) {
		return
	}

	resp, err := h.mentor.EndSession(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MentorHandler) CheckProgress(c *gin.Context) {
	sessionID, ok := pathID(c, "session_id")
	if !ok || !h.ownsSession(c, sessionID) {
		return
	}
	var req types.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	check, err := h.mentor.CheckProgress(c.Request.Context(), sessionID, req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (h *MentorHandler) ListSessions(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	records, err := h.mentor.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// ownsSession lets an unknown id through so the service reports NotFound
func (h *MentorHandler) ownsSession(c *gin.Context, sessionID uint64) bool {
	if _, authenticated := middleware.UserID(c); !authenticated {
		return true
	}
	session, err := h.mentor.Registry().Get(sessionID)
	if err != nil {
		return true
	}
	return canActAs(c, session.UserID)
}
