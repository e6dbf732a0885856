package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/himanshu-anonymous/CookMate/internal/service"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

// InventoryHandler serves the pantry routes
type InventoryHandler struct {
	inventory *service.InventoryService
}

func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// RegisterRoutes mounts /inventory; aiLimit guards the routes that call out
// to the AI or vision backends.
func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup, aiLimit gin.HandlerFunc) {
	inventory := router.Group("/inventory")
	{
		inventory.POST("/analyze-image", aiLimit, h.AnalyzeImage)
		inventory.GET("/:user_id", h.ListInventory)
		inventory.POST("/:user_id/bulk-add", h.BulkAdd)
		inventory.GET("/:user_id/expiring", h.ExpiringItems)
		inventory.GET("/:user_id/shopping-list", h.ShoppingList)
		inventory.POST("/:user_id/scan-bill", aiLimit, h.ScanBill)
	}
}

func (h *InventoryHandler) ListInventory(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	items, err := h.inventory.ListInventory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// BulkAdd accepts a JSON array of items
func (h *InventoryHandler) BulkAdd(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	var items []types.InventoryItemCreate
	if err := c.ShouldBindJSON(&items); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.inventory.BulkAdd(c.Request.Context(), userID, items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExpiringItems honours ?days=N, defaulting to the recipe prompt window
func (h *InventoryHandler) ExpiringItems(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	days := service.DefaultExpiryWindowDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = n
	}

	items, err := h.inventory.ExpiringItems(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) ShoppingList(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	list, err := h.inventory.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *InventoryHandler) ScanBill(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	var req types.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.inventory.ScanBill(c.Request.Context(), userID, req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) AnalyzeImage(c *gin.Context) {
	var req types.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.inventory.AnalyzeImage(c.Request.Context(), req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
