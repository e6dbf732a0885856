package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/himanshu-anonymous/CookMate/internal/service"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

// RecipeHandler serves recipe generation, the saved cookbook and day plans
type RecipeHandler struct {
	recipes *service.RecipeService
}

func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, aiLimit gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.POST("/generate", aiLimit, h.GenerateRecipe)
		recipes.POST("/save", h.SaveRecipe)
		recipes.POST("/search", h.SearchRecipes)
		recipes.POST("/rate", h.RateMeal)
		recipes.POST("/substitute", h.SuggestSubstitute)
	}
	router.POST("/plans/day", aiLimit, h.PlanDay)
}

func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !canActAs(c, req.UserID) {
		return
	}

	draft, err := h.recipes.GenerateRecipe(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	var req types.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !canActAs(c, req.UserID) {
		return
	}

	saved, err := h.recipes.SaveRecipe(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !canActAs(c, req.UserID) {
		return
	}

	results, err := h.recipes.SearchRecipes(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *RecipeHandler) RateMeal(c *gin.Context) {
	var req types.RateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !canActAs(c, req.UserID) {
		return
	}

	entry, err := h.recipes.RateMeal(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "logged", "id": entry.ID})
}

func (h *RecipeHandler) SuggestSubstitute(c *gin.Context) {
	var req types.SubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !canActAs(c, req.UserID) {
		return
	}

	sub, err := h.recipes.SuggestSubstitute(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *RecipeHandler) PlanDay(c *gin.Context) {
	var req types.DayPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !canActAs(c, req.UserID) {
		return
	}

	plan, err := h.recipes.PlanDay(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
