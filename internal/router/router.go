package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/himanshu-anonymous/CookMate/internal/api"
	"github.com/himanshu-anonymous/CookMate/internal/logger"
	"github.com/himanshu-anonymous/CookMate/internal/metrics"
	"github.com/himanshu-anonymous/CookMate/internal/middleware"
	"github.com/himanshu-anonymous/CookMate/internal/service"
)

// Dependencies is everything the route table needs. Redis and Metrics may be nil.
type Dependencies struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Logger  *zap.Logger
	Metrics *metrics.Collector

	Auth      *service.AuthService
	Users     *service.UserService
	Inventory *service.InventoryService
	Recipes   *service.RecipeService
	Mentor    *service.MentorService

	AuthRequired       bool
	CORSAllowedOrigins []string
	RateLimitPerHour   int
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	log := logger.OrNop(deps.Logger)

	router := gin.New()
	router.Use(middleware.Recovery(log.Named("http")))
	router.Use(middleware.RequestLogger(log.Named("http")))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(middleware.CORS(deps.CORSAllowedOrigins))

	health := api.NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/health", health.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	aiLimit := middleware.NewAIRateLimiter(deps.Redis, deps.RateLimitPerHour, log.Named("rate_limit")).RateLimitMiddleware()

	public := router.Group("")
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth, deps.AuthRequired))

	api.NewUserHandler(deps.Users).RegisterRoutes(public, protected)
	api.NewInventoryHandler(deps.Inventory).RegisterRoutes(protected, aiLimit)
	api.NewRecipeHandler(deps.Recipes).RegisterRoutes(protected, aiLimit)
	api.NewMentorHandler(deps.Mentor).RegisterRoutes(protected, aiLimit)

	return router
}
