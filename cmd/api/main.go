package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/himanshu-anonymous/CookMate/config"
	"github.com/himanshu-anonymous/CookMate/internal/database"
	"github.com/himanshu-anonymous/CookMate/internal/logger"
	"github.com/himanshu-anonymous/CookMate/internal/mentor"
	"github.com/himanshu-anonymous/CookMate/internal/metrics"
	"github.com/himanshu-anonymous/CookMate/internal/router"
	"github.com/himanshu-anonymous/CookMate/internal/server"
	"github.com/himanshu-anonymous/CookMate/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// logger config lives in cfg, so fall back to a production logger
		zap.Must(zap.NewProduction()).Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: config.IsDevelopment(),
	})
	defer func() { _ = log.Sync() }()

	if !config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := database.Open(cfg, log.Named("database"))
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Redis is optional: without it drafts stay in memory and rate limiting is off
	redisClient, err := database.NewRedisClient(cfg, log.Named("redis"))
	if err != nil {
		log.Warn("redis unavailable, continuing without it", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var drafts service.DraftStore = service.NewMemoryDraftStore()
	if redisClient != nil {
		drafts = service.NewRedisDraftStore(redisClient)
	}

	m := metrics.New()
	chef := service.NewChefService(service.ChefConfig{
		APIURL:            cfg.AIAPIURL,
		APIKey:            cfg.AIAPIKey,
		Model:             cfg.AIModel,
		Timeout:           cfg.AITimeout,
		RequestsPerSecond: cfg.AIRequestsPerSecond,
	}, log.Named("chef"), m)

	archive, detector := loadAWS(ctx, cfg, log)

	auth := service.NewAuthService(cfg.JWTSecret)
	mentorService := service.NewMentorService(service.MentorConfig{
		DB:           db,
		Registry:     mentor.NewRegistry(),
		Chef:         chef,
		Drafts:       drafts,
		AIDeductions: cfg.AIDeductionsEnabled,
		Logger:       log,
		Metrics:      m,
	})
	go mentorService.RunJanitor(ctx, cfg.SessionIdleTTL)

	handler := router.SetupRouter(router.Dependencies{
		DB:                 db,
		Redis:              redisClient,
		Logger:             log,
		Metrics:            m,
		Auth:               auth,
		Users:              service.NewUserService(db, auth, log),
		Inventory:          service.NewInventoryService(db, chef, archive, detector, log),
		Recipes:            service.NewRecipeService(db, chef, drafts, log, m),
		Mentor:             mentorService,
		AuthRequired:       cfg.AuthRequired,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerHour:   cfg.RateLimitPerHour,
	})

	return server.New(cfg, handler, log).Run(ctx)
}

// loadAWS builds the optional S3 archive and Rekognition detector. Either
// may be nil; the inventory service degrades without them.
func loadAWS(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.ImageArchive, service.LabelDetector) {
	if cfg.AWSRegion == "" || (cfg.S3BucketName == "" && !cfg.VisionEnabled) {
		return nil, nil
	}
	awsCfg, err := config.LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		log.Warn("aws disabled", zap.Error(err))
		return nil, nil
	}

	var archive service.ImageArchive
	if s3cfg := config.NewS3Config(awsCfg, cfg.S3BucketName); s3cfg != nil {
		archive = s3cfg
	}
	var detector service.LabelDetector
	if cfg.VisionEnabled {
		detector = service.NewRekognitionDetector(config.NewRekognitionClient(awsCfg))
	}
	return archive, detector
}
