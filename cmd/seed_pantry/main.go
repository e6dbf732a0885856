package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/himanshu-anonymous/CookMate/config"
	"github.com/himanshu-anonymous/CookMate/internal/database"
	"github.com/himanshu-anonymous/CookMate/internal/logger"
	"github.com/himanshu-anonymous/CookMate/internal/service"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

// demoPantry is a typical hostel cupboard with a few items close to expiry
var demoPantry = []struct {
	Name       string
	Quantity   float64
	Unit       string
	Category   string
	Price      float64
	ExpiryDays int
}{
	{"Rice", 5, "kg", "Grains", 60, 180},
	{"Toor Dal", 2, "kg", "Pulses", 140, 180},
	{"Onion", 3, "kg", "Vegetables", 35, 14},
	{"Tomato", 1, "kg", "Vegetables", 40, 4},
	{"Spinach", 1, "bunch", "Vegetables", 30, 2},
	{"Paneer", 0.5, "kg", "Dairy", 360, 3},
	{"Milk", 2, "L", "Dairy", 56, 2},
	{"Eggs", 12, "pcs", "Protein", 7, 10},
	{"Chicken Breast", 1, "kg", "Protein", 280, 2},
	{"Atta", 5, "kg", "Grains", 45, 90},
	{"Cooking Oil", 1, "L", "Essentials", 150, 365},
	{"Salt", 1, "kg", "Essentials", 25, 0},
}

func main() {
	username := flag.String("user", "demo", "Username to seed")
	persona := flag.String("persona", "hosteler", "Persona for a newly created user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Development: true})
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg, log.Named("database"))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()
	rotis := 2
	user, created, err := service.NewUserService(db, nil, log).CreateUser(ctx, &types.CreateUserRequest{
		Username:     *username,
		Persona:      *persona,
		RotisPerMeal: &rotis,
		HealthGoal:   "Balanced",
	})
	if err != nil {
		log.Fatal("failed to create user", zap.Error(err))
	}

	now := time.Now()
	items := make([]types.InventoryItemCreate, 0, len(demoPantry))
	for _, p := range demoPantry {
		item := types.InventoryItemCreate{
			Name:         p.Name,
			Quantity:     p.Quantity,
			Unit:         p.Unit,
			Category:     p.Category,
			PricePerUnit: p.Price,
		}
		if p.ExpiryDays > 0 {
			expiry := now.AddDate(0, 0, p.ExpiryDays)
			item.ExpiryDate = &expiry
		}
		items = append(items, item)
	}

	result, err := service.NewInventoryService(db, nil, nil, nil, log).BulkAdd(ctx, user.ID, items)
	if err != nil {
		log.Fatal("failed to seed pantry", zap.Error(err))
	}

	log.Info("pantry seeded",
		zap.String("username", user.Username),
		zap.Uint("user_id", user.ID),
		zap.Bool("user_created", created),
		zap.Int("items_created", result.Created),
		zap.Int("items_restocked", result.Updated))
}
