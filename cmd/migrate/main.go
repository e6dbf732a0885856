package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/himanshu-anonymous/CookMate/config"
	"github.com/himanshu-anonymous/CookMate/internal/database"
	"github.com/himanshu-anonymous/CookMate/internal/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "List the tables that would be migrated and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg, log.Named("database"))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if *dryRun {
		for _, m := range database.Models() {
			fmt.Printf("would migrate: %T\n", m)
		}
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("all migrations applied", zap.String("driver", cfg.DBDriver))
}
