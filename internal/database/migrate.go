package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/himanshu-anonymous/CookMate/internal/models"
)

// Models lists every table the service owns, in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Badge{},
		&models.InventoryItem{},
		&models.CookingSessionRecord{},
		&models.MealLog{},
		&models.SavedRecipe{},
	}
}

// Migrate brings the schema up to date. Postgres also gets the pgvector
// extension used by saved recipe embeddings.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == DriverPostgres {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to install pgvector extension: %w", err)
		}
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
