package testhelpers

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/himanshu-anonymous/CookMate/internal/models"
)

// CreateUser inserts a user with a baseline profile
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:           username,
		Persona:            models.PersonaHosteler,
		HealthGoal:         "Balanced",
		RotisPerMeal:       2,
		PortionMultiplier:  1.0,
		CurrentEffortLevel: "normal",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateItem inserts a pantry row
func CreateItem(t *testing.T, db *gorm.DB, userID uint, name string, quantity float64) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		UserID:      userID,
		Name:        name,
		Quantity:    quantity,
		Unit:        "pcs",
		Category:    "pantry",
		IsExhausted: quantity == 0,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create item %s: %v", name, err)
	}
	return item
}

// CreateExpiringItem inserts a pantry row with an expiry date
func CreateExpiringItem(t *testing.T, db *gorm.DB, userID uint, name string, quantity float64, expiry time.Time) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		UserID:     userID,
		Name:       name,
		Quantity:   quantity,
		Category:   "pantry",
		ExpiryDate: &expiry,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create item %s: %v", name, err)
	}
	return item
}

// ReloadItem reads an inventory row back from the database
func ReloadItem(t *testing.T, db *gorm.DB, id uint) models.InventoryItem {
	t.Helper()

	var item models.InventoryItem
	if err := db.First(&item, id).Error; err != nil {
		t.Fatalf("failed to reload item %d: %v", id, err)
	}
	return item
}

// ReloadUser reads a user row back from the database with badges
func ReloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()

	var user models.User
	if err := db.Preload("Badges").First(&user, id).Error; err != nil {
		t.Fatalf("failed to reload user %d: %v", id, err)
	}
	return user
}
