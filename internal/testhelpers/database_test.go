package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/service"
)

func TestSetupSQLiteIsolated(t *testing.T) {
	a := SetupSQLite(t)
	b := SetupSQLite(t)

	CreateUser(t, a, "asha")

	var count int64
	require.NoError(t, b.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFixtures(t *testing.T) {
	db := SetupSQLite(t)
	user := CreateUser(t, db, "asha")
	item := CreateItem(t, db, user.ID, "Rice", 0)

	reloaded := ReloadItem(t, db, item.ID)
	assert.True(t, reloaded.IsExhausted)
	assert.Equal(t, "asha", ReloadUser(t, db, user.ID).Username)
}

func TestSetupPostgresVectorColumn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db := SetupPostgres(t)
	user := CreateUser(t, db, "asha")

	recipe := &models.SavedRecipe{
		UserID:      user.ID,
		DishName:    "Dal",
		Ingredients: models.JSONBStringArray{"lentils"},
		Embedding:   service.RecipeEmbedding("Dal", []string{"lentils"}),
	}
	require.NoError(t, db.Create(recipe).Error)

	var got models.SavedRecipe
	require.NoError(t, db.First(&got, recipe.ID).Error)
	assert.Equal(t, recipe.Embedding.Slice(), got.Embedding.Slice())
}
