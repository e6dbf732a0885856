package pantry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/himanshu-anonymous/CookMate/internal/models"
)

func TestApplyDecrements(t *testing.T) {
	item := models.InventoryItem{Name: "Chicken Breast", Quantity: 2.0}
	exhausted := Apply(&item, 1.0)

	assert.False(t, exhausted)
	assert.Equal(t, 1.0, item.Quantity)
	assert.False(t, item.IsExhausted)
}

func TestApplyClampsAtZero(t *testing.T) {
	item := models.InventoryItem{Name: "Chicken Breast", Quantity: 0.5}
	exhausted := Apply(&item, 1.0)

	assert.True(t, exhausted)
	assert.Equal(t, 0.0, item.Quantity)
	assert.True(t, item.IsExhausted)
}

func TestApplyExactToZero(t *testing.T) {
	item := models.InventoryItem{Quantity: 1.0}
	assert.True(t, Apply(&item, 1.0))
	assert.True(t, item.IsExhausted)

	// already empty rows stay empty and are not reported again
	assert.False(t, Apply(&item, 1.0))
	assert.Equal(t, 0.0, item.Quantity)
	assert.True(t, item.IsExhausted)
}

func TestQuantityNeverNegative(t *testing.T) {
	item := models.InventoryItem{Quantity: 3}
	for _, amount := range []float64{0.4, 2.9, 5, 1} {
		Apply(&item, amount)
		assert.GreaterOrEqual(t, item.Quantity, 0.0)
		assert.Equal(t, item.Quantity == 0, item.IsExhausted)
	}
}

func TestRestock(t *testing.T) {
	item := models.InventoryItem{Quantity: 0, IsExhausted: true}
	Restock(&item, 2)
	assert.Equal(t, 2.0, item.Quantity)
	assert.False(t, item.IsExhausted)

	Restock(&item, 0)
	assert.False(t, item.IsExhausted)
}
