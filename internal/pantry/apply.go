package pantry

import "github.com/himanshu-anonymous/CookMate/internal/models"

// Apply removes amount from the item, clamping at zero.
// IsExhausted is set exactly when the resulting quantity is zero.
// It reports whether this call drove the item to zero.
func Apply(item *models.InventoryItem, amount float64) bool {
	wasExhausted := item.IsExhausted && item.Quantity == 0

	q := item.Quantity - amount
	if q < 0 {
		q = 0
	}
	item.Quantity = q
	item.IsExhausted = q == 0

	return item.IsExhausted && !wasExhausted
}

// Restock adds amount to the item and clears the exhausted flag when stock returns
func Restock(item *models.InventoryItem, amount float64) {
	item.Quantity += amount
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	item.IsExhausted = item.Quantity == 0
}
