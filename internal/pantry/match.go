// Package pantry decides how consumed ingredients map onto inventory rows and
// how a decrement plan is applied to them.
//
// Matching is case-insensitive substring containment of the item name inside
// the consumed phrase: "Chicken" matches "2 kg chicken breast diced". The
// first matching row in stored order wins and each phrase contributes at most
// one decrement.
package pantry

import (
	"strings"

	"github.com/himanshu-anonymous/CookMate/internal/models"
)

// FixedDecrement is the amount removed per matched phrase
const FixedDecrement = 1.0

// Deduction is one planned decrement against an inventory row
type Deduction struct {
	ItemID uint    `json:"inventory_id"`
	Amount float64 `json:"decrement_amount"`
}

// Match builds the fixed-decrement plan for the consumed phrases.
// Phrases that match no row are skipped. Rows whose name is empty or
// whitespace never match, so they cannot swallow every phrase.
func Match(phrases []string, inventory []models.InventoryItem) []Deduction {
	names := make([]string, len(inventory))
	for i, item := range inventory {
		names[i] = strings.ToLower(strings.TrimSpace(item.Name))
	}

	plan := make([]Deduction, 0, len(phrases))
	for _, phrase := range phrases {
		p := strings.ToLower(phrase)
		for i, name := range names {
			if name == "" {
				continue
			}
			if strings.Contains(p, name) {
				plan = append(plan, Deduction{ItemID: inventory[i].ID, Amount: FixedDecrement})
				break
			}
		}
	}
	return plan
}

// Sanitize drops proposed decrements that reference rows outside the
// inventory or carry a non-positive amount.
func Sanitize(proposed []Deduction, inventory []models.InventoryItem) []Deduction {
	known := make(map[uint]struct{}, len(inventory))
	for _, item := range inventory {
		known[item.ID] = struct{}{}
	}

	out := make([]Deduction, 0, len(proposed))
	for _, d := range proposed {
		if _, ok := known[d.ItemID]; !ok {
			continue
		}
		if !(d.Amount > 0) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Totals folds a plan into one amount per row, keeping first-seen order
func Totals(plan []Deduction) []Deduction {
	index := make(map[uint]int, len(plan))
	out := make([]Deduction, 0, len(plan))
	for _, d := range plan {
		if i, ok := index[d.ItemID]; ok {
			out[i].Amount += d.Amount
			continue
		}
		index[d.ItemID] = len(out)
		out = append(out, d)
	}
	return out
}
