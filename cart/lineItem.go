package cart

import (
	"github.com/Kariqs/bistro-api/models"
	"github.com/shopspring/decimal"
)

// IngredientSelection is a copy of an ingredient chosen when the item was
// added. It is not linked back to the menu item.
type IngredientSelection struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// LineItem is one cart row. Item is a snapshot of the menu item taken when
// it was added.
type LineItem struct {
	Item                models.Item           `json:"item"`
	Quantity            int                   `json:"quantity"`
	SelectedIngredients []IngredientSelection `json:"selectedIngredients"`
	TotalPrice          decimal.Decimal       `json:"totalPrice"`
}

func (l LineItem) ItemID() string { return l.Item.ID }

func lineTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

func snapshotItem(item *models.Item) models.Item {
	snap := *item
	if item.Ingredients != nil {
		snap.Ingredients = append(snap.Ingredients[:0:0], item.Ingredients...)
	}
	return snap
}

// uniqueSelections drops repeated ingredient names, keeping the first.
func uniqueSelections(selections []IngredientSelection) []IngredientSelection {
	out := make([]IngredientSelection, 0, len(selections))
	seen := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		if _, dup := seen[sel.Name]; dup {
			continue
		}
		seen[sel.Name] = struct{}{}
		out = append(out, sel)
	}
	return out
}

func cloneLines(lines []LineItem) []LineItem {
	out := make([]LineItem, len(lines))
	for i, l := range lines {
		out[i] = l
		out[i].Item = snapshotItem(&l.Item)
		out[i].SelectedIngredients = append([]IngredientSelection(nil), l.SelectedIngredients...)
	}
	return out
}
