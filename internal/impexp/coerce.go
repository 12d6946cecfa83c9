// Package impexp implements the CSV export/import surface: flattening the
// collection→item tree into tabular rows and reconciling such rows back
// into the store with merge-by-natural-key upsert semantics.
package impexp

import (
	"strconv"
	"strings"
)

// Exported column names, in document order.
const (
	colCollectionName         = "collection_name"
	colCollectionCategory     = "collection_category"
	colCollectionAcquiredDate = "collection_acquired_date"
	colItemName               = "item_name"
	colItemCondition          = "item_condition"
	colItemCost               = "item_cost"
	colItemPrice              = "item_price"
	colItemProfit             = "item_profit"
	colItemSource             = "item_source"
	colItemStatus             = "item_status"
	colItemQuantity           = "item_quantity"
	colItemImageURL           = "item_image_url"
)

// ToNumber coerces a tabular cell to a float64. Empty or non-numeric input
// yields def: a malformed numeric cell in a hand-edited spreadsheet must
// degrade, not abort the whole import.
func ToNumber(raw string, def float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return n
}

// formatNumber renders a float without trailing zeros, matching the way
// numbers entered the document.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
