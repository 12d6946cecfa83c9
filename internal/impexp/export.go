package impexp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"stashmate/internal/model"
	"stashmate/internal/store"
	"stashmate/internal/tabular"
)

// ErrNoCollections is returned by Export when the owner has no matching
// collections. An owner with collections but no items is not an error.
var ErrNoCollections = errors.New("no collections to export")

// ExportResult holds the serialized document and its row count.
type ExportResult struct {
	Document string
	RowCount int
}

// Export flattens the owner's collections and their items into a CSV
// document, newest acquisition first. When ids is non-empty only those
// collections are exported. A collection with no items contributes exactly
// one row with empty item columns.
func Export(ctx context.Context, db *sql.DB, ownerID int64, ids []int64) (*ExportResult, error) {
	collections, err := store.ListCollections(ctx, db, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("loading collections: %w", err)
	}
	if len(collections) == 0 {
		return nil, ErrNoCollections
	}

	var records []tabular.Record
	for _, col := range collections {
		items, err := store.ListCollectionItems(ctx, db, col.ID)
		if err != nil {
			return nil, fmt.Errorf("loading items for collection %d: %w", col.ID, err)
		}

		if len(items) == 0 {
			records = append(records, exportRow(col.Name, col.Category, col.AcquiredDate, nil))
			continue
		}
		for i := range items {
			records = append(records, exportRow(col.Name, col.Category, col.AcquiredDate, &items[i]))
		}
	}

	document, err := tabular.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("serializing export: %w", err)
	}

	return &ExportResult{Document: document, RowCount: len(records)}, nil
}

// exportRow builds one flattened (collection, item) record. A nil item
// renders every item column as the empty string; numeric columns in
// particular stay empty rather than becoming zero.
func exportRow(name, category, acquiredDate string, item *model.Item) tabular.Record {
	var rec tabular.Record
	rec.Set(colCollectionName, name)
	rec.Set(colCollectionCategory, category)
	rec.Set(colCollectionAcquiredDate, acquiredDate)
	if item == nil {
		for _, col := range []string{
			colItemName, colItemCondition, colItemCost, colItemPrice, colItemProfit,
			colItemSource, colItemStatus, colItemQuantity, colItemImageURL,
		} {
			rec.Set(col, "")
		}
		return rec
	}
	rec.Set(colItemName, item.Name)
	rec.Set(colItemCondition, item.Condition)
	rec.Set(colItemCost, formatNumber(item.Cost))
	rec.Set(colItemPrice, formatNumber(item.Price))
	rec.Set(colItemProfit, formatNumber(item.Profit))
	rec.Set(colItemSource, item.Source)
	rec.Set(colItemStatus, item.Status.Label())
	rec.Set(colItemQuantity, strconv.Itoa(item.Quantity))
	rec.Set(colItemImageURL, item.ImageURL)
	return rec
}
