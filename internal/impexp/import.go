package impexp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stashmate/internal/model"
	"stashmate/internal/store"
	"stashmate/internal/tabular"
)

// ErrEmptyDocument is returned by Import when the document parses to zero
// data rows.
var ErrEmptyDocument = errors.New("no data found in document")

// Summary reports the outcome of an import.
type Summary struct {
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Message string `json:"message"`
}

// draft is a not-yet-persisted collection built while parsing import rows.
type draft struct {
	collection model.Collection
	items      []model.Item
}

// Import parses a CSV document produced by (or compatible with) Export and
// reconciles it against the owner's collections: rows are grouped by the
// (name, acquired_date) natural key in first-seen order, each group is
// created or updated, and a group carrying items replaces the collection's
// entire item set. A failure aborts the remaining groups; the returned
// summary carries the counts accumulated up to that point.
func Import(ctx context.Context, db *sql.DB, ownerID int64, document string) (Summary, error) {
	var summary Summary

	rows, err := tabular.Unmarshal(document)
	if err != nil {
		return summary, err
	}
	if len(rows) == 0 {
		return summary, ErrEmptyDocument
	}

	today := time.Now().Format("2006-01-02")
	drafts := groupRows(rows, today)

	for _, d := range drafts {
		_, created, err := store.ReconcileCollection(ctx, db, ownerID, d.collection, d.items)
		if err != nil {
			return summary, fmt.Errorf("reconciling collection %q: %w", d.collection.Name, err)
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	summary.Message = fmt.Sprintf("Import complete! Created: %d, Updated: %d", summary.Created, summary.Updated)
	return summary, nil
}

// groupRows regroups flat rows into collection drafts keyed by the natural
// key, preserving first-seen order. Every row refreshes the draft's
// collection fields (last write wins); only rows with a non-blank item name
// contribute an item draft, so a blank-item row still materializes its
// collection.
func groupRows(rows []tabular.Record, today string) []*draft {
	var order []string
	byKey := make(map[string]*draft)

	for _, row := range rows {
		name := row.Get(colCollectionName)
		acquired := row.Get(colCollectionAcquiredDate)

		key := name + "\n" + acquired

		d, ok := byKey[key]
		if !ok {
			d = &draft{}
			byKey[key] = d
			order = append(order, key)
		}
		d.collection = model.Collection{
			Name:         name,
			Category:     row.Get(colCollectionCategory),
			AcquiredDate: acquired,
		}

		if strings.TrimSpace(row.Get(colItemName)) == "" {
			continue
		}
		d.items = append(d.items, itemDraft(row, today))
	}

	drafts := make([]*draft, 0, len(order))
	for _, key := range order {
		drafts = append(drafts, byKey[key])
	}
	return drafts
}

// itemDraft derives a typed item from an untyped row. Profit is always
// recomputed from cost/price/quantity; an item_profit cell is read over.
// The creation date is stamped with today's date, not preserved from the
// document.
func itemDraft(row tabular.Record, today string) model.Item {
	cost := ToNumber(row.Get(colItemCost), 0)
	price := ToNumber(row.Get(colItemPrice), 0)
	quantity := int(ToNumber(row.Get(colItemQuantity), 1))
	if quantity < 1 {
		quantity = 1
	}

	item := model.Item{
		Name:      row.Get(colItemName),
		Condition: row.Get(colItemCondition),
		Cost:      cost,
		Price:     price,
		Source:    row.Get(colItemSource),
		Status:    model.ParseStatus(row.Get(colItemStatus)),
		Quantity:  quantity,
		ImageURL:  row.Get(colItemImageURL),
		CreatedAt: today,
	}
	item.ComputeProfit()
	return item
}
