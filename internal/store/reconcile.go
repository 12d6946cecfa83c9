package store

import (
	"context"
	"database/sql"
	"fmt"

	"stashmate/internal/model"
)

// ReconcileCollection applies one import group to the store: the owner's
// collection matching the (name, acquired_date) natural key is updated
// (category only) or created, and when the group carries items the
// collection's entire item set is replaced. The whole sequence runs in one
// transaction so a failure cannot leave a collection stripped of its items.
//
// Returns the collection ID and whether a new collection was created.
func ReconcileCollection(ctx context.Context, db *sql.DB, ownerID int64, col model.Collection, items []model.Item) (int64, bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var collectionID int64
	created := false

	err = tx.QueryRowContext(ctx,
		`SELECT id FROM collections WHERE owner_id = ? AND name = ? AND acquired_date = ?`,
		ownerID, col.Name, col.AcquiredDate,
	).Scan(&collectionID)
	switch {
	case err == sql.ErrNoRows:
		result, err := tx.ExecContext(ctx,
			`INSERT INTO collections (owner_id, name, category, acquired_date) VALUES (?, ?, ?, ?)`,
			ownerID, col.Name, col.Category, col.AcquiredDate,
		)
		if err != nil {
			return 0, false, fmt.Errorf("creating collection: %w", err)
		}
		collectionID, err = result.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("getting collection id: %w", err)
		}
		created = true
	case err != nil:
		return 0, false, fmt.Errorf("finding collection by key: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE collections SET category = ? WHERE id = ?`,
			col.Category, collectionID,
		); err != nil {
			return 0, false, fmt.Errorf("updating collection: %w", err)
		}
	}

	// A group with no item drafts leaves existing items untouched.
	if len(items) > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM items WHERE collection_id = ?`, collectionID,
		); err != nil {
			return 0, false, fmt.Errorf("deleting existing items: %w", err)
		}
		for _, item := range items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO items (collection_id, name, condition, cost, price, profit,
				                    source, status, quantity, image_url, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				collectionID, item.Name, item.Condition, item.Cost, item.Price, item.Profit,
				item.Source, item.Status, item.Quantity, item.ImageURL, item.CreatedAt,
			); err != nil {
				return 0, false, fmt.Errorf("inserting item %q: %w", item.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("committing reconciliation: %w", err)
	}
	return collectionID, created, nil
}
