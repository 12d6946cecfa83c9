package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"stashmate/internal/model"
)

// CreateCollection creates a new collection for the owner.
func CreateCollection(ctx context.Context, db *sql.DB, ownerID int64, name, category, acquiredDate string) (*model.Collection, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO collections (owner_id, name, category, acquired_date) VALUES (?, ?, ?, ?)`,
		ownerID, name, category, acquiredDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting collection id: %w", err)
	}

	return GetCollection(ctx, db, ownerID, id)
}

// GetCollection returns a collection by ID, scoped to the owner.
func GetCollection(ctx context.Context, db *sql.DB, ownerID, id int64) (*model.Collection, error) {
	c := &model.Collection{}
	err := db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, category, acquired_date, created_at
		 FROM collections WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Category, &c.AcquiredDate, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting collection: %w", err)
	}
	return c, nil
}

// FindCollectionByKey returns the owner's collection matching the natural
// key (name, acquired_date), or nil if none exists.
func FindCollectionByKey(ctx context.Context, db *sql.DB, ownerID int64, name, acquiredDate string) (*model.Collection, error) {
	c := &model.Collection{}
	err := db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, category, acquired_date, created_at
		 FROM collections WHERE owner_id = ? AND name = ? AND acquired_date = ?`,
		ownerID, name, acquiredDate,
	).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Category, &c.AcquiredDate, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding collection by key: %w", err)
	}
	return c, nil
}

// ListCollections returns the owner's collections ordered by acquisition
// date descending. When ids is non-empty only those collections are
// returned.
func ListCollections(ctx context.Context, db *sql.DB, ownerID int64, ids []int64) ([]model.Collection, error) {
	query := `SELECT id, owner_id, name, category, acquired_date, created_at
	          FROM collections WHERE owner_id = ?`
	args := []any{ownerID}

	if len(ids) > 0 {
		query += ` AND id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	query += ` ORDER BY acquired_date DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var collections []model.Collection
	for rows.Next() {
		var c model.Collection
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Category, &c.AcquiredDate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// UpdateCollection updates a collection's metadata, scoped to the owner.
func UpdateCollection(ctx context.Context, db *sql.DB, ownerID, id int64, name, category, acquiredDate string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE collections SET name = ?, category = ?, acquired_date = ?
		 WHERE id = ? AND owner_id = ?`,
		name, category, acquiredDate, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("updating collection: %w", err)
	}
	return nil
}

// DeleteCollection deletes a collection and all of its items in one
// transaction, scoped to the owner.
func DeleteCollection(ctx context.Context, db *sql.DB, ownerID, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM collections WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("collection not found")
	}
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE collection_id = ?`, id); err != nil {
		return fmt.Errorf("deleting collection items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing collection deletion: %w", err)
	}
	return nil
}
