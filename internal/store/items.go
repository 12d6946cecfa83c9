package store

import (
	"context"
	"database/sql"
	"fmt"

	"stashmate/internal/model"
)

const itemColumns = `id, collection_id, name, condition, cost, price, profit,
	source, status, quantity, image_url, created_at`

func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	i := &model.Item{}
	err := row.Scan(&i.ID, &i.CollectionID, &i.Name, &i.Condition, &i.Cost, &i.Price,
		&i.Profit, &i.Source, &i.Status, &i.Quantity, &i.ImageURL, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// CreateItem inserts an item into its collection. The item's profit is
// recomputed before the write; any supplied value is ignored.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	item.ComputeProfit()
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (collection_id, name, condition, cost, price, profit,
		                    source, status, quantity, image_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.CollectionID, item.Name, item.Condition, item.Cost, item.Price, item.Profit,
		item.Source, item.Status, item.Quantity, item.ImageURL, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListCollectionItems returns all items in a collection, oldest first.
func ListCollectionItems(ctx context.Context, db *sql.DB, collectionID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE collection_id = ? ORDER BY id`,
		collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing collection items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's fields, recomputing profit.
func UpdateItem(ctx context.Context, db *sql.DB, item *model.Item) error {
	item.ComputeProfit()
	_, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, condition = ?, cost = ?, price = ?, profit = ?,
		                  source = ?, status = ?, quantity = ?, image_url = ?
		 WHERE id = ?`,
		item.Name, item.Condition, item.Cost, item.Price, item.Profit,
		item.Source, item.Status, item.Quantity, item.ImageURL, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// ItemOwner returns the owner of the collection an item belongs to, or nil
// if the item does not exist. Used for access checks.
func ItemOwner(ctx context.Context, db *sql.DB, itemID int64) (*int64, error) {
	var ownerID int64
	err := db.QueryRowContext(ctx,
		`SELECT c.owner_id FROM items i JOIN collections c ON c.id = i.collection_id
		 WHERE i.id = ?`, itemID,
	).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item owner: %w", err)
	}
	return &ownerID, nil
}

// SetItemImage stores an item's photo.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ? WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's photo data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
