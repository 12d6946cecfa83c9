package store

import (
	"context"
	"testing"

	"stashmate/internal/db"
	"stashmate/internal/model"
)

func TestReconcileCreatesCollection(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := testUser(t, database, "alice")

	id, created, err := ReconcileCollection(ctx, database, ownerID,
		model.Collection{Name: "Lot", Category: "Misc", AcquiredDate: "2024-01-01"},
		[]model.Item{{Name: "Widget", Quantity: 1, CreatedAt: "2024-01-01"}},
	)
	if err != nil {
		t.Fatalf("ReconcileCollection: %v", err)
	}
	if !created {
		t.Error("expected created = true")
	}

	items, _ := ListCollectionItems(ctx, database, id)
	if len(items) != 1 || items[0].Name != "Widget" {
		t.Errorf("items = %+v", items)
	}
}

func TestReconcileUpdatesCategoryOnly(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := testUser(t, database, "alice")

	existing, _ := CreateCollection(ctx, database, ownerID, "Lot", "Old", "2024-01-01")

	id, created, err := ReconcileCollection(ctx, database, ownerID,
		model.Collection{Name: "Lot", Category: "New", AcquiredDate: "2024-01-01"}, nil,
	)
	if err != nil {
		t.Fatalf("ReconcileCollection: %v", err)
	}
	if created {
		t.Error("expected created = false for existing natural key")
	}
	if id != existing.ID {
		t.Errorf("id = %d, want existing %d", id, existing.ID)
	}

	got, _ := GetCollection(ctx, database, ownerID, existing.ID)
	if got.Category != "New" {
		t.Errorf("category = %q, want New", got.Category)
	}
}

func TestReconcileReplacesItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := testUser(t, database, "alice")

	col, _ := CreateCollection(ctx, database, ownerID, "Lot", "Misc", "2024-01-01")
	for _, name := range []string{"Old A", "Old B"} {
		CreateItem(ctx, database, &model.Item{CollectionID: col.ID, Name: name, Quantity: 1, CreatedAt: "2024-01-01"})
	}

	_, _, err := ReconcileCollection(ctx, database, ownerID,
		model.Collection{Name: "Lot", Category: "Misc", AcquiredDate: "2024-01-01"},
		[]model.Item{{Name: "Fresh", Quantity: 1, CreatedAt: "2024-01-02"}},
	)
	if err != nil {
		t.Fatalf("ReconcileCollection: %v", err)
	}

	items, _ := ListCollectionItems(ctx, database, col.ID)
	if len(items) != 1 || items[0].Name != "Fresh" {
		t.Errorf("expected full replacement, got %+v", items)
	}
}

func TestReconcileNoItemsLeavesExisting(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := testUser(t, database, "alice")

	col, _ := CreateCollection(ctx, database, ownerID, "Lot", "Misc", "2024-01-01")
	CreateItem(ctx, database, &model.Item{CollectionID: col.ID, Name: "Keeper", Quantity: 1, CreatedAt: "2024-01-01"})

	_, _, err := ReconcileCollection(ctx, database, ownerID,
		model.Collection{Name: "Lot", Category: "Misc", AcquiredDate: "2024-01-01"}, nil,
	)
	if err != nil {
		t.Fatalf("ReconcileCollection: %v", err)
	}

	items, _ := ListCollectionItems(ctx, database, col.ID)
	if len(items) != 1 || items[0].Name != "Keeper" {
		t.Errorf("expected existing items untouched, got %+v", items)
	}
}

func TestReconcileRollsBackOnFailure(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := testUser(t, database, "alice")

	col, _ := CreateCollection(ctx, database, ownerID, "Lot", "Misc", "2024-01-01")
	CreateItem(ctx, database, &model.Item{CollectionID: col.ID, Name: "Keeper", Quantity: 1, CreatedAt: "2024-01-01"})

	// Quantity 0 violates the items CHECK constraint mid-transaction; the
	// delete that preceded it must roll back.
	_, _, err := ReconcileCollection(ctx, database, ownerID,
		model.Collection{Name: "Lot", Category: "Misc", AcquiredDate: "2024-01-01"},
		[]model.Item{{Name: "Broken", Quantity: 0, CreatedAt: "2024-01-02"}},
	)
	if err == nil {
		t.Fatal("expected constraint error")
	}

	items, _ := ListCollectionItems(ctx, database, col.ID)
	if len(items) != 1 || items[0].Name != "Keeper" {
		t.Errorf("expected rollback to keep existing items, got %+v", items)
	}
}
