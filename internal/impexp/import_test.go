package impexp

import (
	"context"
	"errors"
	"testing"

	"stashmate/internal/db"
	"stashmate/internal/model"
	"stashmate/internal/store"
	"stashmate/internal/tabular"
)

const importHeader = "collection_name,collection_category,collection_acquired_date," +
	"item_name,item_condition,item_cost,item_price,item_profit,item_source," +
	"item_status,item_quantity,item_image_url\n"

func TestImportEmptyDocument(t *testing.T) {
	database := db.NewTestDB(t)
	ownerID := newTestOwner(t, database, "alice")

	// Header-only document: zero data rows.
	_, err := Import(context.Background(), database, ownerID, importHeader)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}

	// Fully empty document fails at the codec.
	_, err = Import(context.Background(), database, ownerID, "")
	var fe *tabular.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *tabular.FormatError, got %v", err)
	}
}

func TestImportCreatesCollectionsAndItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := newTestOwner(t, database, "alice")

	doc := importHeader +
		"Estate Lot,Vinyl,2024-03-01,LP One,Good,4,10,999,Estate sale,Sold,1,\n" +
		"Estate Lot,Vinyl,2024-03-01,LP Two,Fair,2,6,,Estate sale,Listed,2,\n" +
		"Card Box,Cards,2024-04-15,Booster,Sealed,3,9,,eBay,In Stock,1,http://img/1.jpg\n"

	summary, err := Import(ctx, database, ownerID, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 2 || summary.Updated != 0 {
		t.Errorf("created/updated = %d/%d, want 2/0", summary.Created, summary.Updated)
	}
	if summary.Message != "Import complete! Created: 2, Updated: 0" {
		t.Errorf("message = %q", summary.Message)
	}

	col, err := store.FindCollectionByKey(ctx, database, ownerID, "Estate Lot", "2024-03-01")
	if err != nil || col == nil {
		t.Fatalf("FindCollectionByKey: %v, %v", col, err)
	}
	items, _ := store.ListCollectionItems(ctx, database, col.ID)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// item_profit from the document (999) is discarded and recomputed.
	if items[0].Profit != 6 {
		t.Errorf("LP One profit = %v, want (10-4)*1 = 6", items[0].Profit)
	}
	if items[1].Profit != 8 {
		t.Errorf("LP Two profit = %v, want (6-2)*2 = 8", items[1].Profit)
	}
	if items[0].Status != model.StatusSold || items[1].Status != model.StatusListed {
		t.Errorf("statuses = %v, %v", items[0].Status, items[1].Status)
	}
	if items[0].CreatedAt == "" {
		t.Error("expected created_at stamped with today's date")
	}
}

func TestImportIdempotentReimport(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := newTestOwner(t, database, "alice")

	doc := importHeader +
		"Lot A,Misc,2024-01-01,Widget,Used,1,2,,Flea market,Listed,1,\n" +
		"Lot B,Misc,2024-01-02,Gadget,New,5,8,,Flea market,Listed,1,\n"

	first, err := Import(ctx, database, ownerID, doc)
	if err != nil {
		t.Fatalf("first Import: %v", err)
	}
	if first.Created != 2 || first.Updated != 0 {
		t.Errorf("first run created/updated = %d/%d, want 2/0", first.Created, first.Updated)
	}

	second, err := Import(ctx, database, ownerID, doc)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if second.Created != 0 || second.Updated != 2 {
		t.Errorf("second run created/updated = %d/%d, want 0/2", second.Created, second.Updated)
	}

	col, _ := store.FindCollectionByKey(ctx, database, ownerID, "Lot A", "2024-01-01")
	items, _ := store.ListCollectionItems(ctx, database, col.ID)
	if len(items) != 1 {
		t.Errorf("expected 1 item after re-import, got %d", len(items))
	}
}

func TestImportReplacesItemSet(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := newTestOwner(t, database, "alice")

	col, _ := store.CreateCollection(ctx, database, ownerID, "Lot", "Old Category", "2024-05-01")
	for _, name := range []string{"Old A", "Old B", "Old C"} {
		store.CreateItem(ctx, database, &model.Item{CollectionID: col.ID, Name: name, Quantity: 1, CreatedAt: "2024-05-01"})
	}

	doc := importHeader +
		"Lot,New Category,2024-05-01,Replacement,Mint,1,4,,,,1,\n"

	summary, err := Import(ctx, database, ownerID, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 0 || summary.Updated != 1 {
		t.Errorf("created/updated = %d/%d, want 0/1", summary.Created, summary.Updated)
	}

	items, _ := store.ListCollectionItems(ctx, database, col.ID)
	if len(items) != 1 || items[0].Name != "Replacement" {
		t.Fatalf("expected full item replacement, got %+v", items)
	}

	// Only the category is updated on the existing collection.
	updated, _ := store.GetCollection(ctx, database, ownerID, col.ID)
	if updated.Category != "New Category" {
		t.Errorf("category = %q, want New Category", updated.Category)
	}
}

func TestImportBlankItemRowKeepsExistingItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := newTestOwner(t, database, "alice")

	col, _ := store.CreateCollection(ctx, database, ownerID, "Lot", "Misc", "2024-05-01")
	store.CreateItem(ctx, database, &model.Item{CollectionID: col.ID, Name: "Keeper", Quantity: 1, CreatedAt: "2024-05-01"})

	// A blank item name yields no item draft; a group with zero drafts
	// leaves existing items untouched.
	doc := importHeader +
		"Lot,Misc,2024-05-01,   ,,,,,,,,\n"

	if _, err := Import(ctx, database, ownerID, doc); err != nil {
		t.Fatalf("Import: %v", err)
	}

	items, _ := store.ListCollectionItems(ctx, database, col.ID)
	if len(items) != 1 || items[0].Name != "Keeper" {
		t.Errorf("expected existing item kept, got %+v", items)
	}
}

func TestImportBlankItemRowCreatesEmptyCollection(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := newTestOwner(t, database, "alice")

	doc := importHeader +
		"Just A Shell,Misc,2024-07-01,,,,,,,,,\n"

	summary, err := Import(ctx, database, ownerID, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 1 {
		t.Errorf("created = %d, want 1", summary.Created)
	}

	col, _ := store.FindCollectionByKey(ctx, database, ownerID, "Just A Shell", "2024-07-01")
	if col == nil {
		t.Fatal("expected collection to exist")
	}
	items, _ := store.ListCollectionItems(ctx, database, col.ID)
	if len(items) != 0 {
		t.Errorf("expected 0 items, got %d", len(items))
	}
}

func TestImportMergesNonContiguousGroups(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := newTestOwner(t, database, "alice")

	// Rows for Lot X are interleaved with another group; grouping is keyed,
	// not positional, so both Lot X rows land in one collection.
	doc := importHeader +
		"Lot X,Misc,2024-01-01,First,,1,2,,,,1,\n" +
		"Lot Y,Misc,2024-01-02,Other,,1,2,,,,1,\n" +
		"Lot X,Misc,2024-01-01,Second,,1,2,,,,1,\n"

	summary, err := Import(ctx, database, ownerID, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 2 {
		t.Errorf("created = %d, want 2", summary.Created)
	}

	col, _ := store.FindCollectionByKey(ctx, database, ownerID, "Lot X", "2024-01-01")
	items, _ := store.ListCollectionItems(ctx, database, col.ID)
	if len(items) != 2 {
		t.Errorf("expected 2 items in Lot X, got %d", len(items))
	}
}

func TestImportCoercionDefaults(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ownerID := newTestOwner(t, database, "alice")

	// Malformed cost, empty price, garbage status, zero quantity: all
	// degrade to defaults instead of aborting.
	doc := importHeader +
		"Lot,Misc,2024-01-01,Odd Item,,not-a-number,,garbage,,wat,0,\n"

	if _, err := Import(ctx, database, ownerID, doc); err != nil {
		t.Fatalf("Import: %v", err)
	}

	col, _ := store.FindCollectionByKey(ctx, database, ownerID, "Lot", "2024-01-01")
	items, _ := store.ListCollectionItems(ctx, database, col.ID)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Cost != 0 || item.Price != 0 {
		t.Errorf("cost/price = %v/%v, want 0/0", item.Cost, item.Price)
	}
	if item.Status != model.StatusListed {
		t.Errorf("status = %v, want Listed", item.Status)
	}
	if item.Quantity != 1 {
		t.Errorf("quantity = %d, want clamped to 1", item.Quantity)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := newTestOwner(t, database, "alice")
	bob := newTestOwner(t, database, "bob")

	// Seed alice, export, import into bob's empty account.
	c1, _ := store.CreateCollection(ctx, database, alice, "Vinyl Haul", "Records", "2024-02-10")
	store.CreateCollection(ctx, database, alice, "Empty Box", "Misc", "2024-02-11")
	store.CreateItem(ctx, database, &model.Item{CollectionID: c1.ID, Name: "LP", Condition: "VG+", Cost: 4, Price: 10, Quantity: 2, Status: model.StatusSold, CreatedAt: "2024-02-10"})
	store.CreateItem(ctx, database, &model.Item{CollectionID: c1.ID, Name: "Single", Condition: "G", Cost: 1, Price: 2, Quantity: 1, Status: model.StatusListed, CreatedAt: "2024-02-10"})

	exported, err := Export(ctx, database, alice, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	summary, err := Import(ctx, database, bob, exported.Document)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Created != 2 || summary.Updated != 0 {
		t.Errorf("created/updated = %d/%d, want 2/0", summary.Created, summary.Updated)
	}

	reexported, err := Export(ctx, database, bob, nil)
	if err != nil {
		t.Fatalf("re-Export: %v", err)
	}
	if reexported.RowCount != exported.RowCount {
		t.Errorf("re-export rows = %d, want %d", reexported.RowCount, exported.RowCount)
	}

	col, _ := store.FindCollectionByKey(ctx, database, bob, "Vinyl Haul", "2024-02-10")
	items, _ := store.ListCollectionItems(ctx, database, col.ID)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Profit != 12 {
		t.Errorf("profit = %v, want recomputed 12", items[0].Profit)
	}
}
