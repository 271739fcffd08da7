package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/anzeb/placekeeper/internal/db"
	"github.com/anzeb/placekeeper/internal/model"
)

func intp(v int) *int { return &v }

func timep(t time.Time) *time.Time { return &t }

// testDisposable registers a minimal disposable item.
func testDisposable(t *testing.T, database *sql.DB, name string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, NewItem{
		Name:     name,
		Category: model.CategoryDisposable,
	})
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", name, err)
	}
	return item
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	purchased := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	item, err := CreateItem(ctx, database, NewItem{
		TagID:        "tag-lamp-01",
		Name:         "Desk Lamp",
		Category:     model.CategoryGoodStuff,
		PurchaseDate: timep(purchased),
		LifespanDays: intp(365),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Name != "Desk Lamp" {
		t.Errorf("expected name 'Desk Lamp', got %q", item.Name)
	}
	if item.Category != model.CategoryGoodStuff {
		t.Errorf("expected category 'good_stuff', got %q", item.Category)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.TagID != "tag-lamp-01" {
		t.Errorf("expected tag 'tag-lamp-01', got %q", got.TagID)
	}
	if got.PurchaseDate == nil || !got.PurchaseDate.Equal(purchased) {
		t.Errorf("expected purchase date %v, got %v", purchased, got.PurchaseDate)
	}
	if got.LifespanDays == nil || *got.LifespanDays != 365 {
		t.Errorf("expected lifespan 365, got %v", got.LifespanDays)
	}
}

func TestCreateItemValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		params NewItem
	}{
		{"empty name", NewItem{Category: model.CategoryDisposable}},
		{"unknown category", NewItem{Name: "Thing", Category: "gadget"}},
		{"good_stuff without purchase date", NewItem{
			Name: "Lamp", Category: model.CategoryGoodStuff, LifespanDays: intp(100),
		}},
		{"good_stuff without lifespan", NewItem{
			Name: "Lamp", Category: model.CategoryGoodStuff, PurchaseDate: timep(time.Now()),
		}},
		{"good_stuff zero lifespan", NewItem{
			Name: "Lamp", Category: model.CategoryGoodStuff,
			PurchaseDate: timep(time.Now()), LifespanDays: intp(0),
		}},
		{"refillable without unit", NewItem{
			Name: "Soap", Category: model.CategoryRefillable,
			Quantity: intp(10), RefillThreshold: intp(2),
		}},
		{"refillable negative quantity", NewItem{
			Name: "Soap", Category: model.CategoryRefillable,
			Quantity: intp(-1), RefillThreshold: intp(2), Unit: "ml",
		}},
	}
	for _, tc := range cases {
		if _, err := CreateItem(ctx, database, tc.params); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateItemIgnoresIrrelevantFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Lifecycle fields on a disposable are dropped, not rejected.
	item, err := CreateItem(ctx, database, NewItem{
		Name:         "Paper Towels",
		Category:     model.CategoryDisposable,
		PurchaseDate: timep(time.Now()),
		LifespanDays: intp(30),
		Quantity:     intp(4),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.PurchaseDate != nil || item.LifespanDays != nil || item.Quantity != nil {
		t.Error("expected lifecycle fields to be dropped for a disposable item")
	}
}

func TestTagConflict(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := CreateItem(ctx, database, NewItem{
		Name: "Keys", Category: model.CategoryDisposable, TagID: "tag-001",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	_, err = CreateItem(ctx, database, NewItem{
		Name: "Wallet", Category: model.CategoryDisposable, TagID: "tag-001",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict error for duplicate tag, got %v", err)
	}

	got, err := GetItemByTag(ctx, database, "tag-001")
	if err != nil {
		t.Fatalf("GetItemByTag: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("expected item %d for tag-001, got %d", first.ID, got.ID)
	}

	if _, err := GetItemByTag(ctx, database, "tag-999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not-found for unknown tag, got %v", err)
	}
}

func TestListItemsOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	testDisposable(t, database, "First")
	testDisposable(t, database, "Second")
	testDisposable(t, database, "Third")

	items, err := ListItems(ctx, database)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if items[i].Name != want {
			t.Errorf("position %d: expected %q, got %q", i, want, items[i].Name)
		}
	}
}

func TestUpdateItemPartial(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, NewItem{
		Name: "Hand Soap", Category: model.CategoryRefillable,
		Quantity: intp(10), RefillThreshold: intp(2), Unit: "ml",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	updated, err := UpdateItem(ctx, database, item.ID, ItemUpdate{Quantity: intp(7)})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if *updated.Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", *updated.Quantity)
	}
	if updated.Name != "Hand Soap" || *updated.RefillThreshold != 2 || updated.Unit != "ml" {
		t.Error("expected untouched fields to keep their values")
	}
}

func TestUpdateItemCategoryChange(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, NewItem{
		Name: "Shampoo", Category: model.CategoryRefillable,
		Quantity: intp(500), RefillThreshold: intp(50), Unit: "ml",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	// Switching category without supplying the new category's fields fails.
	category := model.CategoryGoodStuff
	_, err = UpdateItem(ctx, database, item.ID, ItemUpdate{Category: &category})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// With the fields supplied, the refillable fields are nulled.
	updated, err := UpdateItem(ctx, database, item.ID, ItemUpdate{
		Category:     &category,
		PurchaseDate: timep(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		LifespanDays: intp(180),
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Quantity != nil || updated.RefillThreshold != nil || updated.Unit != "" {
		t.Error("expected refillable fields to be cleared after category change")
	}
	if updated.PurchaseDate == nil || updated.LifespanDays == nil {
		t.Error("expected good_stuff fields to be set after category change")
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := UpdateItem(context.Background(), database, 42, ItemUpdate{Name: new(string)})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := testDisposable(t, database, "Delete Me")

	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := GetItem(ctx, database, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
	if err := DeleteItem(ctx, database, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not-found on second delete, got %v", err)
	}
}

func TestDeleteItemCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := testDisposable(t, database, "Gone")
	buddy := testDisposable(t, database, "Buddy")

	_, err := RecordPlacement(ctx, database, NewPlacement{
		ItemID: item.ID, Zone: "desk", Distribution: model.DistributionPlaced,
		SeenWith: []int64{buddy.ID},
	})
	if err != nil {
		t.Fatalf("RecordPlacement: %v", err)
	}

	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	placements, _ := ListPlacements(ctx, database)
	if len(placements) != 0 {
		t.Errorf("expected placements to cascade, got %d rows", len(placements))
	}
	pairs, _ := ListCoPresence(ctx, database)
	if len(pairs) != 0 {
		t.Errorf("expected co-presence rows to cascade, got %d rows", len(pairs))
	}
}

func TestItemPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := testDisposable(t, database, "Photo Item")

	photo := []byte("fake image data")
	if err := SetItemPhoto(ctx, database, item.ID, photo, "image/jpeg"); err != nil {
		t.Fatalf("SetItemPhoto: %v", err)
	}

	data, mime, err := GetItemPhoto(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemPhoto: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected photo data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}

	if err := SetItemPhoto(ctx, database, 999, photo, "image/jpeg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not-found for unknown item, got %v", err)
	}
}
