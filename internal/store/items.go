package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anzeb/placekeeper/internal/model"
)

// NewItem describes an item to register. Category-conditional fields that
// do not apply to the category are dropped rather than rejected.
type NewItem struct {
	TagID           string
	Name            string
	Category        string
	PurchaseDate    *time.Time
	LifespanDays    *int
	Quantity        *int
	RefillThreshold *int
	Unit            string
}

// ItemUpdate contains the fields to change on an item. Nil fields are left
// untouched. Changing the category drops fields that no longer apply.
type ItemUpdate struct {
	TagID           *string
	Name            *string
	Category        *string
	PurchaseDate    *time.Time
	LifespanDays    *int
	Quantity        *int
	RefillThreshold *int
	Unit            *string
}

const itemColumns = `id, tag_id, name, category, purchase_date, lifespan_days,
	quantity, refill_threshold, unit, created_at, updated_at`

// CreateItem registers a new item.
func CreateItem(ctx context.Context, db *sql.DB, params NewItem) (*model.Item, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("item name is required: %w", ErrValidation)
	}
	if !model.ValidCategory(params.Category) {
		return nil, fmt.Errorf("unrecognized category %q: %w", params.Category, ErrValidation)
	}

	item := model.Item{
		TagID:           params.TagID,
		Name:            params.Name,
		Category:        params.Category,
		PurchaseDate:    params.PurchaseDate,
		LifespanDays:    params.LifespanDays,
		Quantity:        params.Quantity,
		RefillThreshold: params.RefillThreshold,
		Unit:            params.Unit,
	}
	clearIrrelevantFields(&item)
	if err := checkCategoryFields(&item); err != nil {
		return nil, err
	}

	if item.TagID != "" {
		if err := checkTagFree(ctx, db, item.TagID, 0); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (tag_id, name, category, purchase_date, lifespan_days,
		                    quantity, refill_threshold, unit, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullString(item.TagID), item.Name, item.Category,
		nullTime(item.PurchaseDate), nullInt(item.LifespanDays),
		nullInt(item.Quantity), nullInt(item.RefillThreshold),
		nullString(item.Unit), now, now,
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
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// GetItemByTag returns the item carrying the given external tag identifier.
func GetItemByTag(ctx context.Context, db *sql.DB, tagID string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE tag_id = ?`, tagID)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tag %q: %w", tagID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item by tag: %w", err)
	}
	return item, nil
}

// ListItems returns all items in insertion order.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
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

// UpdateItem applies the provided fields to an item. Category changes are
// allowed; fields that do not apply to the resulting category are nulled,
// and the resulting field set must still satisfy the category's
// requirements.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, patch ItemUpdate) (*model.Item, error) {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if patch.TagID != nil {
		item.TagID = *patch.TagID
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.PurchaseDate != nil {
		item.PurchaseDate = patch.PurchaseDate
	}
	if patch.LifespanDays != nil {
		item.LifespanDays = patch.LifespanDays
	}
	if patch.Quantity != nil {
		item.Quantity = patch.Quantity
	}
	if patch.RefillThreshold != nil {
		item.RefillThreshold = patch.RefillThreshold
	}
	if patch.Unit != nil {
		item.Unit = *patch.Unit
	}

	if item.Name == "" {
		return nil, fmt.Errorf("item name is required: %w", ErrValidation)
	}
	if !model.ValidCategory(item.Category) {
		return nil, fmt.Errorf("unrecognized category %q: %w", item.Category, ErrValidation)
	}
	clearIrrelevantFields(item)
	if err := checkCategoryFields(item); err != nil {
		return nil, err
	}

	if patch.TagID != nil && item.TagID != "" {
		if err := checkTagFree(ctx, db, item.TagID, id); err != nil {
			return nil, err
		}
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET tag_id = ?, name = ?, category = ?, purchase_date = ?,
		        lifespan_days = ?, quantity = ?, refill_threshold = ?, unit = ?,
		        updated_at = ?
		 WHERE id = ?`,
		nullString(item.TagID), item.Name, item.Category,
		nullTime(item.PurchaseDate), nullInt(item.LifespanDays),
		nullInt(item.Quantity), nullInt(item.RefillThreshold),
		nullString(item.Unit), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// DeleteItem removes an item. Its placements and co-presence rows cascade.
// A second delete of the same id fails with a not-found error.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetItemPhoto stores an item's photo data.
func SetItemPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ?, updated_at = ? WHERE id = ?`,
		photo, mime, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetItemPhoto returns an item's photo data and MIME type. Data is nil when
// the item has no photo.
func GetItemPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}

// clearIrrelevantFields nulls the fields that do not apply to the item's
// category, so no invalid combination is ever stored.
func clearIrrelevantFields(item *model.Item) {
	if item.Category != model.CategoryGoodStuff {
		item.PurchaseDate = nil
		item.LifespanDays = nil
	}
	if item.Category != model.CategoryRefillable {
		item.Quantity = nil
		item.RefillThreshold = nil
		item.Unit = ""
	}
}

// checkCategoryFields verifies the category's required fields are present
// and sane.
func checkCategoryFields(item *model.Item) error {
	switch item.Category {
	case model.CategoryGoodStuff:
		if item.PurchaseDate == nil {
			return fmt.Errorf("good_stuff items need a purchase date: %w", ErrValidation)
		}
		if item.LifespanDays == nil {
			return fmt.Errorf("good_stuff items need an expected lifespan: %w", ErrValidation)
		}
		if *item.LifespanDays <= 0 {
			return fmt.Errorf("expected lifespan must be positive: %w", ErrValidation)
		}
	case model.CategoryRefillable:
		if item.Quantity == nil {
			return fmt.Errorf("refillable items need a current quantity: %w", ErrValidation)
		}
		if item.RefillThreshold == nil {
			return fmt.Errorf("refillable items need a refill threshold: %w", ErrValidation)
		}
		if item.Unit == "" {
			return fmt.Errorf("refillable items need a unit label: %w", ErrValidation)
		}
		if *item.Quantity < 0 || *item.RefillThreshold < 0 {
			return fmt.Errorf("quantity and refill threshold must not be negative: %w", ErrValidation)
		}
	}
	return nil
}

// checkTagFree fails with a conflict error when the tag is assigned to an
// item other than selfID.
func checkTagFree(ctx context.Context, db *sql.DB, tagID string, selfID int64) error {
	existing, err := GetItemByTag(ctx, db, tagID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("tag %q is assigned to item %d: %w", tagID, existing.ID, ErrConflict)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var tagID, unit sql.NullString
	var purchaseDate sql.NullTime
	var lifespanDays, quantity, refillThreshold sql.NullInt64

	err := row.Scan(&item.ID, &tagID, &item.Name, &item.Category,
		&purchaseDate, &lifespanDays, &quantity, &refillThreshold, &unit,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	item.TagID = tagID.String
	item.Unit = unit.String
	if purchaseDate.Valid {
		t := purchaseDate.Time
		item.PurchaseDate = &t
	}
	if lifespanDays.Valid {
		v := int(lifespanDays.Int64)
		item.LifespanDays = &v
	}
	if quantity.Valid {
		v := int(quantity.Int64)
		item.Quantity = &v
	}
	if refillThreshold.Valid {
		v := int(refillThreshold.Int64)
		item.RefillThreshold = &v
	}
	return item, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
