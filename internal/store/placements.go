package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/anzeb/placekeeper/internal/model"
)

// NewPlacement describes a placement to record. SeenWith lists other items
// observed at the same time; self references and duplicates are ignored.
type NewPlacement struct {
	ItemID       int64
	Zone         string
	Distribution string
	Routine      string
	Motive       string
	SeenWith     []int64
}

const placementColumns = `id, item_id, zone, distribution, routine, motive, seen_with, placed_at`

// RecordPlacement records where an item was put. The placement insert and
// the co-presence upserts for every seen-with pair are one transaction, so
// a failed reference leaves the store unchanged.
func RecordPlacement(ctx context.Context, db *sql.DB, params NewPlacement) (*model.Placement, error) {
	if params.Zone == "" {
		return nil, fmt.Errorf("zone name is required: %w", ErrValidation)
	}
	if !model.ValidDistribution(params.Distribution) {
		return nil, fmt.Errorf("unrecognized distribution type %q: %w", params.Distribution, ErrValidation)
	}

	seenWith := normalizeSeenWith(params.ItemID, params.SeenWith)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := itemExists(ctx, tx, params.ItemID); err != nil {
		return nil, err
	}
	for _, other := range seenWith {
		if err := itemExists(ctx, tx, other); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO placements (item_id, zone, distribution, routine, motive, seen_with, placed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		params.ItemID, params.Zone, params.Distribution,
		nullString(params.Routine), nullString(params.Motive),
		marshalSeenWith(seenWith), now,
	)
	if err != nil {
		return nil, fmt.Errorf("recording placement: %w", err)
	}

	for _, other := range seenWith {
		if err := upsertCoPresence(ctx, tx, params.ItemID, other, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing placement: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetPlacement(ctx, db, id)
}

// GetPlacement returns a placement by ID.
func GetPlacement(ctx context.Context, db *sql.DB, id int64) (*model.Placement, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+placementColumns+` FROM placements WHERE id = ?`, id)
	p, err := scanPlacement(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("placement %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting placement: %w", err)
	}
	return p, nil
}

// GetPlacementHistory returns an item's placements, newest first. Ties on
// the timestamp break by insertion order, newest first.
func GetPlacementHistory(ctx context.Context, db *sql.DB, itemID int64) ([]model.Placement, error) {
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM items WHERE id = ?`, itemID).Scan(&one)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+placementColumns+` FROM placements
		 WHERE item_id = ?
		 ORDER BY placed_at DESC, id DESC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting placement history: %w", err)
	}
	defer rows.Close()

	return scanPlacements(rows)
}

// ListPlacements returns all placements in insertion order.
func ListPlacements(ctx context.Context, db *sql.DB) ([]model.Placement, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+placementColumns+` FROM placements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing placements: %w", err)
	}
	defer rows.Close()

	return scanPlacements(rows)
}

// ItemsInZone returns the items whose latest placement landed in the given
// zone.
func ItemsInZone(ctx context.Context, db *sql.DB, zone string) ([]model.ZoneItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT i.id, i.name, i.category, p.distribution, p.placed_at
		 FROM items i
		 JOIN placements p ON p.item_id = i.id
		 WHERE p.id = (SELECT p2.id FROM placements p2 WHERE p2.item_id = i.id
		               ORDER BY p2.placed_at DESC, p2.id DESC LIMIT 1)
		   AND p.zone = ?
		 ORDER BY i.id`, zone,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items in zone: %w", err)
	}
	defer rows.Close()

	var items []model.ZoneItem
	for rows.Next() {
		var zi model.ZoneItem
		if err := rows.Scan(&zi.ItemID, &zi.Name, &zi.Category, &zi.Distribution, &zi.PlacedAt); err != nil {
			return nil, fmt.Errorf("scanning zone item: %w", err)
		}
		items = append(items, zi)
	}
	return items, rows.Err()
}

// itemExists fails with a not-found error when the item is absent.
func itemExists(ctx context.Context, tx *sql.Tx, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM items WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking item: %w", err)
	}
	return nil
}

// normalizeSeenWith drops self references and duplicates and sorts the
// remaining ids.
func normalizeSeenWith(itemID int64, seenWith []int64) []int64 {
	var out []int64
	for _, id := range seenWith {
		if id == itemID || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func marshalSeenWith(ids []int64) any {
	if len(ids) == 0 {
		return nil
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

func scanPlacement(row rowScanner) (*model.Placement, error) {
	p := &model.Placement{}
	var routine, motive, seenWith sql.NullString
	err := row.Scan(&p.ID, &p.ItemID, &p.Zone, &p.Distribution,
		&routine, &motive, &seenWith, &p.PlacedAt)
	if err != nil {
		return nil, err
	}
	p.Routine = routine.String
	p.Motive = motive.String
	if seenWith.Valid {
		if err := json.Unmarshal([]byte(seenWith.String), &p.SeenWith); err != nil {
			return nil, fmt.Errorf("decoding seen_with: %w", err)
		}
	}
	return p, nil
}

func scanPlacements(rows *sql.Rows) ([]model.Placement, error) {
	var placements []model.Placement
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning placement: %w", err)
		}
		placements = append(placements, *p)
	}
	return placements, rows.Err()
}
