package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/anzeb/placekeeper/internal/metrics"
	"github.com/anzeb/placekeeper/internal/model"
)

// snapshotKeys are the top-level keys a snapshot document must carry.
var snapshotKeys = []string{"items", "placements", "zones", "export_timestamp"}

// ExportSnapshot produces the export document: full item, placement and
// zone lists plus the derived aggregations. Read-only.
func ExportSnapshot(ctx context.Context, db *sql.DB, now time.Time) (*model.Snapshot, error) {
	items, err := ListItems(ctx, db)
	if err != nil {
		return nil, err
	}
	placements, err := ListPlacements(ctx, db)
	if err != nil {
		return nil, err
	}
	zones, err := ListZones(ctx, db)
	if err != nil {
		return nil, err
	}

	// Empty lists marshal as [], not null, so the document always carries
	// its required keys.
	if items == nil {
		items = []model.Item{}
	}
	if placements == nil {
		placements = []model.Placement{}
	}
	if zones == nil {
		zones = []model.Zone{}
	}

	return &model.Snapshot{
		Items:      items,
		Placements: placements,
		Zones:      zones,
		Patterns:   metrics.DistributionPatterns(placements),
		Routines:   metrics.RoutineInsights(placements),
		ExportedAt: now.UTC(),
	}, nil
}

// ParseSnapshot decodes a snapshot document, failing with a format error
// when the JSON is malformed or a required top-level key is missing.
func ParseSnapshot(data []byte) (*model.Snapshot, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", ErrFormat)
	}
	for _, k := range snapshotKeys {
		if _, ok := keys[k]; !ok {
			return nil, fmt.Errorf("missing top-level key %q: %w", k, ErrFormat)
		}
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", ErrFormat)
	}
	return &snap, nil
}

// ImportSnapshot replaces the entire store contents with the snapshot, in
// one transaction. The co-presence table is not part of the document; it is
// rebuilt by replaying each placement's seen-with set in timestamp order.
func ImportSnapshot(ctx context.Context, db *sql.DB, snap *model.Snapshot) error {
	if err := checkSnapshotRefs(snap); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"co_presence", "placements", "items", "zones"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, z := range snap.Zones {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO zones (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
			z.ID, z.Name, nullString(z.Description), z.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("importing zone %q: %w", z.Name, err)
		}
	}

	for _, item := range snap.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, tag_id, name, category, purchase_date, lifespan_days,
			                    quantity, refill_threshold, unit, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, nullString(item.TagID), item.Name, item.Category,
			nullTime(item.PurchaseDate), nullInt(item.LifespanDays),
			nullInt(item.Quantity), nullInt(item.RefillThreshold),
			nullString(item.Unit), item.CreatedAt.UTC(), item.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("importing item %d: %w", item.ID, err)
		}
	}

	// Replay placements oldest-first so each pair's last-seen ends up at
	// the latest observation.
	ordered := make([]model.Placement, len(snap.Placements))
	copy(ordered, snap.Placements)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].PlacedAt.Equal(ordered[j].PlacedAt) {
			return ordered[i].PlacedAt.Before(ordered[j].PlacedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, p := range ordered {
		seenWith := normalizeSeenWith(p.ItemID, p.SeenWith)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO placements (id, item_id, zone, distribution, routine, motive, seen_with, placed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.ItemID, p.Zone, p.Distribution,
			nullString(p.Routine), nullString(p.Motive),
			marshalSeenWith(seenWith), p.PlacedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("importing placement %d: %w", p.ID, err)
		}
		for _, other := range seenWith {
			if err := upsertCoPresence(ctx, tx, p.ItemID, other, p.PlacedAt.UTC()); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// checkSnapshotRefs validates the document's internal consistency before
// any row is touched.
func checkSnapshotRefs(snap *model.Snapshot) error {
	itemIDs := make(map[int64]struct{}, len(snap.Items))
	for _, item := range snap.Items {
		if !model.ValidCategory(item.Category) {
			return fmt.Errorf("item %d has unrecognized category %q: %w", item.ID, item.Category, ErrFormat)
		}
		if _, dup := itemIDs[item.ID]; dup {
			return fmt.Errorf("duplicate item id %d: %w", item.ID, ErrFormat)
		}
		itemIDs[item.ID] = struct{}{}
	}

	for _, p := range snap.Placements {
		if !model.ValidDistribution(p.Distribution) {
			return fmt.Errorf("placement %d has unrecognized distribution %q: %w", p.ID, p.Distribution, ErrFormat)
		}
		if _, ok := itemIDs[p.ItemID]; !ok {
			return fmt.Errorf("placement %d references unknown item %d: %w", p.ID, p.ItemID, ErrFormat)
		}
		for _, other := range p.SeenWith {
			if _, ok := itemIDs[other]; !ok {
				return fmt.Errorf("placement %d seen-with unknown item %d: %w", p.ID, other, ErrFormat)
			}
		}
	}
	return nil
}
