package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anzeb/placekeeper/internal/model"
)

// upsertCoPresence increments the observation counter for an unordered item
// pair, inserting the row on first sight. Pairs are stored with the smaller
// id first.
func upsertCoPresence(ctx context.Context, tx *sql.Tx, a, b int64, seenAt time.Time) error {
	if a > b {
		a, b = b, a
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO co_presence (item_a, item_b, frequency, last_seen) VALUES (?, ?, 1, ?)
		 ON CONFLICT (item_a, item_b) DO UPDATE SET
		     frequency = frequency + 1,
		     last_seen = excluded.last_seen`,
		a, b, seenAt,
	)
	if err != nil {
		return fmt.Errorf("upserting co-presence: %w", err)
	}
	return nil
}

// ListCoPresence returns all co-presence rows in insertion order.
func ListCoPresence(ctx context.Context, db *sql.DB) ([]model.CoPresence, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_a, item_b, frequency, last_seen FROM co_presence ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing co-presence: %w", err)
	}
	defer rows.Close()

	var pairs []model.CoPresence
	for rows.Next() {
		var c model.CoPresence
		if err := rows.Scan(&c.ID, &c.ItemA, &c.ItemB, &c.Frequency, &c.LastSeen); err != nil {
			return nil, fmt.Errorf("scanning co-presence: %w", err)
		}
		pairs = append(pairs, c)
	}
	return pairs, rows.Err()
}

// Neighbors returns the items observed together with the given item, most
// frequent first.
func Neighbors(ctx context.Context, db *sql.DB, itemID int64) ([]model.Neighbor, error) {
	if _, err := GetItem(ctx, db, itemID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT CASE WHEN c.item_a = ? THEN c.item_b ELSE c.item_a END AS other_id,
		        i.name, c.frequency, c.last_seen
		 FROM co_presence c
		 JOIN items i ON i.id = CASE WHEN c.item_a = ? THEN c.item_b ELSE c.item_a END
		 WHERE c.item_a = ? OR c.item_b = ?
		 ORDER BY c.frequency DESC, c.last_seen DESC`,
		itemID, itemID, itemID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing neighbors: %w", err)
	}
	defer rows.Close()

	var neighbors []model.Neighbor
	for rows.Next() {
		var n model.Neighbor
		if err := rows.Scan(&n.ItemID, &n.Name, &n.Frequency, &n.LastSeen); err != nil {
			return nil, fmt.Errorf("scanning neighbor: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, rows.Err()
}
