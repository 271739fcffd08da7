package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anzeb/placekeeper/internal/model"
)

// CreateZone registers a new zone. Zone names are unique.
func CreateZone(ctx context.Context, db *sql.DB, name, description string) (*model.Zone, error) {
	if name == "" {
		return nil, fmt.Errorf("zone name is required: %w", ErrValidation)
	}

	var existing int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM zones WHERE name = ?`, name,
	).Scan(&existing)
	if err == nil {
		return nil, fmt.Errorf("zone %q: %w", name, ErrConflict)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking zone name: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO zones (name, description, created_at) VALUES (?, ?, ?)`,
		name, nullString(description), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zone: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting zone id: %w", err)
	}

	return GetZone(ctx, db, id)
}

// GetZone returns a zone by ID.
func GetZone(ctx context.Context, db *sql.DB, id int64) (*model.Zone, error) {
	z := &model.Zone{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM zones WHERE id = ?`, id,
	).Scan(&z.ID, &z.Name, &description, &z.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("zone %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting zone: %w", err)
	}
	z.Description = description.String
	return z, nil
}

// ListZones returns all zones in insertion order.
func ListZones(ctx context.Context, db *sql.DB) ([]model.Zone, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM zones ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	defer rows.Close()

	var zones []model.Zone
	for rows.Next() {
		var z model.Zone
		var description sql.NullString
		if err := rows.Scan(&z.ID, &z.Name, &description, &z.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning zone: %w", err)
		}
		z.Description = description.String
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
