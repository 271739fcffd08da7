package store

import (
	"context"
	"errors"
	"testing"

	"github.com/anzeb/placekeeper/internal/db"
)

func TestCreateAndGetZone(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	zone, err := CreateZone(ctx, database, "bedside table", "left of the bed")
	if err != nil {
		t.Fatalf("CreateZone: %v", err)
	}
	if zone.Name != "bedside table" {
		t.Errorf("expected name 'bedside table', got %q", zone.Name)
	}

	got, err := GetZone(ctx, database, zone.ID)
	if err != nil {
		t.Fatalf("GetZone: %v", err)
	}
	if got.Description != "left of the bed" {
		t.Errorf("expected description, got %q", got.Description)
	}
}

func TestCreateZoneValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateZone(ctx, database, "", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for empty name, got %v", err)
	}

	if _, err := CreateZone(ctx, database, "desk", ""); err != nil {
		t.Fatalf("CreateZone: %v", err)
	}
	if _, err := CreateZone(ctx, database, "desk", "again"); !errors.Is(err, ErrConflict) {
		t.Errorf("expected conflict error for duplicate name, got %v", err)
	}
}

func TestListZonesOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateZone(ctx, database, "desk", "")
	CreateZone(ctx, database, "kitchen counter", "")

	zones, err := ListZones(ctx, database)
	if err != nil {
		t.Fatalf("ListZones: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}
	if zones[0].Name != "desk" || zones[1].Name != "kitchen counter" {
		t.Errorf("expected insertion order, got %q then %q", zones[0].Name, zones[1].Name)
	}
}

func TestGetZoneNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	if _, err := GetZone(context.Background(), database, 7); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}
