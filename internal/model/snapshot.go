package model

import "time"

// PatternReport counts placements by distribution type and by zone.
// ByType always carries all five distribution types, zero-filled; ByZone
// only carries zones with at least one placement.
type PatternReport struct {
	ByType map[string]int `json:"by_type"`
	ByZone map[string]int `json:"by_zone"`
}

// RoutineInsight summarizes the placements recorded under one routine
// label. Zones, Motives and ItemIDs are sorted so output is reproducible.
type RoutineInsight struct {
	Routine string   `json:"routine"`
	Count   int      `json:"count"`
	Zones   []string `json:"zones"`
	Motives []string `json:"motives"`
	ItemIDs []int64  `json:"item_ids"`
}

// Snapshot is the export document consumed by the web viewer. Items,
// placements and zones are canonical state; patterns and routines are
// derived and recomputed on every export.
type Snapshot struct {
	Items      []Item           `json:"items"`
	Placements []Placement      `json:"placements"`
	Zones      []Zone           `json:"zones"`
	Patterns   PatternReport    `json:"patterns"`
	Routines   []RoutineInsight `json:"routines"`
	ExportedAt time.Time        `json:"export_timestamp"`
}
