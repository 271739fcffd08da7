package model

import "time"

// Distribution types classify how an item came to rest.
const (
	DistributionPlaced  = "placed"
	DistributionStack   = "stack"
	DistributionSpread  = "spread"
	DistributionLose    = "lose"
	DistributionDiscard = "discard"
)

// DistributionTypes lists the recognized distribution types in canonical order.
var DistributionTypes = []string{
	DistributionPlaced,
	DistributionStack,
	DistributionSpread,
	DistributionLose,
	DistributionDiscard,
}

// ValidDistribution reports whether d is a recognized distribution type.
func ValidDistribution(d string) bool {
	for _, t := range DistributionTypes {
		if d == t {
			return true
		}
	}
	return false
}

// Placement is one recorded event of an item being put somewhere.
// Placements are immutable once recorded; they only disappear when the
// owning item is deleted.
type Placement struct {
	ID           int64     `json:"id"`
	ItemID       int64     `json:"item_id"`
	Zone         string    `json:"zone"`
	Distribution string    `json:"distribution_type"`
	Routine      string    `json:"routine,omitempty"`
	Motive       string    `json:"motive,omitempty"`
	SeenWith     []int64   `json:"seen_with,omitempty"`
	PlacedAt     time.Time `json:"placed_at"`
}

// ZoneItem is an item whose latest placement landed in a given zone.
type ZoneItem struct {
	ItemID       int64     `json:"item_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Distribution string    `json:"distribution_type"`
	PlacedAt     time.Time `json:"placed_at"`
}
