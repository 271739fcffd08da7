package model

import "time"

// CoPresence is a frequency-weighted relationship between two items
// observed together in placements. ItemA always holds the smaller
// identifier of the pair.
type CoPresence struct {
	ID        int64     `json:"id"`
	ItemA     int64     `json:"item_a"`
	ItemB     int64     `json:"item_b"`
	Frequency int       `json:"frequency"`
	LastSeen  time.Time `json:"last_seen"`
}

// Neighbor is an item observed together with another item, with how often
// and how recently the pair was seen.
type Neighbor struct {
	ItemID    int64     `json:"item_id"`
	Name      string    `json:"name"`
	Frequency int       `json:"frequency"`
	LastSeen  time.Time `json:"last_seen"`
}
