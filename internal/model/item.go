package model

import "time"

// Item categories.
const (
	CategoryGoodStuff  = "good_stuff"
	CategoryRefillable = "refillable"
	CategoryDisposable = "disposable"
)

// Item represents a tracked possession. Fields that do not apply to the
// item's category are nil. TagID is the external (NFC) tag identifier,
// empty when the item has no tag.
type Item struct {
	ID              int64      `json:"id"`
	TagID           string     `json:"tag_id,omitempty"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	PurchaseDate    *time.Time `json:"purchase_date,omitempty"`
	LifespanDays    *int       `json:"lifespan_days,omitempty"`
	Quantity        *int       `json:"quantity,omitempty"`
	RefillThreshold *int       `json:"refill_threshold,omitempty"`
	Unit            string     `json:"unit,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ValidCategory reports whether c is a recognized item category.
func ValidCategory(c string) bool {
	return c == CategoryGoodStuff || c == CategoryRefillable || c == CategoryDisposable
}
