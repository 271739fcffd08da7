// Package metrics computes derived lifecycle and usage figures for tracked
// items. All functions are pure; the clock is always passed in.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/anzeb/placekeeper/internal/model"
)

// Attention reasons.
const (
	ReasonReplaceSoon  = "replace_soon"
	ReasonRefillNeeded = "refill_needed"
)

// AttentionHealth is the health percentage below which a durable item is
// flagged for replacement.
const AttentionHealth = 20.0

// Health returns the remaining-lifespan percentage of a durable item.
// Age is measured in whole days (floor). The result is clamped at 0 but
// deliberately not at 100: a future purchase date yields more than 100%.
func Health(purchase time.Time, lifespanDays int, now time.Time) float64 {
	if lifespanDays <= 0 {
		return 0
	}
	daysOld := math.Floor(now.Sub(purchase).Hours() / 24)
	remaining := float64(lifespanDays) - daysOld
	health := remaining / float64(lifespanDays) * 100
	if health < 0 {
		return 0
	}
	return health
}

// RefillNeeded reports whether a refillable item has reached its refill
// threshold.
func RefillNeeded(quantity, threshold int) bool {
	return quantity <= threshold
}

// Observation is a quantity reading at a point in time.
type Observation struct {
	At       time.Time
	Quantity int
}

// UsageRate returns consumed units per day between the earliest and latest
// observation. Fewer than two observations, or zero elapsed days, yields 0:
// not enough signal for an estimate, not an error.
func UsageRate(obs []Observation) float64 {
	if len(obs) < 2 {
		return 0
	}
	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	first := sorted[0]
	last := sorted[len(sorted)-1]
	days := last.At.Sub(first.At).Hours() / 24
	if days <= 0 {
		return 0
	}
	return float64(first.Quantity-last.Quantity) / days
}

// DaysUntilRefill estimates the days until quantity drops to the refill
// threshold. ok is false when the usage rate gives no estimate (zero or
// negative consumption).
func DaysUntilRefill(quantity, threshold int, rate float64) (days float64, ok bool) {
	if rate <= 0 {
		return 0, false
	}
	return float64(quantity-threshold) / rate, true
}

// AttentionItem is an item flagged for care, with the reason it was flagged.
type AttentionItem struct {
	Item   model.Item `json:"item"`
	Reason string     `json:"reason"`
}

// NeedsAttention returns the items that need care: durable items below the
// attention health threshold and refillables at or below their refill
// threshold. Items missing their category fields are skipped.
func NeedsAttention(items []model.Item, now time.Time) []AttentionItem {
	var flagged []AttentionItem
	for _, item := range items {
		switch item.Category {
		case model.CategoryGoodStuff:
			if item.PurchaseDate == nil || item.LifespanDays == nil {
				continue
			}
			if Health(*item.PurchaseDate, *item.LifespanDays, now) < AttentionHealth {
				flagged = append(flagged, AttentionItem{Item: item, Reason: ReasonReplaceSoon})
			}
		case model.CategoryRefillable:
			if item.Quantity == nil || item.RefillThreshold == nil {
				continue
			}
			if RefillNeeded(*item.Quantity, *item.RefillThreshold) {
				flagged = append(flagged, AttentionItem{Item: item, Reason: ReasonRefillNeeded})
			}
		}
	}
	return flagged
}
