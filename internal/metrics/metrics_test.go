package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/anzeb/placekeeper/internal/model"
)

func intp(v int) *int { return &v }

func timep(t time.Time) *time.Time { return &t }

func TestHealth(t *testing.T) {
	purchase := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"brand new", purchase, 100},
		{"half way", purchase.AddDate(0, 0, 182), 50.136986},
		{"end of life", purchase.AddDate(0, 0, 365), 0},
		{"past end of life", purchase.AddDate(0, 0, 500), 0},
		{"future purchase date", purchase.AddDate(0, 0, -10), 102.739726},
	}
	for _, tc := range cases {
		got := Health(purchase, 365, tc.now)
		if math.Abs(got-tc.want) > 0.001 {
			t.Errorf("%s: expected %.4f%%, got %.4f%%", tc.name, tc.want, got)
		}
	}
}

func TestHealthPartialDay(t *testing.T) {
	purchase := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	// 23 hours later is still day zero.
	got := Health(purchase, 100, purchase.Add(23*time.Hour))
	if got != 100 {
		t.Errorf("expected 100%% before a full day has passed, got %.2f%%", got)
	}

	// 25 hours later is day one.
	got = Health(purchase, 100, purchase.Add(25*time.Hour))
	if got != 99 {
		t.Errorf("expected 99%% after one full day, got %.2f%%", got)
	}
}

func TestHealthZeroLifespan(t *testing.T) {
	if got := Health(time.Now(), 0, time.Now()); got != 0 {
		t.Errorf("expected 0%% for zero lifespan, got %.2f%%", got)
	}
}

func TestRefillNeeded(t *testing.T) {
	if !RefillNeeded(2, 5) {
		t.Error("expected refill needed at quantity 2, threshold 5")
	}
	if !RefillNeeded(5, 5) {
		t.Error("expected refill needed exactly at the threshold")
	}
	if RefillNeeded(6, 5) {
		t.Error("expected no refill needed above the threshold")
	}
}

func TestUsageRate(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
	}

	obs := []Observation{
		{At: day(0), Quantity: 40},
		{At: day(10), Quantity: 20},
	}
	if got := UsageRate(obs); got != 2 {
		t.Errorf("expected 2 units/day, got %.2f", got)
	}

	// Order of the slice does not matter.
	reversed := []Observation{obs[1], obs[0]}
	if got := UsageRate(reversed); got != 2 {
		t.Errorf("expected 2 units/day for unsorted input, got %.2f", got)
	}

	// Restocks between the endpoints are ignored; only first and last count.
	withRestock := []Observation{
		{At: day(0), Quantity: 40},
		{At: day(5), Quantity: 60},
		{At: day(10), Quantity: 20},
	}
	if got := UsageRate(withRestock); got != 2 {
		t.Errorf("expected 2 units/day with intermediate restock, got %.2f", got)
	}
}

func TestUsageRateNoSignal(t *testing.T) {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if got := UsageRate(nil); got != 0 {
		t.Errorf("expected 0 for no observations, got %.2f", got)
	}
	if got := UsageRate([]Observation{{At: day, Quantity: 10}}); got != 0 {
		t.Errorf("expected 0 for a single observation, got %.2f", got)
	}

	same := []Observation{{At: day, Quantity: 10}, {At: day, Quantity: 5}}
	if got := UsageRate(same); got != 0 {
		t.Errorf("expected 0 for zero elapsed time, got %.2f", got)
	}
}

func TestDaysUntilRefill(t *testing.T) {
	days, ok := DaysUntilRefill(40, 10, 2)
	if !ok || days != 15 {
		t.Errorf("expected 15 days, got %.2f (ok=%v)", days, ok)
	}

	if _, ok := DaysUntilRefill(40, 10, 0); ok {
		t.Error("expected no estimate for zero usage rate")
	}
	if _, ok := DaysUntilRefill(40, 10, -1); ok {
		t.Error("expected no estimate for negative usage rate")
	}
}

func TestNeedsAttention(t *testing.T) {
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	items := []model.Item{
		{
			ID: 1, Name: "Old Lamp", Category: model.CategoryGoodStuff,
			PurchaseDate: timep(now.AddDate(0, 0, -350)), LifespanDays: intp(365),
		},
		{
			ID: 2, Name: "New Chair", Category: model.CategoryGoodStuff,
			PurchaseDate: timep(now.AddDate(0, 0, -30)), LifespanDays: intp(365),
		},
		{
			ID: 3, Name: "Hand Soap", Category: model.CategoryRefillable,
			Quantity: intp(2), RefillThreshold: intp(5), Unit: "ml",
		},
		{
			ID: 4, Name: "Shampoo", Category: model.CategoryRefillable,
			Quantity: intp(400), RefillThreshold: intp(50), Unit: "ml",
		},
		{ID: 5, Name: "Paper Towels", Category: model.CategoryDisposable},
	}

	flagged := NeedsAttention(items, now)
	if len(flagged) != 2 {
		t.Fatalf("expected 2 flagged items, got %d", len(flagged))
	}
	if flagged[0].Item.ID != 1 || flagged[0].Reason != ReasonReplaceSoon {
		t.Errorf("expected the old lamp flagged for replacement, got %+v", flagged[0])
	}
	if flagged[1].Item.ID != 3 || flagged[1].Reason != ReasonRefillNeeded {
		t.Errorf("expected the soap flagged for refill, got %+v", flagged[1])
	}
}

func TestNeedsAttentionSkipsIncompleteItems(t *testing.T) {
	now := time.Now()

	// Missing category fields are skipped, not flagged or crashed on.
	items := []model.Item{
		{ID: 1, Name: "Broken", Category: model.CategoryGoodStuff},
		{ID: 2, Name: "Broken Too", Category: model.CategoryRefillable},
	}
	if flagged := NeedsAttention(items, now); len(flagged) != 0 {
		t.Errorf("expected no flagged items, got %d", len(flagged))
	}
}
