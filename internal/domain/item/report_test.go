package item

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discarded(name string, qty *float64, amount float64, reason DiscardReason, at time.Time) Item {
	return Item{
		ProductName:       name,
		Amount:            amount,
		Discarded:         true,
		IsThrown:          true,
		DiscardedAt:       &at,
		DiscardedQuantity: qty,
		DiscardReason:     reason,
	}
}

func ptr(v float64) *float64 {
	return &v
}

func TestDiscardReport_Milk(t *testing.T) {
	first := testNow.Add(-48 * time.Hour)
	last := testNow.Add(-time.Hour)
	items := []Item{
		discarded("Milk", ptr(2), 10, ReasonExpired, first),
		discarded("Milk", ptr(3), 10, ReasonDamaged, last),
	}

	report := DiscardReport(items, DateRange{})
	require.Len(t, report, 1)

	milk := report[0]
	assert.Equal(t, "Milk", milk.ProductName)
	assert.Equal(t, 5.0, milk.TotalQuantity)
	assert.Equal(t, 2, milk.DiscardCount)
	assert.Equal(t, map[DiscardReason]int{ReasonExpired: 1, ReasonDamaged: 1, ReasonOther: 0}, milk.Reasons)
	assert.Equal(t, 2.5, milk.AverageQuantity)
	assert.Equal(t, last, milk.LastDiscardedAt)
}

func TestDiscardReport_FallbacksAndOrdering(t *testing.T) {
	at := testNow.Add(-time.Hour)
	items := []Item{
		discarded("Lemons", nil, 4, "", at),
		discarded("Cream", ptr(1), 9, ReasonOther, at),
		discarded("Apples", ptr(4), 9, ReasonExpired, at),
		{ProductName: "Active", Amount: 100, ExpiryTime: testNow},
		{ProductName: "Finished", Amount: 100, Finished: true},
	}

	report := DiscardReport(items, DateRange{})
	require.Len(t, report, 3)

	assert.Equal(t, "Apples", report[0].ProductName)
	assert.Equal(t, "Lemons", report[1].ProductName)
	assert.Equal(t, 4.0, report[1].TotalQuantity)
	assert.Equal(t, 1, report[1].Reasons[ReasonOther])
	assert.Equal(t, "Cream", report[2].ProductName)
}

func TestDiscardReport_DateRange(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	items := []Item{
		discarded("Milk", ptr(1), 1, ReasonExpired, day1),
		discarded("Milk", ptr(2), 1, ReasonExpired, day2),
		discarded("Milk", ptr(4), 1, ReasonExpired, day3),
		{ProductName: "Milk", Discarded: true, Amount: 8},
	}

	tests := []struct {
		name  string
		rng   DateRange
		total float64
	}{
		{name: "unbounded includes undated", rng: DateRange{}, total: 15},
		{name: "inclusive bounds", rng: DateRange{From: day2, To: day3}, total: 6},
		{name: "only lower bound", rng: DateRange{From: day2}, total: 6},
		{name: "only upper bound", rng: DateRange{To: day1}, total: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := DiscardReport(items, tt.rng)
			require.Len(t, report, 1)
			assert.Equal(t, tt.total, report[0].TotalQuantity)
		})
	}
}

func TestDiscardReport_Empty(t *testing.T) {
	assert.Empty(t, DiscardReport([]Item{{ProductName: "x"}}, DateRange{}))
}
