package item

import (
	"sort"
	"time"
)

// DateRange границы отчета по discardedAt. Обе границы включительные,
// нулевое значение означает отсутствие ограничения.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// DiscardSummary агрегат списаний по одному продукту.
type DiscardSummary struct {
	ProductName     string                `json:"productName"`
	TotalQuantity   float64               `json:"totalQuantity"`
	DiscardCount    int                   `json:"discardCount"`
	Reasons         map[DiscardReason]int `json:"reasons"`
	AverageQuantity float64               `json:"averageQuantity"`
	LastDiscardedAt time.Time             `json:"lastDiscardedAt"`
	Unit            Unit                  `json:"type"`
}

// DiscardReport агрегирует списанные позиции по названию продукта.
// Позиция без причины учитывается как other. Результат отсортирован по
// убыванию общего количества, при равенстве по названию.
func DiscardReport(items []Item, rng DateRange) []DiscardSummary {
	byName := make(map[string]*DiscardSummary)

	for _, it := range items {
		if !it.Discarded {
			continue
		}
		var at time.Time
		if it.DiscardedAt != nil {
			at = *it.DiscardedAt
		}
		if (!rng.From.IsZero() || !rng.To.IsZero()) && (at.IsZero() || !rng.Contains(at)) {
			continue
		}

		s, ok := byName[it.ProductName]
		if !ok {
			s = &DiscardSummary{
				ProductName: it.ProductName,
				Unit:        it.Unit,
				Reasons: map[DiscardReason]int{
					ReasonExpired: 0,
					ReasonDamaged: 0,
					ReasonOther:   0,
				},
			}
			byName[it.ProductName] = s
		}

		s.TotalQuantity += it.DiscardedAmount()
		s.DiscardCount++

		reason := it.DiscardReason
		if reason.Validate() != nil {
			reason = ReasonOther
		}
		s.Reasons[reason]++

		if at.After(s.LastDiscardedAt) {
			s.LastDiscardedAt = at
		}
	}

	out := make([]DiscardSummary, 0, len(byName))
	for _, s := range byName {
		s.AverageQuantity = s.TotalQuantity / float64(s.DiscardCount)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out
}
