package item

import "time"

// FilterKind вид списка позиций.
type FilterKind string

const (
	FilterAll          FilterKind = "all"
	FilterActive       FilterKind = "active"
	FilterExpiringSoon FilterKind = "expiring"
	FilterExpired      FilterKind = "expired"
	FilterDiscarded    FilterKind = "discarded"
	FilterFinished     FilterKind = "finished"
)

// Filter критерии отбора. Пустые Area и FridgeID не ограничивают выборку.
type Filter struct {
	Kind     FilterKind
	Area     string
	FridgeID string
}

// Match сообщает, подходит ли позиция под фильтр на момент now.
func (f Filter) Match(it Item, now time.Time) bool {
	if f.Area != "" && it.Area != f.Area {
		return false
	}
	if f.FridgeID != "" && it.FridgeID != f.FridgeID {
		return false
	}

	active := it.State() == StateActive
	switch f.Kind {
	case FilterAll, "":
		return true
	case FilterActive:
		return active
	case FilterExpiringSoon:
		return active && Classify(it, now) == StatusWarning
	case FilterExpired:
		return active && Classify(it, now) == StatusExpired
	case FilterDiscarded:
		return it.Discarded
	case FilterFinished:
		return it.Finished
	}
	return false
}

// Apply возвращает позиции, подходящие под фильтр, сохраняя порядок.
func (f Filter) Apply(items []Item, now time.Time) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it, now) {
			out = append(out, it)
		}
	}
	return out
}

// ParseFilterKind разбирает имя фильтра из командной строки.
func ParseFilterKind(s string) (FilterKind, error) {
	switch k := FilterKind(s); k {
	case FilterAll, FilterActive, FilterExpiringSoon, FilterExpired, FilterDiscarded, FilterFinished:
		return k, nil
	case "":
		return FilterActive, nil
	}
	return "", &ValidationError{Field: "filter", Reason: "unknown filter " + s}
}

// Summary счетчики для главного экрана.
type Summary struct {
	Active    int `json:"active"`
	Good      int `json:"good"`
	Warning   int `json:"warning"`
	Expired   int `json:"expired"`
	Discarded int `json:"discarded"`
	Finished  int `json:"finished"`
}

// Summarize считает позиции по состояниям и статусам.
func Summarize(items []Item, now time.Time) Summary {
	var s Summary
	for _, it := range items {
		switch it.State() {
		case StateDiscarded:
			s.Discarded++
			continue
		case StateFinished:
			s.Finished++
			continue
		}
		s.Active++
		switch Classify(it, now) {
		case StatusGood:
			s.Good++
		case StatusWarning:
			s.Warning++
		case StatusExpired:
			s.Expired++
		}
	}
	return s
}
