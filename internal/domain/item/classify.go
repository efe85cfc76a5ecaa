package item

import "time"

// WarningWindow за сколько до истечения срока позиция считается
// "скоро истекающей".
const WarningWindow = 3 * day

// Classify вычисляет статус позиции по сроку годности. Флаги списания и
// завершения не учитываются. Единственный источник статуса для всех
// списков, фильтров и отчетов.
func Classify(it Item, now time.Time) Status {
	switch {
	case !it.ExpiryTime.After(now):
		return StatusExpired
	case !it.ExpiryTime.After(now.Add(WarningWindow)):
		return StatusWarning
	default:
		return StatusGood
	}
}

// TimeLeft оставшееся до истечения срока время, отрицательное для
// просроченных позиций.
func TimeLeft(it Item, now time.Time) time.Duration {
	return it.ExpiryTime.Sub(now)
}
