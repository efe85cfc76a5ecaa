package item

import (
	"time"

	"shelfkeeper/internal/domain/entity"
)

// Item открытая позиция инвентаря.
type Item struct {
	ID          entity.Ref `json:"id"`
	ProductID   string     `json:"productId,omitempty"`
	ProductName string     `json:"productName"`
	Unit        Unit       `json:"type"`
	Amount      float64    `json:"amount"`
	Area        string     `json:"area"`
	BusinessID  string     `json:"businessId"`
	UserID      string     `json:"userId"`
	FridgeID    string     `json:"fridgeId,omitempty"`
	OpeningTime time.Time  `json:"openingTime"`
	ExpiryTime  time.Time  `json:"expiryTime"`

	Discarded         bool          `json:"discarded"`
	DiscardedAt       *time.Time    `json:"discardedAt,omitempty"`
	DiscardedBy       string        `json:"discardedBy,omitempty"`
	DiscardedByName   string        `json:"discardedByName,omitempty"`
	DiscardedQuantity *float64      `json:"discardedQuantity,omitempty"`
	DiscardReason     DiscardReason `json:"discardReason,omitempty"`
	// IsThrown устаревший флаг, синхронизирован с Discarded.
	IsThrown bool `json:"isThrown"`

	Finished       bool       `json:"finished"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
	FinishedBy     string     `json:"finishedBy,omitempty"`
	FinishedByName string     `json:"finishedByName,omitempty"`

	ReminderSent  bool `json:"reminderSent"`
	AdminNotified bool `json:"adminNotified"`
}

// State возвращает состояние жизненного цикла.
func (it Item) State() State {
	switch {
	case it.Discarded:
		return StateDiscarded
	case it.Finished:
		return StateFinished
	default:
		return StateActive
	}
}

// DiscardedAmount количество списанного: discardedQuantity, а если оно не
// записано, весь объем позиции.
func (it Item) DiscardedAmount() float64 {
	if it.DiscardedQuantity != nil {
		return *it.DiscardedQuantity
	}
	return it.Amount
}
