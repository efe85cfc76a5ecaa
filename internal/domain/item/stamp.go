package item

import (
	"math"
	"time"

	"shelfkeeper/internal/domain/remote"
)

// DiscardStamp аудит списания.
type DiscardStamp struct {
	At       time.Time     `json:"discardedAt"`
	By       string        `json:"discardedBy"`
	ByName   string        `json:"discardedByName"`
	Quantity *float64      `json:"discardedQuantity,omitempty"`
	Reason   DiscardReason `json:"discardReason,omitempty"`
}

func (s DiscardStamp) Apply(it *Item) {
	at := s.At
	it.Discarded = true
	it.IsThrown = true
	it.DiscardedAt = &at
	it.DiscardedBy = s.By
	it.DiscardedByName = s.ByName
	if s.Quantity != nil {
		q := *s.Quantity
		it.DiscardedQuantity = &q
	}
	if s.Reason != "" {
		it.DiscardReason = s.Reason
	}
}

func (s DiscardStamp) Fields() remote.Fields {
	f := remote.Fields{
		"discarded":       true,
		"isThrown":        true,
		"discardedAt":     s.At,
		"discardedBy":     s.By,
		"discardedByName": s.ByName,
	}
	if s.Quantity != nil {
		f["discardedQuantity"] = *s.Quantity
	}
	if s.Reason != "" {
		f["discardReason"] = string(s.Reason)
	}
	return f
}

// FinishStamp аудит завершения.
type FinishStamp struct {
	At     time.Time `json:"finishedAt"`
	By     string    `json:"finishedBy"`
	ByName string    `json:"finishedByName"`
}

func (s FinishStamp) Apply(it *Item) {
	at := s.At
	it.Finished = true
	it.FinishedAt = &at
	it.FinishedBy = s.By
	it.FinishedByName = s.ByName
}

func (s FinishStamp) Fields() remote.Fields {
	return remote.Fields{
		"finished":       true,
		"finishedAt":     s.At,
		"finishedBy":     s.By,
		"finishedByName": s.ByName,
	}
}

// Patch частичное изменение позиции. Срок годности и флаги жизненного
// цикла здесь не меняются, для завершения используется Finish.
type Patch struct {
	ProductName   *string      `json:"productName,omitempty"`
	Unit          *Unit        `json:"type,omitempty"`
	Amount        *float64     `json:"amount,omitempty"`
	Area          *string      `json:"area,omitempty"`
	FridgeID      *string      `json:"fridgeId,omitempty"`
	ReminderSent  *bool        `json:"reminderSent,omitempty"`
	AdminNotified *bool        `json:"adminNotified,omitempty"`
	Finish        *FinishStamp `json:"finish,omitempty"`
}

// IsEmpty сообщает, что патч ничего не меняет.
func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Validate проверяет значения, которые заданы в патче.
func (p Patch) Validate() error {
	if p.ProductName != nil && *p.ProductName == "" {
		return &ValidationError{Field: "productName", Reason: "must not be empty"}
	}
	if p.Area != nil && *p.Area == "" {
		return &ValidationError{Field: "area", Reason: "must not be empty"}
	}
	if p.Amount != nil && (math.IsNaN(*p.Amount) || math.IsInf(*p.Amount, 0)) {
		return &ValidationError{Field: "amount", Reason: "must be a finite number"}
	}
	if p.Unit != nil {
		return p.Unit.Validate()
	}
	return nil
}

func (p Patch) Apply(it *Item) {
	if p.ProductName != nil {
		it.ProductName = *p.ProductName
	}
	if p.Unit != nil {
		it.Unit = *p.Unit
	}
	if p.Amount != nil {
		it.Amount = *p.Amount
	}
	if p.Area != nil {
		it.Area = *p.Area
	}
	if p.FridgeID != nil {
		it.FridgeID = *p.FridgeID
	}
	if p.ReminderSent != nil {
		it.ReminderSent = *p.ReminderSent
	}
	if p.AdminNotified != nil {
		it.AdminNotified = *p.AdminNotified
	}
	if p.Finish != nil {
		p.Finish.Apply(it)
	}
}

// Fields возвращает только заданные поля.
func (p Patch) Fields() remote.Fields {
	f := remote.Fields{}
	if p.ProductName != nil {
		f["productName"] = *p.ProductName
	}
	if p.Unit != nil {
		f["type"] = string(*p.Unit)
	}
	if p.Amount != nil {
		f["amount"] = *p.Amount
	}
	if p.Area != nil {
		f["area"] = *p.Area
	}
	if p.FridgeID != nil {
		f["fridgeId"] = *p.FridgeID
	}
	if p.ReminderSent != nil {
		f["reminderSent"] = *p.ReminderSent
	}
	if p.AdminNotified != nil {
		f["adminNotified"] = *p.AdminNotified
	}
	if p.Finish != nil {
		for k, v := range p.Finish.Fields() {
			f[k] = v
		}
	}
	return f
}
