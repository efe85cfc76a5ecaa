package item

import "fmt"

// Unit единица измерения позиции.
type Unit string

const (
	UnitKg    Unit = "kg"
	UnitUnits Unit = "units"
)

func (u Unit) Validate() error {
	switch u {
	case UnitKg, UnitUnits:
		return nil
	}
	return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown unit %q", string(u))}
}

// DiscardReason причина списания.
type DiscardReason string

const (
	ReasonExpired DiscardReason = "expired"
	ReasonDamaged DiscardReason = "damaged"
	ReasonOther   DiscardReason = "other"
)

func (r DiscardReason) Validate() error {
	switch r {
	case ReasonExpired, ReasonDamaged, ReasonOther:
		return nil
	}
	return &ValidationError{Field: "discardReason", Reason: fmt.Sprintf("unknown reason %q", string(r))}
}

// State состояние жизненного цикла позиции.
type State string

const (
	StateActive    State = "active"
	StateDiscarded State = "discarded"
	StateFinished  State = "finished"
)

// IsTerminal сообщает, что переходы из состояния запрещены.
func (s State) IsTerminal() bool {
	return s == StateDiscarded || s == StateFinished
}

// Status производная классификация по сроку годности.
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusExpired Status = "expired"
)

// DisplayName возвращает человекочитаемое название статуса.
func (s Status) DisplayName() string {
	switch s {
	case StatusGood:
		return "В норме"
	case StatusWarning:
		return "Скоро истекает"
	case StatusExpired:
		return "Просрочено"
	default:
		return "Неизвестно"
	}
}
