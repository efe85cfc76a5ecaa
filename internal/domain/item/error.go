package item

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrTerminal   = errors.New("item is in a terminal state")
)

// ValidationError вызывающий код передал неполные или некорректные данные.
// Не повторяется, сразу возвращается в UI.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StateError попытка перехода из терминального состояния.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s item: already %s", e.Op, e.State)
}

func (e *StateError) Unwrap() error {
	return ErrTerminal
}
