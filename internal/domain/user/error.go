package user

import (
	"errors"
	"fmt"
)

var ErrInvalidInput = errors.New("invalid actor")

// FieldError обязательное поле пользователя не заполнено.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s is required", ErrInvalidInput, e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}
