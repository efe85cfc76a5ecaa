package document

import "errors"

var (
	ErrNotFound  = errors.New("document not found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid document")
	ErrReadOnly  = errors.New("collection is read-only")
)
