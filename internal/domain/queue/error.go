package queue

import "errors"

var (
	ErrUnknownOperation = errors.New("unknown operation type")
	ErrLocalTarget      = errors.New("operation targets a local entity")
	ErrOperationPanic   = errors.New("operation panicked")
	ErrEmptyTarget      = errors.New("operation has no target")
)
