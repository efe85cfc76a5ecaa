package remote

import (
	"errors"
)

var (
	// ErrUnavailable сеть недоступна, таймаут или сбой сервера.
	ErrUnavailable = errors.New("remote store unavailable")
	// ErrPermissionDenied запрос отклонен политикой доступа.
	ErrPermissionDenied = errors.New("remote store permission denied")
	// ErrRejected данные отклонены как некорректные.
	ErrRejected = errors.New("remote store rejected payload")
	ErrNotFound = errors.New("document not found")

	ErrUnknownCollection = errors.New("unknown collection")
)

// Kind классифицирует ошибку удаленного хранилища.
type Kind int

const (
	KindNone Kind = iota
	KindTransient
	KindPolicy
	KindPermanent
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransient:
		return "transient"
	case KindPolicy:
		return "policy"
	case KindPermanent:
		return "permanent"
	}
	return "unknown"
}

// KindOf определяет вид ошибки. Неизвестные ошибки считаются
// временными: клиент не может отличить их от обрыва связи.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrPermissionDenied):
		return KindPolicy
	case errors.Is(err, ErrRejected), errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownCollection):
		return KindPermanent
	default:
		return KindTransient
	}
}

// ShouldQueue сообщает, нужно ли отложить запись в очередь.
func ShouldQueue(err error) bool {
	k := KindOf(err)
	return k == KindTransient || k == KindPolicy
}
