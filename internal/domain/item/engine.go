package item

import (
	"math"
	"strings"
	"time"

	"shelfkeeper/internal/domain/user"
)

const day = 24 * time.Hour

// CreateRequest данные для открытия продукта.
type CreateRequest struct {
	ProductID     string
	ProductName   string
	Unit          Unit
	Amount        float64
	Area          string
	BusinessID    string
	UserID        string
	FridgeID      string
	ShelfLifeDays int
}

// DiscardOptions необязательные данные списания.
type DiscardOptions struct {
	Quantity *float64
	Reason   DiscardReason
}

// Engine управляет переходами жизненного цикла позиции.
type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now текущее время по часам движка.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Create открывает продукт. Срок годности вычисляется один раз и больше не
// пересчитывается.
func (e *Engine) Create(req CreateRequest) (*Item, error) {
	if err := validateCreate(&req); err != nil {
		return nil, err
	}

	opened := e.now()
	return &Item{
		ProductID:   req.ProductID,
		ProductName: strings.TrimSpace(req.ProductName),
		Unit:        req.Unit,
		Amount:      req.Amount,
		Area:        req.Area,
		BusinessID:  req.BusinessID,
		UserID:      req.UserID,
		FridgeID:    req.FridgeID,
		OpeningTime: opened,
		ExpiryTime:  opened.Add(time.Duration(req.ShelfLifeDays) * day),
	}, nil
}

func validateCreate(req *CreateRequest) error {
	required := []struct {
		field, value string
	}{
		{"productName", req.ProductName},
		{"area", req.Area},
		{"businessId", req.BusinessID},
		{"userId", req.UserID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "is required"}
		}
	}

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return &ValidationError{Field: "amount", Reason: "must be a finite number"}
	}
	if req.ShelfLifeDays < 0 {
		return &ValidationError{Field: "shelfLifeDays", Reason: "must not be negative"}
	}

	if req.Unit == "" {
		req.Unit = UnitUnits
	}
	return req.Unit.Validate()
}

// Discard списывает позицию. При ошибке позиция не изменяется.
func (e *Engine) Discard(it *Item, actor user.Actor, opts DiscardOptions) (*Item, error) {
	if st := it.State(); st.IsTerminal() {
		return it, &StateError{Op: "discard", State: st}
	}
	if opts.Reason != "" {
		if err := opts.Reason.Validate(); err != nil {
			return it, err
		}
	}

	stamp := e.DiscardStamp(actor, opts)
	stamp.Apply(it)
	return it, nil
}

// Finish отмечает позицию израсходованной.
func (e *Engine) Finish(it *Item, actor user.Actor) (*Item, error) {
	if st := it.State(); st.IsTerminal() {
		return it, &StateError{Op: "finish", State: st}
	}

	stamp := e.FinishStamp(actor)
	stamp.Apply(it)
	return it, nil
}

// DiscardStamp собирает поля списания на текущий момент.
func (e *Engine) DiscardStamp(actor user.Actor, opts DiscardOptions) DiscardStamp {
	s := DiscardStamp{
		At:     e.now(),
		By:     actor.UserID,
		ByName: actor.Name(),
		Reason: opts.Reason,
	}
	if opts.Quantity != nil && *opts.Quantity > 0 && !math.IsInf(*opts.Quantity, 1) {
		q := *opts.Quantity
		s.Quantity = &q
	}
	return s
}

// FinishStamp собирает поля завершения на текущий момент.
func (e *Engine) FinishStamp(actor user.Actor) FinishStamp {
	return FinishStamp{
		At:     e.now(),
		By:     actor.UserID,
		ByName: actor.Name(),
	}
}
