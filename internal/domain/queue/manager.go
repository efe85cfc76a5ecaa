package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/remote"
)

// DefaultMaxAttempts is how many policy or permanent failures an operation
// survives before it is moved to the dead-letter list.
const DefaultMaxAttempts = 3

// DrainResult describes one drain pass.
type DrainResult struct {
	// Succeeded includes skipped operations.
	Succeeded    []Pending
	Failed       []Pending
	DeadLettered []Pending
	Skipped      int
	// Committed counts operations actually accepted by the remote store.
	Committed int
	// Created maps local refs of committed creations to their remote ids.
	Created map[string]string
	// Collections touched by committed operations, sorted.
	Collections []remote.Collection
	// Coalesced is set when another drain was already running.
	Coalesced bool
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithMaxAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

func WithDeadLetterStore(s QueueStore) Option {
	return func(m *Manager) {
		m.dead = s
	}
}

// Manager appends operations to the durable queue and replays them
// against the remote store.
type Manager struct {
	queue       QueueStore
	dead        QueueStore
	remote      remote.Store
	log         *slog.Logger
	now         func() time.Time
	maxAttempts int

	// mu guards every read-modify-write of the stored queue.
	mu     sync.Mutex
	last   int64
	mirror []Pending

	drainMu  sync.Mutex
	draining bool
}

func NewManager(queue QueueStore, store remote.Store, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		queue:       queue,
		dead:        NewMemoryStore(),
		remote:      store,
		log:         log.With("component", "queue"),
		now:         time.Now,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enqueue appends op to the durable queue and persists it immediately.
// It never fails: storage errors are logged and the operation is kept in
// memory. Creations without a target receive a local ref.
func (m *Manager) Enqueue(ctx context.Context, op Operation) Pending {
	if op == nil {
		m.log.Error("refusing to enqueue nil operation")
		return Pending{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ops := m.loadLocked(ctx)
	ts := m.nextTimestampLocked()
	if IsCreate(op) && op.Target().IsZero() {
		op = WithRef(op, entity.NewLocal(ts))
	}

	p := Pending{Timestamp: ts, Op: op}
	ops = append(ops, p)
	_ = m.saveLocked(ctx, ops)

	m.log.Debug("operation queued",
		"type", op.Kind(),
		"id", op.Target().String(),
		"timestamp", ts,
		"size", len(ops),
	)
	return p
}

// Drain replays the queue in timestamp order. At most one drain runs at a
// time; a concurrent call returns immediately with Coalesced set.
// The returned error only reports a failure to persist the result.
func (m *Manager) Drain(ctx context.Context) (DrainResult, error) {
	if !m.startDrain() {
		m.log.Debug("drain already in flight, coalescing")
		return DrainResult{Coalesced: true}, nil
	}
	defer m.finishDrain()

	m.mu.Lock()
	batch := m.loadLocked(ctx)
	m.mu.Unlock()

	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Timestamp < batch[j].Timestamp
	})

	res := DrainResult{Created: make(map[string]string)}
	affected := make(map[remote.Collection]struct{})
	var interrupted []Pending

	for i, p := range batch {
		if ctx.Err() != nil {
			interrupted = append(interrupted, batch[i:]...)
			break
		}

		if !IsCreate(p.Op) && p.Op.Target().IsLocal() {
			res.Succeeded = append(res.Succeeded, p)
			res.Skipped++
			m.log.Debug("skipping operation on local entity", "type", p.Op.Kind(), "id", p.Op.Target().String())
			continue
		}

		created, err := Execute(ctx, m.remote, p.Op)
		if err == nil {
			res.Succeeded = append(res.Succeeded, p)
			res.Committed++
			affected[p.Op.Collection()] = struct{}{}
			if created != "" {
				res.Created[p.Op.Target().String()] = created
			}
			continue
		}

		p.Attempts++
		p.LastError = err.Error()

		kind := classify(err)
		if kind != remote.KindTransient && p.Attempts >= m.maxAttempts {
			m.log.Warn("operation moved to dead letters",
				"type", p.Op.Kind(),
				"id", p.Op.Target().String(),
				"attempts", p.Attempts,
				"kind", kind.String(),
				"error", err,
			)
			res.DeadLettered = append(res.DeadLettered, p)
			continue
		}

		m.log.Info("operation failed, will retry",
			"type", p.Op.Kind(),
			"id", p.Op.Target().String(),
			"attempts", p.Attempts,
			"kind", kind.String(),
			"error", err,
		)
		res.Failed = append(res.Failed, p)
	}

	for c := range affected {
		res.Collections = append(res.Collections, c)
	}
	sort.Slice(res.Collections, func(i, j int) bool {
		return res.Collections[i] < res.Collections[j]
	})

	err := m.persistDrain(ctx, batch, append(res.Failed, interrupted...), res.DeadLettered)

	m.log.Info("drain finished",
		"total", len(batch),
		"committed", res.Committed,
		"skipped", res.Skipped,
		"failed", len(res.Failed),
		"dead_lettered", len(res.DeadLettered),
	)
	return res, err
}

// persistDrain writes back the failed partition plus anything enqueued
// while the drain was running.
func (m *Manager) persistDrain(ctx context.Context, batch, keep, dead []Pending) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	drained := make(map[int64]struct{}, len(batch))
	for _, p := range batch {
		drained[p.Timestamp] = struct{}{}
	}

	retained := append([]Pending(nil), keep...)
	for _, p := range m.loadLocked(ctx) {
		if _, ok := drained[p.Timestamp]; !ok {
			retained = append(retained, p)
		}
	}
	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Timestamp < retained[j].Timestamp
	})

	var errs []error
	if err := m.saveLocked(ctx, retained); err != nil {
		errs = append(errs, fmt.Errorf("save queue: %w", err))
	}

	if len(dead) > 0 {
		existing, err := m.dead.Load(ctx)
		if err != nil {
			m.log.Error("failed to load dead letters", "error", err)
		}
		if err := m.dead.Save(ctx, append(existing, dead...)); err != nil {
			m.log.Error("failed to persist dead letters", "error", err, "count", len(dead))
			errs = append(errs, fmt.Errorf("save dead letters: %w", err))
		}
	}
	return errors.Join(errs...)
}

func classify(err error) remote.Kind {
	switch {
	case errors.Is(err, ErrOperationPanic),
		errors.Is(err, ErrLocalTarget),
		errors.Is(err, ErrEmptyTarget),
		errors.Is(err, ErrUnknownOperation):
		return remote.KindPermanent
	}
	return remote.KindOf(err)
}

// Len returns the number of queued operations.
func (m *Manager) Len(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.loadLocked(ctx))
}

// List returns queued operations in replay order.
func (m *Manager) List(ctx context.Context) []Pending {
	m.mu.Lock()
	ops := m.loadLocked(ctx)
	m.mu.Unlock()

	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].Timestamp < ops[j].Timestamp
	})
	return ops
}

func (m *Manager) DeadLetters(ctx context.Context) ([]Pending, error) {
	ops, err := m.dead.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dead letters: %w", err)
	}
	return ops, nil
}

// RequeueDeadLetters moves dead letters back into the queue with their
// attempt counters reset. Original timestamps are kept so replay order
// is preserved.
func (m *Manager) RequeueDeadLetters(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dead, err := m.dead.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load dead letters: %w", err)
	}
	if len(dead) == 0 {
		return 0, nil
	}

	ops := m.loadLocked(ctx)
	for _, p := range dead {
		p.Attempts = 0
		p.LastError = ""
		ops = append(ops, p)
	}
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].Timestamp < ops[j].Timestamp
	})

	if err := m.saveLocked(ctx, ops); err != nil {
		return 0, fmt.Errorf("save queue: %w", err)
	}
	if err := m.dead.Clear(ctx); err != nil {
		return len(dead), fmt.Errorf("clear dead letters: %w", err)
	}

	m.log.Info("dead letters requeued", "count", len(dead))
	return len(dead), nil
}

func (m *Manager) startDrain() bool {
	m.drainMu.Lock()
	defer m.drainMu.Unlock()
	if m.draining {
		return false
	}
	m.draining = true
	return true
}

func (m *Manager) finishDrain() {
	m.drainMu.Lock()
	m.draining = false
	m.drainMu.Unlock()
}

// Draining reports whether a drain is in flight.
func (m *Manager) Draining() bool {
	m.drainMu.Lock()
	defer m.drainMu.Unlock()
	return m.draining
}

func (m *Manager) loadLocked(ctx context.Context) []Pending {
	ops, err := m.queue.Load(ctx)
	if err != nil {
		m.log.Error("failed to load queue, using in-memory copy", "error", err)
		ops = append([]Pending(nil), m.mirror...)
	} else {
		m.mirror = append([]Pending(nil), ops...)
	}

	for _, p := range ops {
		if p.Timestamp > m.last {
			m.last = p.Timestamp
		}
	}
	return ops
}

func (m *Manager) saveLocked(ctx context.Context, ops []Pending) error {
	m.mirror = append([]Pending(nil), ops...)
	if err := m.queue.Save(ctx, ops); err != nil {
		m.log.Error("failed to persist queue", "error", err, "size", len(ops))
		return err
	}
	return nil
}

func (m *Manager) nextTimestampLocked() int64 {
	ts := m.now().UnixMilli()
	if ts <= m.last {
		ts = m.last + 1
	}
	m.last = ts
	return ts
}
