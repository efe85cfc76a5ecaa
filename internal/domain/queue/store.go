package queue

import (
	"context"
	"encoding/json"
	"sync"

	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/localstore"
)

const (
	DefaultKey           = "pendingOperations"
	DefaultDeadLetterKey = "pendingOperations:dead"
)

// QueueStore persists the ordered list of pending operations.
type QueueStore interface {
	Load(ctx context.Context) ([]Pending, error)
	// Save replaces the stored list. An empty list clears it.
	Save(ctx context.Context, ops []Pending) error
	Clear(ctx context.Context) error
}

// KVStore keeps the queue as one JSON array under a single key.
type KVStore struct {
	store localstore.Store
	key   string
	log   *slog.Logger
}

func NewKVStore(store localstore.Store, key string, log *slog.Logger) *KVStore {
	return &KVStore{
		store: store,
		key:   key,
		log:   log.With("component", "queue_store", "key", key),
	}
}

// Load decodes the stored list. Entries that cannot be decoded are logged
// and dropped so one corrupt record does not block the whole queue.
func (s *KVStore) Load(ctx context.Context) ([]Pending, error) {
	var raw []json.RawMessage
	ok, err := localstore.GetJSON(ctx, s.store, s.key, &raw)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	ops := make([]Pending, 0, len(raw))
	for _, r := range raw {
		var p Pending
		if err := json.Unmarshal(r, &p); err != nil {
			s.log.Warn("dropping undecodable pending operation", "error", err)
			continue
		}
		ops = append(ops, p)
	}
	return ops, nil
}

func (s *KVStore) Save(ctx context.Context, ops []Pending) error {
	if len(ops) == 0 {
		return s.Clear(ctx)
	}
	return localstore.SetJSON(ctx, s.store, s.key, ops)
}

func (s *KVStore) Clear(ctx context.Context) error {
	return s.store.Remove(ctx, s.key)
}

// MemoryStore is a QueueStore without persistence.
type MemoryStore struct {
	mu  sync.Mutex
	ops []Pending
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Pending(nil), s.ops...), nil
}

func (s *MemoryStore) Save(_ context.Context, ops []Pending) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append([]Pending(nil), ops...)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
	return nil
}
