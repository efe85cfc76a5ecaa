package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/localstore"
	"shelfkeeper/internal/domain/remote"
)

// MockRemote is a mock implementation of remote.Store.
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Create(ctx context.Context, coll remote.Collection, fields remote.Fields) (string, error) {
	args := m.Called(ctx, coll, fields)
	return args.String(0), args.Error(1)
}

func (m *MockRemote) Patch(ctx context.Context, coll remote.Collection, id entity.RemoteID, fields remote.Fields) error {
	args := m.Called(ctx, coll, id, fields)
	return args.Error(0)
}

func (m *MockRemote) Delete(ctx context.Context, coll remote.Collection, id entity.RemoteID) error {
	args := m.Called(ctx, coll, id)
	return args.Error(0)
}

func (m *MockRemote) QueryByField(ctx context.Context, coll remote.Collection, field string, value any) ([]remote.Document, error) {
	args := m.Called(ctx, coll, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]remote.Document), args.Error(1)
}

// kv is an in-memory localstore.Store.
type kv struct {
	mu      sync.Mutex
	data    map[string]string
	failSet bool
}

func newKV() *kv {
	return &kv{data: make(map[string]string)}
}

func (s *kv) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *kv) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet {
		return localstore.Wrap("set "+key, errors.New("quota exceeded"))
	}
	s.data[key] = value
	return nil
}

func (s *kv) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *kv) Close() error {
	return nil
}
