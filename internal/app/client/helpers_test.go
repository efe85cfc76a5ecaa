package client

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"

	"shelfkeeper/internal/app/client/config"
	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/remote"
	"shelfkeeper/internal/domain/user"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testActor() user.Actor {
	return user.Actor{
		UserID:      "u-1",
		DisplayName: "Anna",
		Department:  "bar",
		BusinessID:  "biz-1",
		IsManager:   true,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Env:           "local",
		LocalStore:    config.StoreMemory,
		RemoteBackend: config.BackendHTTP,
		ProbeInterval: time.Minute,
		SyncDebounce:  0,
		MaxAttempts:   3,
	}
}

// MockRemote is a mock implementation of RemoteStore.
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

func (m *MockRemote) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// newTestApp собирает клиента в памяти с фиксированными часами.
func newTestApp(t *testing.T, rs RemoteStore) *App {
	t.Helper()

	app := Assemble(testConfig(), testLogger(), testActor(), NewMemoryStorage(), rs)
	app.Inventory.engine = item.NewEngine(item.WithClock(func() time.Time { return testNow }))
	return app
}

func milkDoc(id string) remote.Document {
	return remote.Document{
		ID: id,
		Fields: remote.Fields{
			"name":       "Milk",
			"shelfLife":  3.0,
			"type":       "units",
			"area":       "bar",
			"businessId": "biz-1",
		},
	}
}
