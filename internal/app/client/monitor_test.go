package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfkeeper/internal/domain/queue"
)

type fakeSyncer struct {
	mu      sync.Mutex
	pending int
	calls   atomic.Int32
}

func (f *fakeSyncer) Sync(context.Context) (queue.DrainResult, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.pending = 0
	f.mu.Unlock()
	return queue.DrainResult{}, nil
}

func (f *fakeSyncer) Pending(context.Context) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

type fakeProber struct {
	err atomic.Value
}

func (p *fakeProber) HealthCheck(context.Context) error {
	if err, ok := p.err.Load().(error); ok {
		return err
	}
	return nil
}

func TestMonitor_StartupDrainWhenOnlineWithQueue(t *testing.T) {
	syncer := &fakeSyncer{pending: 2}
	m := NewMonitor(&fakeProber{}, syncer, time.Minute, 10*time.Millisecond, testLogger())

	m.Check(context.Background())

	assert.Eventually(t, func() bool { return syncer.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, m.Online())

	tr := <-m.Transitions()
	assert.True(t, tr.Online)
}

func TestMonitor_NoDrainWhenQueueEmpty(t *testing.T) {
	syncer := &fakeSyncer{}
	m := NewMonitor(&fakeProber{}, syncer, time.Minute, 0, testLogger())

	m.Observe(context.Background(), true)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, int32(0), syncer.calls.Load())
}

func TestMonitor_ReconnectSchedulesExactlyOneDrain(t *testing.T) {
	syncer := &fakeSyncer{}
	m := NewMonitor(&fakeProber{}, syncer, time.Minute, 30*time.Millisecond, testLogger())
	ctx := context.Background()

	m.Observe(ctx, false)
	syncer.mu.Lock()
	syncer.pending = 3
	syncer.mu.Unlock()

	m.Observe(ctx, true)
	m.Observe(ctx, true)
	m.schedule(ctx)

	assert.Eventually(t, func() bool { return syncer.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), syncer.calls.Load())

	first := <-m.Transitions()
	second := <-m.Transitions()
	assert.False(t, first.Online)
	assert.True(t, second.Online)
	assert.Len(t, m.Transitions(), 0, "repeated observations do not emit")
}

func TestMonitor_ProbeFailureGoesOffline(t *testing.T) {
	prober := &fakeProber{}
	syncer := &fakeSyncer{}
	m := NewMonitor(prober, syncer, time.Minute, 0, testLogger())
	ctx := context.Background()

	m.Check(ctx)
	require.True(t, m.Online())

	prober.err.Store(errors.New("connection refused"))
	m.Check(ctx)
	assert.False(t, m.Online())
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	syncer := &fakeSyncer{pending: 1}
	m := NewMonitor(&fakeProber{}, syncer, 5*time.Millisecond, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
	assert.Equal(t, int32(0), syncer.calls.Load(), "pending debounced drain is cancelled")
}

func TestMonitor_RunClosesTransitions(t *testing.T) {
	m := NewMonitor(&fakeProber{}, &fakeSyncer{}, time.Hour, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Run(ctx)

	var got []Transition
	for tr := range m.Transitions() {
		got = append(got, tr)
	}
	require.Len(t, got, 1)
	assert.True(t, got[0].Online)

	assert.NotPanics(t, func() { m.Observe(context.Background(), false) })
	assert.False(t, m.Online())
}
