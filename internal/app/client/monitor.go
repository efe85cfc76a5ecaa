package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/queue"
)

// DefaultSyncDebounce пауза после восстановления связи перед отправкой
// очереди.
const DefaultSyncDebounce = 2 * time.Second

const DefaultProbeInterval = 15 * time.Second

// Prober проверяет доступность удаленного хранилища.
type Prober interface {
	HealthCheck(ctx context.Context) error
}

// Syncer запускает проход очереди.
type Syncer interface {
	Sync(ctx context.Context) (queue.DrainResult, error)
	Pending(ctx context.Context) int
}

// Transition смена состояния связи.
type Transition struct {
	Online bool
	At     time.Time
}

// Monitor следит за доступностью удаленного хранилища и запускает
// синхронизацию после восстановления связи.
type Monitor struct {
	prober   Prober
	syncer   Syncer
	log      *slog.Logger
	interval time.Duration
	debounce time.Duration
	now      func() time.Time

	transitions chan Transition

	mu        sync.Mutex
	known     bool
	online    bool
	scheduled bool
	closed    bool
	timer     *time.Timer
	wg        sync.WaitGroup
}

func NewMonitor(prober Prober, syncer Syncer, interval, debounce time.Duration, log *slog.Logger) *Monitor {
	if debounce < 0 {
		debounce = DefaultSyncDebounce
	}
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Monitor{
		prober:      prober,
		syncer:      syncer,
		log:         log.With("component", "monitor"),
		interval:    interval,
		debounce:    debounce,
		now:         time.Now,
		transitions: make(chan Transition, 16),
	}
}

// Transitions канал смен состояния. Если читатель не успевает, события
// отбрасываются. Канал закрывается, когда Run завершается.
func (m *Monitor) Transitions() <-chan Transition {
	return m.transitions
}

// Online последнее известное состояние связи.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Run проверяет связь сразу и затем с периодом interval, пока ctx не
// отменен. Перед выходом дожидается запущенной синхронизации и закрывает
// Transitions. Run вызывается не более одного раза.
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.stop()
			m.log.Info("Мониторинг связи остановлен")
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check опрашивает Prober и обрабатывает результат.
func (m *Monitor) Check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := m.prober.HealthCheck(probeCtx)
	cancel()

	if err != nil {
		m.log.Debug("Удаленное хранилище недоступно", "error", err)
	}
	m.Observe(ctx, err == nil)
}

// Observe обрабатывает наблюдение состояния связи. При переходе в online
// и при первом наблюдении online с непустой очередью планируется ровно
// одна синхронизация.
func (m *Monitor) Observe(ctx context.Context, online bool) {
	m.mu.Lock()
	changed := !m.known || m.online != online
	m.known = true
	m.online = online
	if changed && !m.closed {
		select {
		case m.transitions <- Transition{Online: online, At: m.now()}:
		default:
		}
	}
	m.mu.Unlock()

	if !changed {
		return
	}

	if !online {
		m.log.Info("Связь потеряна")
		return
	}

	pending := m.syncer.Pending(ctx)
	m.log.Info("Связь восстановлена", "pending", pending)
	if pending > 0 {
		m.schedule(ctx)
	}
}

// schedule откладывает синхронизацию на debounce. Повторный вызов, пока
// синхронизация ожидает запуска, ничего не делает.
func (m *Monitor) schedule(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduled {
		return
	}
	m.scheduled = true
	m.wg.Add(1)

	m.timer = time.AfterFunc(m.debounce, func() {
		defer m.wg.Done()

		m.mu.Lock()
		m.scheduled = false
		stillOnline := m.online
		m.mu.Unlock()

		if !stillOnline || ctx.Err() != nil {
			return
		}
		if _, err := m.syncer.Sync(ctx); err != nil {
			m.log.Error("Ошибка синхронизации", "error", err)
		}
	})
}

func (m *Monitor) stop() {
	m.mu.Lock()
	if m.timer != nil && m.timer.Stop() {
		m.scheduled = false
		m.wg.Done()
	}
	m.mu.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.transitions)
	}
	m.mu.Unlock()
}
