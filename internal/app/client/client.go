package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	gosync "sync"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"shelfkeeper/internal/app/client/config"
	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/localstore"
	"shelfkeeper/internal/domain/queue"
	"shelfkeeper/internal/domain/remote"
	"shelfkeeper/internal/domain/user"
)

// RemoteStore удаленное хранилище, которое умеет сообщать о доступности.
type RemoteStore interface {
	remote.Store
	Prober
}

type App struct {
	config  *config.Config
	log     *slog.Logger
	actor   user.Actor
	storage localstore.Store
	remote  RemoteStore
	closers []func(context.Context) error

	Queue     *queue.Manager
	Cache     *Cache
	Refresher *Refresher
	Inventory *Inventory
	Sync      *SyncService
	Monitor   *Monitor

	wg     gosync.WaitGroup
	cancel context.CancelFunc
}

// New собирает клиента по конфигурации.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	actor := cfg.Actor()
	if err := actor.Validate(); err != nil {
		return nil, fmt.Errorf("не задан пользователь (USER_ID, BUSINESS_ID): %w", err)
	}

	storage := newLocalStore(ctx, cfg, log)

	rs, closeRemote, err := newRemoteStore(ctx, cfg, log)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("ошибка инициализации удаленного хранилища: %w", err)
	}

	app := Assemble(cfg, log, actor, storage, rs)
	if closeRemote != nil {
		app.closers = append(app.closers, closeRemote)
	}
	return app, nil
}

// Assemble связывает компоненты клиента поверх готовых хранилищ.
func Assemble(cfg *config.Config, log *slog.Logger, actor user.Actor, storage localstore.Store, rs RemoteStore) *App {
	q := queue.NewManager(
		queue.NewKVStore(storage, queue.DefaultKey, log),
		rs,
		log,
		queue.WithMaxAttempts(cfg.MaxAttempts),
		queue.WithDeadLetterStore(queue.NewKVStore(storage, queue.DefaultDeadLetterKey, log)),
	)

	cache := NewCache(storage, actor, log)
	refresher := NewRefresher(rs, cache, actor, log)
	syncService := NewSyncService(q, cache, refresher, storage, log)

	return &App{
		config:    cfg,
		log:       log,
		actor:     actor,
		storage:   storage,
		remote:    rs,
		Queue:     q,
		Cache:     cache,
		Refresher: refresher,
		Inventory: NewInventory(rs, q, cache, item.NewEngine(), actor, log),
		Sync:      syncService,
		Monitor:   NewMonitor(rs, syncService, cfg.ProbeInterval, cfg.SyncDebounce, log),
	}
}

func newLocalStore(ctx context.Context, cfg *config.Config, log *slog.Logger) localstore.Store {
	switch cfg.LocalStore {
	case config.StoreRedis:
		s, err := NewRedisStorage(ctx, cfg.RedisAddr)
		if err == nil {
			return s
		}
		log.Warn("Не удалось подключиться к Redis, используем память", "error", err)
	case config.StoreSQLite:
		s, err := NewSQLiteStorage(cfg.DataPath)
		if err == nil {
			return s
		}
		log.Warn("Не удалось инициализировать SQLite, используем память", "error", err)
	}
	return NewMemoryStorage()
}

func newRemoteStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (RemoteStore, func(context.Context) error, error) {
	switch cfg.RemoteBackend {
	case config.BackendMongo:
		s, err := NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendHTTP:
		return NewHTTPStore(BaseURL(cfg.ServerAddress, cfg.EnableTLS), cfg.AuthToken, log), nil, nil
	}
	return nil, nil, fmt.Errorf("неизвестный бэкенд %q", cfg.RemoteBackend)
}

// Actor текущий пользователь.
func (a *App) Actor() user.Actor {
	return a.actor
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return a.remote.HealthCheck(ctx)
}

// Run запускает мониторинг связи до сигнала завершения.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	go a.handleSignals(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Monitor.Run(ctx)
	}()

	a.log.Info("Клиент запущен",
		"backend", a.config.RemoteBackend,
		"local_store", a.config.LocalStore,
		"env", a.config.Env,
	)

	a.wg.Wait()
	return nil
}

func (a *App) handleSignals(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		a.log.Info("Получен сигнал завершения", "signal", sig.String())
		a.cancel()
	case <-ctx.Done():
	}
}

// Shutdown останавливает фоновые задачи и закрывает хранилища.
func (a *App) Shutdown() error {
	a.log.Info("Завершение работы клиента...")

	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c(ctx))
	}
	errs = append(errs, a.storage.Close())

	a.log.Info("Клиент завершил работу")
	return errors.Join(errs...)
}
