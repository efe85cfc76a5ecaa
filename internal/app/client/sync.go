package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"shelfkeeper/internal/domain/localstore"
	"shelfkeeper/internal/domain/queue"
)

const statsKey = "sync:stats"

// SyncStats статистика синхронизации
type SyncStats struct {
	TotalSyncs      int       `json:"total_syncs"`
	LastSync        time.Time `json:"last_sync"`
	LastSuccessful  time.Time `json:"last_successful"`
	TotalCommitted  int       `json:"total_committed"`
	TotalSkipped    int       `json:"total_skipped"`
	TotalFailed     int       `json:"total_failed"`
	TotalDeadLetter int       `json:"total_dead_letter"`
	LastError       string    `json:"last_error,omitempty"`
	AvgSyncDuration float64   `json:"avg_sync_duration"`
}

// SyncService отправляет очередь в удаленное хранилище и обновляет кэш
// затронутых коллекций.
type SyncService struct {
	queue     *queue.Manager
	cache     *Cache
	refresher *Refresher
	store     localstore.Store
	log       *slog.Logger
	now       func() time.Time

	mu    sync.RWMutex
	stats SyncStats
}

// NewSyncService создает новый сервис синхронизации
func NewSyncService(q *queue.Manager, cache *Cache, refresher *Refresher, store localstore.Store, log *slog.Logger) *SyncService {
	s := &SyncService{
		queue:     q,
		cache:     cache,
		refresher: refresher,
		store:     store,
		log:       log.With("component", "sync"),
		now:       time.Now,
	}

	if _, err := localstore.GetJSON(context.Background(), store, statsKey, &s.stats); err != nil {
		s.log.Warn("Не удалось загрузить статистику синхронизации", "error", err)
	}
	return s
}

// Sync выполняет один проход очереди. Если проход уже идет, вызов
// возвращает результат с Coalesced. После прохода, в котором хотя бы одна
// операция принята удаленным хранилищем, кэш затронутых коллекций
// обновляется, а операции, оставшиеся в очереди, накладываются поверх.
func (s *SyncService) Sync(ctx context.Context) (queue.DrainResult, error) {
	start := s.now()

	res, err := s.queue.Drain(ctx)
	if res.Coalesced {
		return res, nil
	}

	if rerr := s.cache.ResolveRefs(ctx, res.Created); rerr != nil {
		s.log.Warn("Не удалось обновить идентификаторы в кэше", "error", rerr)
	}

	if res.Committed > 0 {
		if rerr := s.refresher.Refresh(ctx, res.Collections...); rerr != nil {
			s.log.Warn("Кэш обновлен не полностью", "error", rerr)
		}
		s.reapplyPending(ctx)
	}

	s.updateStats(res, err, s.now().Sub(start))
	return res, err
}

// ForceSync принудительная синхронизация: проход очереди и полное
// обновление кэша.
func (s *SyncService) ForceSync(ctx context.Context) (queue.DrainResult, error) {
	s.log.Info("Запуск принудительной синхронизации")

	res, err := s.Sync(ctx)
	if res.Coalesced {
		return res, err
	}

	if rerr := s.refresher.Refresh(ctx); rerr != nil {
		err = errors.Join(err, fmt.Errorf("обновление кэша: %w", rerr))
	}
	s.reapplyPending(ctx)
	return res, err
}

// reapplyPending возвращает в свежий снимок изменения операций, которые
// остались в очереди. Без этого обновление кэша откатывает их до
// состояния сервера.
func (s *SyncService) reapplyPending(ctx context.Context) {
	for _, p := range s.queue.List(ctx) {
		if err := s.cache.ApplyOptimistic(ctx, p.Op); err != nil {
			s.log.Warn("Не удалось восстановить отложенное изменение в кэше",
				"type", p.Op.Kind(),
				"id", p.Op.Target().String(),
				"error", err,
			)
		}
	}
}

// Pending число операций в очереди.
func (s *SyncService) Pending(ctx context.Context) int {
	return s.queue.Len(ctx)
}

// Queue операции в порядке отправки.
func (s *SyncService) Queue(ctx context.Context) []queue.Pending {
	return s.queue.List(ctx)
}

func (s *SyncService) DeadLetters(ctx context.Context) ([]queue.Pending, error) {
	return s.queue.DeadLetters(ctx)
}

func (s *SyncService) RequeueDeadLetters(ctx context.Context) (int, error) {
	return s.queue.RequeueDeadLetters(ctx)
}

func (s *SyncService) updateStats(res queue.DrainResult, err error, took time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalSyncs++
	s.stats.LastSync = s.now()
	s.stats.TotalCommitted += res.Committed
	s.stats.TotalSkipped += res.Skipped
	s.stats.TotalFailed += len(res.Failed)
	s.stats.TotalDeadLetter += len(res.DeadLettered)

	if err == nil && len(res.Failed) == 0 {
		s.stats.LastSuccessful = s.stats.LastSync
		s.stats.LastError = ""
	} else if err != nil {
		s.stats.LastError = err.Error()
	} else {
		s.stats.LastError = res.Failed[len(res.Failed)-1].LastError
	}

	// Скользящее среднее длительности
	n := float64(s.stats.TotalSyncs)
	s.stats.AvgSyncDuration = (s.stats.AvgSyncDuration*(n-1) + took.Seconds()) / n

	s.saveStatsLocked()
}

func (s *SyncService) saveStatsLocked() {
	if err := localstore.SetJSON(context.Background(), s.store, statsKey, s.stats); err != nil {
		s.log.Warn("Не удалось сохранить статистику синхронизации", "error", err)
	}
}

// GetStats возвращает статистику синхронизации
func (s *SyncService) GetStats() SyncStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// IsSyncing проверяет, выполняется ли синхронизация
func (s *SyncService) IsSyncing() bool {
	return s.queue.Draining()
}

// ResetStats сбрасывает статистику синхронизации
func (s *SyncService) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = SyncStats{}
	s.saveStatsLocked()
}
