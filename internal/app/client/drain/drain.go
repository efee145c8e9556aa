// Package drain повторная отправка записей из очереди синхронизации.
package drain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"

	"sitelog/internal/app/client/gateway"
	"sitelog/internal/app/client/kv"
	"sitelog/internal/app/client/queue"
	"sitelog/internal/domain/entry"
)

// Submitter отправка одной записи
type Submitter interface {
	Submit(ctx context.Context, p entry.Payload, forceDirect bool) (gateway.Result, error)
}

// Queue очередь, из которой выполняется повтор
type Queue interface {
	DrainAll(ctx context.Context) ([]queue.Entry, error)
	Settle(ctx context.Context, drained []queue.Entry, failed map[string]bool, maxAttempts int) (queue.SettleResult, error)
}

// Report итог одного прохода
type Report struct {
	Attempted int           `json:"attempted"`
	Replayed  int           `json:"replayed"`
	Failed    int           `json:"failed"`
	Dropped   int           `json:"dropped"`
	Kept      int           `json:"kept"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration"`
}

// SyncStats накопленная статистика проходов, хранится под ключом syncStats
type SyncStats struct {
	TotalSyncs      int       `json:"total_syncs"`
	LastSuccessful  time.Time `json:"last_successful"`
	LastFailed      time.Time `json:"last_failed"`
	TotalUploaded   int       `json:"total_uploaded"`
	TotalErrors     int       `json:"total_errors"`
	TotalDropped    int       `json:"total_dropped"`
	AvgSyncDuration float64   `json:"avg_sync_duration"`
}

type Worker struct {
	queue       Queue
	submitter   Submitter
	store       kv.Store
	log         *slog.Logger
	maxAttempts int
	now         func() time.Time

	group   singleflight.Group
	statsMu sync.Mutex
}

func New(q Queue, submitter Submitter, store kv.Store, maxAttempts int, log *slog.Logger) *Worker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Worker{
		queue:       q,
		submitter:   submitter,
		store:       store,
		log:         log.With("component", "drain"),
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Drain выполняет один проход по очереди. Одновременные вызовы
// объединяются в один проход и получают общий результат.
func (w *Worker) Drain(ctx context.Context) (Report, error) {
	v, err, shared := w.group.Do("drain", func() (any, error) {
		return w.drain(ctx)
	})
	if shared {
		w.log.Debug("Проход синхронизации уже выполняется, используем его результат")
	}
	if err != nil {
		return Report{}, err
	}
	return v.(Report), nil
}

func (w *Worker) drain(ctx context.Context) (Report, error) {
	start := w.now()

	snapshot, err := w.queue.DrainAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("ошибка чтения очереди: %w", err)
	}
	if len(snapshot) == 0 {
		return Report{}, nil
	}

	w.log.Info("Начало синхронизации", "entries", len(snapshot))

	var report Report
	failed := make(map[string]bool)

	// при отмене контекста проход останавливается, неотправленные записи
	// остаются в очереди без изменения счетчика попыток
	attempted := snapshot
	for i, e := range snapshot {
		if ctx.Err() != nil {
			attempted = snapshot[:i]
			break
		}

		res, err := w.submitter.Submit(ctx, e.Payload, true)
		if err != nil && ctx.Err() != nil {
			w.log.Warn("Синхронизация прервана", "id", e.ID, "error", err)
			attempted = snapshot[:i]
			break
		}

		switch {
		case err != nil:
			w.log.Error("Не удалось отправить запись",
				"id", e.ID,
				"kind", e.Kind(),
				"error", err,
			)
			failed[e.ID] = true
		case !res.Success:
			w.log.Error("Сервер отклонил запись из очереди",
				"id", e.ID,
				"kind", e.Kind(),
				"error", res.Error,
			)
			failed[e.ID] = true
		default:
			report.Replayed++
		}
	}
	report.Attempted = len(attempted)
	report.Skipped = len(snapshot) - len(attempted)
	report.Failed = len(failed)

	// отправленные записи нужно убрать из очереди даже при отмене контекста
	ctx = context.WithoutCancel(ctx)

	settled, err := w.queue.Settle(ctx, attempted, failed, w.maxAttempts)
	if err != nil {
		return report, fmt.Errorf("ошибка обновления очереди: %w", err)
	}

	for _, e := range settled.Dropped {
		w.log.Warn("Запись удалена из очереди после неудачных попыток",
			"id", e.ID,
			"kind", e.Kind(),
			"attempts", e.Attempts,
			"enqueued_at", e.EnqueuedAt,
		)
	}
	report.Dropped = len(settled.Dropped)
	report.Kept = len(settled.Kept)
	report.Duration = w.now().Sub(start)

	w.log.Info("Синхронизация завершена",
		"replayed", report.Replayed,
		"failed", report.Failed,
		"dropped", report.Dropped,
		"kept", report.Kept,
		"skipped", report.Skipped,
		"duration", report.Duration,
	)

	w.recordStats(ctx, report)
	return report, nil
}

// Stats накопленная статистика
func (w *Worker) Stats(ctx context.Context) (SyncStats, error) {
	var stats SyncStats
	if _, err := kv.GetJSON(ctx, w.store, kv.KeySyncStats, &stats); err != nil {
		return SyncStats{}, err
	}
	return stats, nil
}

// ResetStats обнуляет статистику
func (w *Worker) ResetStats(ctx context.Context) error {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()

	return w.store.Remove(ctx, kv.KeySyncStats)
}

func (w *Worker) recordStats(ctx context.Context, r Report) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()

	stats, err := w.Stats(ctx)
	if err != nil {
		w.log.Warn("Статистика синхронизации повреждена, начинаем заново", "error", err)
		stats = SyncStats{}
	}

	total := stats.AvgSyncDuration * float64(stats.TotalSyncs)
	stats.TotalSyncs++
	stats.AvgSyncDuration = (total + r.Duration.Seconds()) / float64(stats.TotalSyncs)
	stats.TotalUploaded += r.Replayed
	stats.TotalErrors += r.Failed
	stats.TotalDropped += r.Dropped

	if r.Failed == 0 {
		stats.LastSuccessful = w.now()
	} else {
		stats.LastFailed = w.now()
	}

	if err := kv.SetJSON(ctx, w.store, kv.KeySyncStats, stats); err != nil {
		w.log.Error("Не удалось сохранить статистику синхронизации", "error", err)
	}
}
