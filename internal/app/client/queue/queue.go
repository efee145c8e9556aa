// Package queue очередь синхронизации: упорядоченный список записей,
// которые не удалось отправить сразу. Весь список хранится одним
// значением под ключом syncQueue.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"sitelog/internal/app/client/kv"
	"sitelog/internal/domain/entry"
)

// Queue все изменяющие операции выполняются под одним мьютексом,
// поэтому чтение-добавление-запись не перемешиваются внутри процесса.
type Queue struct {
	store kv.Store
	log   *slog.Logger
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

type Option func(*Queue)

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов
func WithIDGenerator(gen func() string) Option {
	return func(q *Queue) { q.newID = gen }
}

func New(store kv.Store, log *slog.Logger, opts ...Option) *Queue {
	q := &Queue{
		store: store,
		log:   log.With("component", "sync_queue"),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue добавляет запись в конец очереди. Данные должны быть
// полностью подготовлены заранее (автор уже проставлен).
func (q *Queue) Enqueue(ctx context.Context, p entry.Payload) (Entry, error) {
	if p == nil {
		return Entry{}, fmt.Errorf("ошибка добавления в очередь: %w", entry.ErrInvalidPayload)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load(ctx)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		ID:         q.newID(),
		Payload:    p,
		EnqueuedAt: q.now().UTC(),
	}
	entries = append(entries, e)

	if err := q.save(ctx, entries); err != nil {
		return Entry{}, err
	}

	q.log.Info("Запись добавлена в очередь",
		"id", e.ID,
		"kind", e.Kind(),
		"queue_len", len(entries),
	)
	return e, nil
}

// DrainAll возвращает снимок очереди в порядке добавления, не изменяя ее
func (q *Queue) DrainAll(ctx context.Context) ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.load(ctx)
}

// Len текущая длина очереди
func (q *Queue) Len(ctx context.Context) (int, error) {
	entries, err := q.DrainAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// ClearAll полностью очищает очередь. Проход синхронизации использует Settle,
// который не трогает записи, добавленные во время прохода.
func (q *Queue) ClearAll(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.save(ctx, []Entry{})
}

// SettleResult итог применения результатов прохода к очереди
type SettleResult struct {
	Removed []Entry // отправленные записи
	Dropped []Entry // записи, исчерпавшие лимит попыток
	Kept    []Entry // записи, оставленные для следующего прохода
}

// Settle убирает из очереди ровно те записи, что были в снимке drained.
// Неудачные записи (failed) остаются на месте с увеличенным счетчиком,
// пока счетчик меньше maxAttempts, затем удаляются. Записи, которых не было
// в снимке, сохраняются без изменений.
func (q *Queue) Settle(ctx context.Context, drained []Entry, failed map[string]bool, maxAttempts int) (SettleResult, error) {
	var result SettleResult
	if len(drained) == 0 {
		return result, nil
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	inSnapshot := make(map[string]struct{}, len(drained))
	for _, e := range drained {
		inSnapshot[e.ID] = struct{}{}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	current, err := q.load(ctx)
	if err != nil {
		return result, err
	}

	remaining := make([]Entry, 0, len(current))
	for _, e := range current {
		if _, ok := inSnapshot[e.ID]; !ok {
			remaining = append(remaining, e)
			continue
		}

		if !failed[e.ID] {
			result.Removed = append(result.Removed, e)
			continue
		}

		e.Attempts++
		if e.Attempts < maxAttempts {
			result.Kept = append(result.Kept, e)
			remaining = append(remaining, e)
			continue
		}
		result.Dropped = append(result.Dropped, e)
	}

	if err := q.save(ctx, remaining); err != nil {
		return SettleResult{}, err
	}

	return result, nil
}

func (q *Queue) load(ctx context.Context) ([]Entry, error) {
	data, ok, err := q.store.Get(ctx, kv.KeySyncQueue)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения очереди: %w", err)
	}
	if !ok {
		return []Entry{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		q.log.Error("Очередь повреждена и будет перезаписана", "error", err)
		return []Entry{}, nil
	}

	entries := make([]Entry, 0, len(raw))
	for i, item := range raw {
		var e Entry
		if err := json.Unmarshal(item, &e); err != nil {
			q.log.Error("Пропущена нечитаемая запись очереди", "index", i, "error", err)
			continue
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (q *Queue) save(ctx context.Context, entries []Entry) error {
	if err := kv.SetJSON(ctx, q.store, kv.KeySyncQueue, entries); err != nil {
		return fmt.Errorf("ошибка сохранения очереди: %w", err)
	}
	return nil
}
