// Package cache кэш последнего успешного чтения для каждого набора данных.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"sitelog/internal/app/client/kv"
)

// Snapshot последние полученные данные и время их получения
type Snapshot[T any] struct {
	Data      T         `json:"data"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Result результат чтения через кэш
type Result[T any] struct {
	Snapshot[T]
	// Fresh данные получены с сервера в этом вызове
	Fresh bool
	// Cached данные взяты из кэша; если оба флага false, возвращено значение по умолчанию
	Cached bool
}

// Fetcher живой запрос к серверу
type Fetcher[T any] func(ctx context.Context) (T, error)

// Cache хранит снимок под одним ключом. Снимок только заменяется целиком.
type Cache[T any] struct {
	store kv.Store
	key   string
	def   func() T
	log   *slog.Logger
	now   func() time.Time
	mu    sync.Mutex
}

func New[T any](store kv.Store, key string, def func() T, log *slog.Logger) *Cache[T] {
	return &Cache[T]{
		store: store,
		key:   key,
		def:   def,
		log:   log.With("component", "cache", "key", key),
		now:   time.Now,
	}
}

// Get пытается получить свежие данные и сохранить их. При любой ошибке
// возвращает последний снимок или значение по умолчанию. Ошибка наружу не выходит.
func (c *Cache[T]) Get(ctx context.Context, fetch Fetcher[T]) Result[T] {
	startedAt := c.now().UTC()

	data, err := fetch(ctx)
	if err == nil {
		snap := Snapshot[T]{Data: data, FetchedAt: startedAt}
		c.put(ctx, snap)
		return Result[T]{Snapshot: snap, Fresh: true}
	}

	c.log.Warn("Сервер недоступен, используем кэш", "error", err)

	if snap, ok := c.Load(ctx); ok {
		return Result[T]{Snapshot: snap, Cached: true}
	}

	return Result[T]{Snapshot: Snapshot[T]{Data: c.def()}}
}

// Load читает сохраненный снимок без обращения к серверу
func (c *Cache[T]) Load(ctx context.Context) (Snapshot[T], bool) {
	var snap Snapshot[T]

	ok, err := kv.GetJSON(ctx, c.store, c.key, &snap)
	if err != nil {
		c.log.Error("Ошибка чтения кэша", "error", err)
		return Snapshot[T]{}, false
	}

	return snap, ok
}

// put заменяет снимок, если он не старее сохраненного. Параллельные
// обновления могут завершиться в любом порядке, побеждает более поздний запрос.
func (c *Cache[T]) put(ctx context.Context, snap Snapshot[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.Load(ctx); ok && prev.FetchedAt.After(snap.FetchedAt) {
		c.log.Debug("Пропущено устаревшее обновление кэша",
			"stored", prev.FetchedAt,
			"fetched", snap.FetchedAt,
		)
		return
	}

	if err := kv.SetJSON(ctx, c.store, c.key, snap); err != nil {
		c.log.Error("Ошибка сохранения кэша", "error", err)
	}
}
