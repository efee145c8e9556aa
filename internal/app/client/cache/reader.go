package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"golang.org/x/exp/slog"

	"sitelog/internal/app/client/kv"
	"sitelog/internal/app/client/remote"
	"sitelog/internal/app/client/session"
	"sitelog/internal/domain/entry"
)

// Getter чтение с сервера
type Getter interface {
	Get(ctx context.Context, action string, params url.Values) (*remote.Response, error)
}

// Reader чтение списков записей и сводки с откатом на кэш
type Reader struct {
	remote  Getter
	session session.Provider
	entries map[entry.Kind]*Cache[[]entry.Record]
	stats   *Cache[entry.Stats]
}

func NewReader(store kv.Store, getter Getter, sess session.Provider, log *slog.Logger) *Reader {
	emptyList := func() []entry.Record { return []entry.Record{} }

	return &Reader{
		remote:  getter,
		session: sess,
		entries: map[entry.Kind]*Cache[[]entry.Record]{
			entry.KindJCB:     New(store, kv.KeyJCBCache, emptyList, log),
			entry.KindTipper:  New(store, kv.KeyTipperCache, emptyList, log),
			entry.KindDiesel:  New(store, kv.KeyDieselCache, emptyList, log),
			entry.KindExpense: New(store, kv.KeyExpenseCache, emptyList, log),
		},
		stats: New(store, kv.KeyStatsCache, func() entry.Stats { return entry.Stats{} }, log),
	}
}

// Entries список записей указанного типа
func (r *Reader) Entries(ctx context.Context, kind entry.Kind) (Result[[]entry.Record], error) {
	c, ok := r.entries[kind]
	if !ok {
		return Result[[]entry.Record]{}, fmt.Errorf("%w: %q", entry.ErrUnknownKind, kind)
	}

	res := c.Get(ctx, func(ctx context.Context) ([]entry.Record, error) {
		var rows []entry.Record
		if err := r.fetch(ctx, kind.GetAction(), &rows); err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []entry.Record{}
		}
		return rows, nil
	})
	return res, nil
}

func (r *Reader) JCBEntries(ctx context.Context) Result[[]entry.Record] {
	res, _ := r.Entries(ctx, entry.KindJCB)
	return res
}

func (r *Reader) TipperEntries(ctx context.Context) Result[[]entry.Record] {
	res, _ := r.Entries(ctx, entry.KindTipper)
	return res
}

func (r *Reader) DieselEntries(ctx context.Context) Result[[]entry.Record] {
	res, _ := r.Entries(ctx, entry.KindDiesel)
	return res
}

func (r *Reader) ExpenseEntries(ctx context.Context) Result[[]entry.Record] {
	res, _ := r.Entries(ctx, entry.KindExpense)
	return res
}

// QuickStats сводка для главного экрана
func (r *Reader) QuickStats(ctx context.Context) Result[entry.Stats] {
	return r.stats.Get(ctx, func(ctx context.Context) (entry.Stats, error) {
		var stats entry.Stats
		err := r.fetch(ctx, "getStats", &stats)
		return stats, err
	})
}

func (r *Reader) fetch(ctx context.Context, action string, dst any) error {
	params := url.Values{}
	if s := r.session.Current(); s.LoggedIn() {
		params.Set("userName", s.UserName)
		params.Set("role", string(s.Role))
	}

	resp, err := r.remote.Get(ctx, action, params)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s: %s", remote.ErrRejected, action, resp.Error)
	}

	if len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, dst); err != nil {
		return fmt.Errorf("%w: %s: неожиданный формат данных: %v", remote.ErrTransport, action, err)
	}
	return nil
}
