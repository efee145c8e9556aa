// Package gateway единая точка отправки записей на сервер.
// Запись либо принимается сервером, либо попадает в очередь синхронизации.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"sitelog/internal/app/client/kv"
	"sitelog/internal/app/client/queue"
	"sitelog/internal/app/client/remote"
	"sitelog/internal/app/client/session"
	"sitelog/internal/domain/entry"
)

// ConnectionFailure текст ошибки для операций, которые не ставятся в очередь
const ConnectionFailure = "connection failure"

// Poster отправка действия на сервер
type Poster interface {
	Post(ctx context.Context, action string, data any) (*remote.Response, error)
}

// Enqueuer очередь для записей, которые не удалось отправить
type Enqueuer interface {
	Enqueue(ctx context.Context, p entry.Payload) (queue.Entry, error)
}

// Result итог отправки
type Result struct {
	Success         bool   `json:"success"`
	Queued          bool   `json:"queued"`
	Error           string `json:"error,omitempty"`
	ActualEntryTime string `json:"actualEntryTime,omitempty"`
}

type Gateway struct {
	remote  Poster
	queue   Enqueuer
	store   kv.Store
	session session.Provider
	log     *slog.Logger
}

func New(poster Poster, q Enqueuer, store kv.Store, sess session.Provider, log *slog.Logger) *Gateway {
	return &Gateway{
		remote:  poster,
		queue:   q,
		store:   store,
		session: sess,
		log:     log.With("component", "gateway"),
	}
}

// Submit отправляет запись. Если сервер недоступен и forceDirect не задан,
// запись ставится в очередь и вызов считается успешным. С forceDirect ошибка
// транспорта возвращается вызывающему. Отказ сервера в очередь не ставится.
func (g *Gateway) Submit(ctx context.Context, p entry.Payload, forceDirect bool) (Result, error) {
	if p == nil {
		return Result{}, entry.ErrInvalidPayload
	}
	if !p.Kind().Valid() {
		return Result{}, fmt.Errorf("%w: %q", entry.ErrUnknownKind, p.Kind())
	}

	// при повторной отправке автор уже проставлен и не меняется
	if p.Author() == "" {
		p = entry.Stamp(p, g.session.Current().UserName)
	}

	action := p.Kind().AddAction()
	resp, err := g.remote.Post(ctx, action, p)
	if err != nil {
		if forceDirect || !isTransport(err) {
			return Result{}, err
		}
		return g.enqueue(ctx, p, err)
	}

	if resp.Success {
		g.rememberLast(ctx, p, resp.ActualEntryTime)
	} else {
		g.log.Warn("Сервер отклонил запись",
			"kind", p.Kind(),
			"error", resp.Error,
		)
	}

	return Result{
		Success:         resp.Success,
		Error:           resp.Error,
		ActualEntryTime: resp.ActualEntryTime,
	}, nil
}

func (g *Gateway) SubmitJCB(ctx context.Context, p entry.JCB, forceDirect bool) (Result, error) {
	return g.Submit(ctx, p, forceDirect)
}

func (g *Gateway) SubmitTipper(ctx context.Context, p entry.Tipper, forceDirect bool) (Result, error) {
	return g.Submit(ctx, p, forceDirect)
}

func (g *Gateway) SubmitDiesel(ctx context.Context, p entry.Diesel, forceDirect bool) (Result, error) {
	return g.Submit(ctx, p, forceDirect)
}

func (g *Gateway) SubmitExpense(ctx context.Context, p entry.Expense, forceDirect bool) (Result, error) {
	return g.Submit(ctx, p, forceDirect)
}

// LastEntry последняя принятая сервером запись JCB или Tipper
func (g *Gateway) LastEntry(ctx context.Context, kind entry.Kind) (entry.Record, bool, error) {
	key, ok := lastEntryKey(kind)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q не хранит последнюю запись", entry.ErrUnknownKind, kind)
	}

	var rec entry.Record
	found, err := kv.GetJSON(ctx, g.store, key, &rec)
	if err != nil {
		return nil, false, err
	}
	return rec, found, nil
}

func (g *Gateway) enqueue(ctx context.Context, p entry.Payload, cause error) (Result, error) {
	e, err := g.queue.Enqueue(ctx, p)
	if err != nil {
		return Result{}, fmt.Errorf("сервер недоступен (%v), запись не сохранена: %w", cause, err)
	}

	g.log.Info("Сервер недоступен, запись поставлена в очередь",
		"kind", p.Kind(),
		"id", e.ID,
		"cause", cause,
	)
	return Result{Success: true, Queued: true}, nil
}

func (g *Gateway) rememberLast(ctx context.Context, p entry.Payload, actualEntryTime string) {
	key, ok := lastEntryKey(p.Kind())
	if !ok {
		return
	}

	fields, err := entry.Fields(p)
	if err != nil {
		g.log.Error("Не удалось подготовить последнюю запись", "error", err)
		return
	}
	fields["actualEntryTime"] = actualEntryTime

	if err := kv.SetJSON(ctx, g.store, key, fields); err != nil {
		g.log.Error("Не удалось сохранить последнюю запись", "kind", p.Kind(), "error", err)
	}
}

func lastEntryKey(kind entry.Kind) (string, bool) {
	switch kind {
	case entry.KindJCB:
		return kv.KeyLastJCBEntry, true
	case entry.KindTipper:
		return kv.KeyLastTipperEntry, true
	}
	return "", false
}

// isTransport ошибка доставки, а не ошибка в самом запросе
func isTransport(err error) bool {
	return errors.Is(err, remote.ErrTransport) ||
		errors.Is(err, context.DeadlineExceeded)
}
