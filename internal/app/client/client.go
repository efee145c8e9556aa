// Package client собирает ядро клиента: хранилище, сессию, очередь,
// кэш, шлюз отправки и повтор очереди.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/jpillora/backoff"
	"golang.org/x/exp/slog"

	"sitelog/internal/app/client/cache"
	"sitelog/internal/app/client/config"
	"sitelog/internal/app/client/drain"
	"sitelog/internal/app/client/gateway"
	"sitelog/internal/app/client/kv"
	"sitelog/internal/app/client/queue"
	"sitelog/internal/app/client/remote"
	"sitelog/internal/app/client/session"
	"sitelog/internal/domain/entry"
)

type App struct {
	config  *config.Config
	log     *slog.Logger
	store   kv.Store
	session *session.Manager
	remote  *remote.HTTPClient
	queue   *queue.Queue
	reader  *cache.Reader
	gateway *gateway.Gateway
	drain   *drain.Worker
}

// SyncStatus состояние очереди для команды sync --status
type SyncStatus struct {
	Pending int             `json:"pending"`
	Stats   drain.SyncStats `json:"stats"`
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := kv.Open(cfg.StorageDriver, cfg.DataPath)
	if err != nil {
		log.Warn("Не удалось открыть хранилище, используем память",
			"driver", cfg.StorageDriver,
			"path", cfg.DataPath,
			"error", err,
		)
		store = kv.NewMemoryStore()
	}

	app, err := NewWithStore(ctx, cfg, store, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

// NewWithStore собирает приложение поверх готового хранилища
func NewWithStore(ctx context.Context, cfg *config.Config, store kv.Store, log *slog.Logger) (*App, error) {
	httpCl, err := remote.NewHTTPClient(cfg.Endpoint, cfg.RequestTimeout, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	sess, err := session.Load(ctx, store, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки сессии: %w", err)
	}

	q := queue.New(store, log)
	gw := gateway.New(httpCl, q, store, sess, log)

	return &App{
		config:  cfg,
		log:     log,
		store:   store,
		session: sess,
		remote:  httpCl,
		queue:   q,
		reader:  cache.NewReader(store, httpCl, sess, log),
		gateway: gw,
		drain:   drain.New(q, gw, store, cfg.QueueMaxAttempts, log),
	}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// Session текущий пользователь
func (a *App) Session() session.Session {
	return a.session.Current()
}

// CheckConnection проверяет доступность сервера с повторами
func (a *App) CheckConnection(ctx context.Context) error {
	retries := a.config.HealthRetries
	if retries < 1 {
		retries = 1
	}

	b := &backoff.Backoff{
		Min:    a.config.HealthBackoff,
		Max:    10 * a.config.HealthBackoff,
		Factor: 2,
		Jitter: true,
	}

	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		if err = a.remote.Ping(ctx); err == nil {
			return nil
		}
		if attempt == retries {
			break
		}

		d := b.Duration()
		a.log.Debug("Сервер недоступен, повтор", "attempt", attempt, "wait", d, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}

	return fmt.Errorf("сервер недоступен после %d попыток: %w", retries, err)
}

// Login проверяет пароль на сервере и сохраняет сессию.
// После входа очередь отправляется, если связь есть.
func (a *App) Login(ctx context.Context, password string) (session.Session, error) {
	resp, err := a.remote.Login(ctx, password)
	if err != nil {
		return session.Session{}, err
	}
	if !resp.Success {
		if resp.Error != "" {
			return session.Session{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, resp.Error)
		}
		return session.Session{}, ErrInvalidCredentials
	}

	s := session.Session{Role: entry.Role(resp.Role), UserName: resp.Name}
	if err := a.session.Login(ctx, s); err != nil {
		return session.Session{}, err
	}

	a.log.Info("Вход выполнен успешно", "user", s.UserName, "role", s.Role)
	a.drainQuietly(ctx)

	return s, nil
}

func (a *App) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// Submit отправляет запись или ставит ее в очередь
func (a *App) Submit(ctx context.Context, p entry.Payload) (gateway.Result, error) {
	if j, ok := p.(entry.JCB); ok {
		p = j.Normalize()
	}
	return a.gateway.Submit(ctx, p, false)
}

// UpdateEntry изменяет отправленную запись, только при наличии связи
func (a *App) UpdateEntry(ctx context.Context, kind entry.Kind, originalEntryTime string, fields entry.Record) (gateway.Result, error) {
	if !kind.Valid() {
		return gateway.Result{}, fmt.Errorf("%w: %q", entry.ErrUnknownKind, kind)
	}
	return a.gateway.UpdateEntry(ctx, kind.Sheet(), originalEntryTime, fields), nil
}

// LastEntry последняя принятая запись для быстрого редактирования
func (a *App) LastEntry(ctx context.Context, kind entry.Kind) (entry.Record, bool, error) {
	return a.gateway.LastEntry(ctx, kind)
}

// Entries список записей, при отсутствии связи из кэша
func (a *App) Entries(ctx context.Context, kind entry.Kind) (cache.Result[[]entry.Record], error) {
	return a.reader.Entries(ctx, kind)
}

// QuickStats сводка главного экрана. Перед чтением отправляет очередь.
func (a *App) QuickStats(ctx context.Context) cache.Result[entry.Stats] {
	a.drainQuietly(ctx)
	return a.reader.QuickStats(ctx)
}

// Drain отправляет очередь
func (a *App) Drain(ctx context.Context) (drain.Report, error) {
	return a.drain.Drain(ctx)
}

func (a *App) SyncStatus(ctx context.Context) (SyncStatus, error) {
	pending, err := a.queue.Len(ctx)
	if err != nil {
		return SyncStatus{}, err
	}

	stats, err := a.drain.Stats(ctx)
	if err != nil {
		return SyncStatus{}, err
	}

	return SyncStatus{Pending: pending, Stats: stats}, nil
}

// ResetSync очищает очередь и статистику. Неотправленные записи теряются.
func (a *App) ResetSync(ctx context.Context) error {
	if err := a.queue.ClearAll(ctx); err != nil {
		return err
	}
	if err := a.drain.ResetStats(ctx); err != nil {
		return err
	}

	a.log.Warn("Очередь синхронизации очищена вручную")
	return nil
}

func (a *App) SubmitAttendance(ctx context.Context, att entry.Attendance) (gateway.Result, error) {
	if !a.Session().LoggedIn() {
		return gateway.Result{}, ErrNotLoggedIn
	}
	return a.gateway.SubmitAttendance(ctx, att), nil
}

// Attendance отметки посещаемости; сотрудник видит только свои
func (a *App) Attendance(ctx context.Context) ([]entry.Record, error) {
	if !a.Session().LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return a.fetchList(ctx, "getAttendance")
}

func (a *App) ApproveAttendance(ctx context.Context, actualEntryTime string) (gateway.Result, error) {
	if !a.Session().IsAdmin() {
		return gateway.Result{}, ErrAdminOnly
	}
	return a.gateway.ApproveAttendance(ctx, actualEntryTime), nil
}

func (a *App) Employees(ctx context.Context) ([]entry.Record, error) {
	if !a.Session().IsAdmin() {
		return nil, ErrAdminOnly
	}
	return a.fetchList(ctx, "getEmployees")
}

func (a *App) AddEmployee(ctx context.Context, name, password string) (gateway.Result, error) {
	if !a.Session().IsAdmin() {
		return gateway.Result{}, ErrAdminOnly
	}
	return a.gateway.AddEmployee(ctx, name, password), nil
}

// drainQuietly отправляет очередь попутно с другой операцией. Без связи
// проход не начинается, иначе записи тратили бы попытки впустую.
func (a *App) drainQuietly(ctx context.Context) {
	pending, err := a.queue.Len(ctx)
	if err != nil || pending == 0 {
		return
	}

	if err := a.remote.Ping(ctx); err != nil {
		a.log.Debug("Сервер недоступен, очередь не отправляется", "pending", pending, "error", err)
		return
	}

	if _, err := a.drain.Drain(ctx); err != nil {
		a.log.Warn("Не удалось отправить очередь", "error", err)
	}
}

func (a *App) fetchList(ctx context.Context, action string) ([]entry.Record, error) {
	s := a.Session()
	params := url.Values{}
	params.Set("userName", s.UserName)
	params.Set("role", string(s.Role))

	resp, err := a.remote.Get(ctx, action, params)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", remote.ErrRejected, resp.Error)
	}

	rows := []entry.Record{}
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &rows); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", remote.ErrTransport, action, err)
		}
	}
	if rows == nil {
		rows = []entry.Record{}
	}
	return rows, nil
}
