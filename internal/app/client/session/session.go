// Package session текущий пользователь клиента.
// Сессия читается из хранилища один раз при старте и дальше передается
// явно, а не перечитывается при каждом запросе.
package session

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"sitelog/internal/app/client/kv"
	"sitelog/internal/domain/entry"
)

// Session роль и имя вошедшего пользователя. Нулевое значение означает,
// что вход не выполнен, и это допустимое состояние.
type Session struct {
	Role     entry.Role `json:"role"`
	UserName string     `json:"userName"`
}

func (s Session) LoggedIn() bool {
	return s.UserName != ""
}

func (s Session) IsAdmin() bool {
	return s.Role == entry.RoleAdmin
}

// Provider источник текущей сессии для шлюза и кэша
type Provider interface {
	Current() Session
}

// Manager хранит сессию в памяти и синхронизирует ее с хранилищем при входе и выходе
type Manager struct {
	store   kv.Store
	log     *slog.Logger
	mu      sync.RWMutex
	current Session
}

// Load восстанавливает сохраненную сессию. Поврежденные значения
// трактуются как отсутствие сессии.
func Load(ctx context.Context, store kv.Store, log *slog.Logger) (*Manager, error) {
	m := &Manager{
		store: store,
		log:   log.With("component", "session"),
	}

	var role, name string
	if _, err := kv.GetJSON(ctx, store, kv.KeyUserRole, &role); err != nil {
		m.log.Warn("Не удалось прочитать роль пользователя", "error", err)
		return m, nil
	}
	if _, err := kv.GetJSON(ctx, store, kv.KeyUserName, &name); err != nil {
		m.log.Warn("Не удалось прочитать имя пользователя", "error", err)
		return m, nil
	}

	m.current = Session{Role: entry.Role(role), UserName: name}
	return m, nil
}

func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Login сохраняет сессию и делает ее текущей
func (m *Manager) Login(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := kv.SetJSON(ctx, m.store, kv.KeyUserRole, string(s.Role)); err != nil {
		return fmt.Errorf("ошибка сохранения роли: %w", err)
	}
	if err := kv.SetJSON(ctx, m.store, kv.KeyUserName, s.UserName); err != nil {
		return fmt.Errorf("ошибка сохранения имени: %w", err)
	}

	m.current = s
	m.log.Info("Сессия открыта", "user", s.UserName, "role", s.Role)
	return nil
}

// Logout удаляет сессию
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Remove(ctx, kv.KeyUserRole); err != nil {
		return fmt.Errorf("ошибка удаления роли: %w", err)
	}
	if err := m.store.Remove(ctx, kv.KeyUserName); err != nil {
		return fmt.Errorf("ошибка удаления имени: %w", err)
	}

	m.current = Session{}
	return nil
}

// Static неизменяемая сессия, удобна в тестах
type Static Session

func (s Static) Current() Session {
	return Session(s)
}
