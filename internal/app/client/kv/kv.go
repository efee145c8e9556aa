// Package kv долговременное хранилище строковых ключей клиента.
// Каждый вызов может обращаться к диску, поэтому все методы принимают контекст.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Ключи, которыми владеет клиент
const (
	KeySyncQueue       = "syncQueue"
	KeyJCBCache        = "jcbCache"
	KeyTipperCache     = "tipperCache"
	KeyDieselCache     = "dieselCache"
	KeyExpenseCache    = "expenseCache"
	KeyStatsCache      = "statsCache"
	KeyUserRole        = "userRole"
	KeyUserName        = "userName"
	KeyLastJCBEntry    = "lastJcbEntry"
	KeyLastTipperEntry = "lastTipperEntry"
	KeySyncStats       = "syncStats"
)

const (
	DriverSQLite  = "sqlite"
	DriverLevelDB = "leveldb"
	DriverMemory  = "memory"
)

var ErrClosed = errors.New("kv store is closed")

// Store хранилище ключ-значение, переживающее перезапуск процесса
type Store interface {
	// Get возвращает значение и признак его наличия
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open открывает хранилище выбранного типа
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		return NewSQLiteStore(path)
	case DriverLevelDB:
		return NewLevelDBStore(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища: %s", driver)
	}
}

// GetJSON читает значение и разбирает его в dst. Возвращает false, если ключа нет.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("ошибка разбора значения %s: %w", key, err)
	}
	return true, nil
}

// SetJSON сериализует значение и сохраняет его целиком
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ошибка сериализации значения %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
