package employee

import (
	"time"

	"sitelog/internal/domain/entry"
)

type Employee struct {
	ID           int
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Record представление для списка сотрудников, без хэша пароля
func (e Employee) Record() entry.Record {
	return entry.Record{
		"id":        e.ID,
		"name":      e.Name,
		"createdAt": e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Identity результат входа
type Identity struct {
	Role entry.Role
	Name string
}
