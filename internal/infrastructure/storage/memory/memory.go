// Package memory хранилище сервера в памяти процесса, для разработки и тестов.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"sitelog/internal/domain/employee"
	"sitelog/internal/domain/entry"
	"sitelog/internal/domain/sheet"
)

type SheetRepository struct {
	mu   sync.RWMutex
	rows map[string][]sheet.Row
}

func NewSheetRepository() *SheetRepository {
	return &SheetRepository{rows: make(map[string][]sheet.Row)}
}

func (r *SheetRepository) Append(_ context.Context, row sheet.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row.Data = copyRecord(row.Data)
	r.rows[row.Sheet] = append(r.rows[row.Sheet], row)
	return nil
}

func (r *SheetRepository) List(_ context.Context, sheetName string, filter sheet.Filter) ([]sheet.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sheet.Row, 0)
	for _, row := range r.rows[sheetName] {
		if filter.Match(row) {
			row.Data = copyRecord(row.Data)
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *SheetRepository) Get(_ context.Context, sheetName string, entryTime time.Time) (sheet.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows[sheetName] {
		if row.EntryTime.Equal(entryTime) {
			row.Data = copyRecord(row.Data)
			return row, nil
		}
	}
	return sheet.Row{}, sheet.ErrNotFound
}

func (r *SheetRepository) Update(_ context.Context, sheetName string, entryTime time.Time, data entry.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.rows[sheetName]
	for i := range rows {
		if rows[i].EntryTime.Equal(entryTime) {
			rows[i].Data = copyRecord(data)
			return nil
		}
	}
	return sheet.ErrNotFound
}

type EmployeeRepository struct {
	mu        sync.RWMutex
	employees []employee.Employee
	now       func() time.Time
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{now: time.Now}
}

func (r *EmployeeRepository) Create(_ context.Context, name, passwordHash string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.employees {
		if strings.EqualFold(e.Name, name) {
			return 0, employee.ErrAlreadyExists
		}
	}

	id := len(r.employees) + 1
	r.employees = append(r.employees, employee.Employee{
		ID:           id,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    r.now().UTC(),
	})
	return id, nil
}

func (r *EmployeeRepository) List(_ context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]employee.Employee, len(r.employees))
	copy(out, r.employees)
	return out, nil
}

func copyRecord(r entry.Record) entry.Record {
	out := make(entry.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
