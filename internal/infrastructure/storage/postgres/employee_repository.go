package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"sitelog/internal/domain/employee"
)

const uniqueViolation = "23505"

type EmployeeRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewEmployeeRepository(pool *pgxpool.Pool, log *slog.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		pool: pool,
		log:  log.With("component", "employee_repository"),
	}
}

func (r *EmployeeRepository) Create(ctx context.Context, name, passwordHash string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO employees (name, password_hash) VALUES ($1, $2) RETURNING id`,
		name, passwordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, employee.ErrAlreadyExists
		}
		r.log.Error("failed to create employee", "name", name, "error", err)
		return 0, fmt.Errorf("create employee: %w", err)
	}
	return id, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, password_hash, created_at FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	out := make([]employee.Employee, 0)
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.PasswordHash, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return out, nil
}
