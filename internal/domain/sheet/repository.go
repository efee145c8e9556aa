package sheet

import (
	"context"
	"time"

	"sitelog/internal/domain/entry"
)

type Repository interface {
	Append(ctx context.Context, row Row) error
	List(ctx context.Context, sheet string, filter Filter) ([]Row, error)
	Get(ctx context.Context, sheet string, entryTime time.Time) (Row, error)
	// Update заменяет данные строки целиком
	Update(ctx context.Context, sheet string, entryTime time.Time, data entry.Record) error
}
