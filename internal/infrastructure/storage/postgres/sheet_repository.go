package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"sitelog/internal/domain/entry"
	"sitelog/internal/domain/sheet"
)

type SheetRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewSheetRepository(pool *pgxpool.Pool, log *slog.Logger) *SheetRepository {
	return &SheetRepository{
		pool: pool,
		log:  log.With("component", "sheet_repository"),
	}
}

func (r *SheetRepository) Append(ctx context.Context, row sheet.Row) error {
	const query = `
		INSERT INTO sheet_rows (sheet, entry_time, entered_by, data)
		VALUES ($1, $2, $3, $4)`

	data, err := json.Marshal(row.Data)
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, row.Sheet, row.EntryTime, row.EnteredBy, data); err != nil {
		r.log.Error("failed to append row", "sheet", row.Sheet, "error", err)
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

func (r *SheetRepository) List(ctx context.Context, sheetName string, filter sheet.Filter) ([]sheet.Row, error) {
	const query = `
		SELECT sheet, entry_time, entered_by, data
		FROM sheet_rows
		WHERE sheet = $1 AND ($2 OR entered_by = $3)
		ORDER BY entry_time`

	rows, err := r.pool.Query(ctx, query, sheetName, filter.All, filter.EnteredBy)
	if err != nil {
		r.log.Error("failed to list rows", "sheet", sheetName, "error", err)
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rows.Close()

	out := make([]sheet.Row, 0)
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func (r *SheetRepository) Get(ctx context.Context, sheetName string, entryTime time.Time) (sheet.Row, error) {
	const query = `
		SELECT sheet, entry_time, entered_by, data
		FROM sheet_rows
		WHERE sheet = $1 AND entry_time = $2`

	row, err := scanRow(r.pool.QueryRow(ctx, query, sheetName, entryTime))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sheet.Row{}, sheet.ErrNotFound
		}
		r.log.Error("failed to get row", "sheet", sheetName, "error", err)
		return sheet.Row{}, fmt.Errorf("get row: %w", err)
	}
	return row, nil
}

func (r *SheetRepository) Update(ctx context.Context, sheetName string, entryTime time.Time, data entry.Record) error {
	const query = `
		UPDATE sheet_rows
		SET data = $3, updated_at = NOW()
		WHERE sheet = $1 AND entry_time = $2`

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, sheetName, entryTime, raw)
	if err != nil {
		r.log.Error("failed to update row", "sheet", sheetName, "error", err)
		return fmt.Errorf("update row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sheet.ErrNotFound
	}
	return nil
}

func scanRow(s pgx.Row) (sheet.Row, error) {
	var (
		row sheet.Row
		raw []byte
	)
	if err := s.Scan(&row.Sheet, &row.EntryTime, &row.EnteredBy, &raw); err != nil {
		return sheet.Row{}, err
	}

	row.EntryTime = row.EntryTime.UTC()
	row.Data = entry.Record{}
	if err := json.Unmarshal(raw, &row.Data); err != nil {
		return sheet.Row{}, fmt.Errorf("decode row data: %w", err)
	}
	return row, nil
}
