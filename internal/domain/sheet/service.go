package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"sitelog/internal/domain/entry"
)

// служебные поля запроса, которые не попадают в данные строки
var reservedFields = []string{
	"sheetName", "originalEntryTime", "userName", "userRole", "actualEntryTime", "enteredBy",
}

type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time

	mu   sync.Mutex
	last time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "sheet_service"),
		now:  time.Now,
	}
}

// Add добавляет запись указанного типа и возвращает ее actualEntryTime
func (s *Service) Add(ctx context.Context, kind entry.Kind, data json.RawMessage) (string, error) {
	p, err := entry.Decode(kind, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if j, ok := p.(entry.JCB); ok {
		p = j.Normalize()
	}

	fields, err := entry.Fields(p)
	if err != nil {
		return "", err
	}
	author := p.Author()
	stripReserved(fields)

	row := Row{
		Sheet:     kind.Sheet(),
		EntryTime: s.nextEntryTime(),
		EnteredBy: author,
		Data:      fields,
	}
	if err := s.repo.Append(ctx, row); err != nil {
		return "", fmt.Errorf("append %s: %w", row.Sheet, err)
	}

	s.log.Debug("entry added", "sheet", row.Sheet, "entered_by", author)
	return FormatTime(row.EntryTime), nil
}

// List строки листа, видимые пользователю
func (s *Service) List(ctx context.Context, kind entry.Kind, userName string, role entry.Role) ([]entry.Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", entry.ErrUnknownKind, kind)
	}
	return s.list(ctx, kind.Sheet(), ScopeFor(userName, role))
}

// Update изменяет поля строки. Сотрудник может менять только свои записи.
func (s *Service) Update(ctx context.Context, sheetName, originalEntryTime, userName string, role entry.Role, fields entry.Record) error {
	if _, err := entry.KindBySheet(sheetName); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownSheet, sheetName)
	}

	at, err := ParseTime(originalEntryTime)
	if err != nil {
		return fmt.Errorf("%w: originalEntryTime: %v", ErrInvalidInput, err)
	}

	row, err := s.repo.Get(ctx, sheetName, at)
	if err != nil {
		return err
	}
	if !ScopeFor(userName, role).Match(row) {
		return ErrForbidden
	}

	data := make(entry.Record, len(row.Data)+len(fields))
	for k, v := range row.Data {
		data[k] = v
	}
	for k, v := range fields {
		data[k] = v
	}
	stripReserved(data)

	if err := s.repo.Update(ctx, sheetName, at, data); err != nil {
		return fmt.Errorf("update %s: %w", sheetName, err)
	}
	return nil
}

// Stats число записей JCB и Tipper и сумма долга по JCB
func (s *Service) Stats(ctx context.Context, userName string, role entry.Role) (entry.Stats, error) {
	scope := ScopeFor(userName, role)

	jcb, err := s.repo.List(ctx, entry.KindJCB.Sheet(), scope)
	if err != nil {
		return entry.Stats{}, err
	}
	tipper, err := s.repo.List(ctx, entry.KindTipper.Sheet(), scope)
	if err != nil {
		return entry.Stats{}, err
	}

	stats := entry.Stats{JCBCount: len(jcb), TipperCount: len(tipper)}
	for _, r := range jcb {
		stats.TotalDue += entry.Amount(r.Data["dueAmount"])
	}
	return stats, nil
}

// SubmitAttendance сохраняет отметку со статусом Pending
func (s *Service) SubmitAttendance(ctx context.Context, a entry.Attendance) (string, error) {
	if a.Type != entry.AttendanceIn && a.Type != entry.AttendanceOut {
		return "", fmt.Errorf("%w: attendance type %q", ErrInvalidInput, a.Type)
	}
	if a.EnteredBy == "" {
		return "", fmt.Errorf("%w: attendance without user", ErrInvalidInput)
	}

	fields := entry.Record{
		"type":         a.Type,
		"date":         a.Date,
		"time":         a.Time,
		"locationLink": a.LocationLink,
		"status":       StatusPending,
	}
	if a.Photo != "" {
		fields["photo"] = a.Photo
	}

	row := Row{
		Sheet:     AttendanceSheet,
		EntryTime: s.nextEntryTime(),
		EnteredBy: a.EnteredBy,
		Data:      fields,
	}
	if err := s.repo.Append(ctx, row); err != nil {
		return "", fmt.Errorf("append attendance: %w", err)
	}
	return FormatTime(row.EntryTime), nil
}

func (s *Service) Attendance(ctx context.Context, userName string, role entry.Role) ([]entry.Record, error) {
	return s.list(ctx, AttendanceSheet, ScopeFor(userName, role))
}

// ApproveAttendance переводит отметку в статус Approved
func (s *Service) ApproveAttendance(ctx context.Context, actualEntryTime string) error {
	at, err := ParseTime(actualEntryTime)
	if err != nil {
		return fmt.Errorf("%w: actualEntryTime: %v", ErrInvalidInput, err)
	}

	row, err := s.repo.Get(ctx, AttendanceSheet, at)
	if err != nil {
		return err
	}

	data := make(entry.Record, len(row.Data))
	for k, v := range row.Data {
		data[k] = v
	}
	data["status"] = StatusApproved

	return s.repo.Update(ctx, AttendanceSheet, at, data)
}

func (s *Service) list(ctx context.Context, sheetName string, scope Filter) ([]entry.Record, error) {
	rows, err := s.repo.List(ctx, sheetName, scope)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []entry.Record{}, nil
		}
		return nil, err
	}

	out := make([]entry.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record())
	}
	return out, nil
}

// nextEntryTime строго возрастающее время с точностью до микросекунды
func (s *Service) nextEntryTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().UTC().Truncate(time.Microsecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func stripReserved(r entry.Record) {
	for _, k := range reservedFields {
		delete(r, k)
	}
}
