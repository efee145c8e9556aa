package sheet

import (
	"time"

	"sitelog/internal/domain/entry"
)

// AttendanceSheet лист отметок посещаемости
const AttendanceSheet = "Attendance"

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
)

// TimeLayout формат actualEntryTime в ответах
const TimeLayout = time.RFC3339Nano

// Row строка листа. EntryTime уникален в пределах листа и служит ключом обновления.
type Row struct {
	Sheet     string
	EntryTime time.Time
	EnteredBy string
	Data      entry.Record
}

// Record строка в том виде, в котором ее получает клиент
func (r Row) Record() entry.Record {
	rec := make(entry.Record, len(r.Data)+2)
	for k, v := range r.Data {
		rec[k] = v
	}
	rec["actualEntryTime"] = FormatTime(r.EntryTime)
	if r.EnteredBy != "" {
		rec["enteredBy"] = r.EnteredBy
	}
	return rec
}

// Filter ограничение выборки
type Filter struct {
	All       bool
	EnteredBy string
}

// ScopeFor администратор видит все строки, остальные только свои
func ScopeFor(userName string, role entry.Role) Filter {
	if role == entry.RoleAdmin {
		return Filter{All: true}
	}
	return Filter{EnteredBy: userName}
}

func (f Filter) Match(r Row) bool {
	return f.All || f.EnteredBy == r.EnteredBy
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
