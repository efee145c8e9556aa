package gateway

import (
	"context"

	"sitelog/internal/domain/entry"
)

// Операции ниже выполняются только при наличии связи и не ставятся в очередь.

// UpdateEntry изменяет ранее отправленную запись. Ключ записи пара
// (sheet, originalEntryTime).
func (g *Gateway) UpdateEntry(ctx context.Context, sheet, originalEntryTime string, fields entry.Record) Result {
	s := g.session.Current()

	data := entry.Record{}
	for k, v := range fields {
		data[k] = v
	}
	data["sheetName"] = sheet
	data["originalEntryTime"] = originalEntryTime
	data["userName"] = s.UserName
	data["userRole"] = string(s.Role)

	return g.call(ctx, "updateEntry", data)
}

// SubmitAttendance отметка прихода или ухода
func (g *Gateway) SubmitAttendance(ctx context.Context, a entry.Attendance) Result {
	if a.EnteredBy == "" {
		a.EnteredBy = g.session.Current().UserName
	}
	return g.call(ctx, "submitAttendance", a)
}

// ApproveAttendance подтверждение отметки администратором
func (g *Gateway) ApproveAttendance(ctx context.Context, actualEntryTime string) Result {
	return g.call(ctx, "approveAttendance", map[string]string{
		"actualEntryTime": actualEntryTime,
	})
}

// AddEmployee добавление сотрудника администратором
func (g *Gateway) AddEmployee(ctx context.Context, name, password string) Result {
	return g.call(ctx, "addEmployee", map[string]string{
		"name":     name,
		"password": password,
	})
}

func (g *Gateway) call(ctx context.Context, action string, data any) Result {
	resp, err := g.remote.Post(ctx, action, data)
	if err != nil {
		g.log.Error("Операция не выполнена", "action", action, "error", err)
		return Result{Success: false, Error: ConnectionFailure}
	}

	return Result{
		Success:         resp.Success,
		Error:           resp.Error,
		ActualEntryTime: resp.ActualEntryTime,
	}
}
