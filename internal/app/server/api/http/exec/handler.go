package exec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"sitelog/internal/domain/employee"
	"sitelog/internal/domain/entry"
	"sitelog/internal/domain/sheet"
)

type SheetService interface {
	Add(ctx context.Context, kind entry.Kind, data json.RawMessage) (string, error)
	List(ctx context.Context, kind entry.Kind, userName string, role entry.Role) ([]entry.Record, error)
	Update(ctx context.Context, sheetName, originalEntryTime, userName string, role entry.Role, fields entry.Record) error
	Stats(ctx context.Context, userName string, role entry.Role) (entry.Stats, error)
	SubmitAttendance(ctx context.Context, a entry.Attendance) (string, error)
	Attendance(ctx context.Context, userName string, role entry.Role) ([]entry.Record, error)
	ApproveAttendance(ctx context.Context, actualEntryTime string) error
}

type EmployeeService interface {
	Authenticate(ctx context.Context, password string) (employee.Identity, error)
	Add(ctx context.Context, name, password string) (int, error)
	List(ctx context.Context) ([]entry.Record, error)
}

type Handler struct {
	sheets     SheetService
	employees  EmployeeService
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(sheets SheetService, employees EmployeeService, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		sheets:     sheets,
		employees:  employees,
		log:        log.With("component", "exec_handler"),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.postOp(), h.post)
}

func (h *Handler) get(ctx context.Context, in *GetInput) (*Output, error) {
	role := entry.Role(in.Role)

	switch in.Action {
	case "ping":
		return ok(nil), nil
	case "login":
		return h.login(ctx, in.Password), nil
	case "getStats":
		stats, err := h.sheets.Stats(ctx, in.UserName, role)
		return h.result(in.Action, stats, err)
	case "getAttendance":
		rows, err := h.sheets.Attendance(ctx, in.UserName, role)
		return h.result(in.Action, rows, err)
	case "getEmployees":
		if role != entry.RoleAdmin {
			return fail("admin only"), nil
		}
		rows, err := h.employees.List(ctx)
		return h.result(in.Action, rows, err)
	}

	if kind, found := kindFor(in.Action, "get"); found {
		rows, err := h.sheets.List(ctx, kind, in.UserName, role)
		return h.result(in.Action, rows, err)
	}

	return fail(fmt.Sprintf("unknown action %q", in.Action)), nil
}

func (h *Handler) post(ctx context.Context, in *PostInput) (*Output, error) {
	action := in.Body.Action
	data := in.Body.Data
	if data == nil {
		data = map[string]any{}
	}

	switch action {
	case "updateEntry":
		err := h.sheets.Update(ctx,
			str(data, "sheetName"),
			str(data, "originalEntryTime"),
			str(data, "userName"),
			entry.Role(str(data, "userRole")),
			entry.Record(data),
		)
		return h.result(action, nil, err)

	case "submitAttendance":
		var a entry.Attendance
		if err := remarshal(data, &a); err != nil {
			return fail(err.Error()), nil
		}
		at, err := h.sheets.SubmitAttendance(ctx, a)
		if err != nil {
			return h.result(action, nil, err)
		}
		out := ok(nil)
		out.Body.ActualEntryTime = at
		return out, nil

	case "approveAttendance":
		err := h.sheets.ApproveAttendance(ctx, str(data, "actualEntryTime"))
		return h.result(action, nil, err)

	case "addEmployee":
		id, err := h.employees.Add(ctx, str(data, "name"), str(data, "password"))
		return h.result(action, map[string]int{"id": id}, err)
	}

	if kind, found := kindFor(action, "add"); found {
		raw, err := json.Marshal(data)
		if err != nil {
			return fail(err.Error()), nil
		}
		at, err := h.sheets.Add(ctx, kind, raw)
		if err != nil {
			return h.result(action, nil, err)
		}
		out := ok(nil)
		out.Body.ActualEntryTime = at
		return out, nil
	}

	return fail(fmt.Sprintf("unknown action %q", action)), nil
}

func (h *Handler) login(ctx context.Context, password string) *Output {
	id, err := h.employees.Authenticate(ctx, password)
	if err != nil {
		if !errors.Is(err, employee.ErrInvalidAuth) {
			h.log.Error("login failed", "error", err)
		}
		return fail("Invalid password")
	}

	return &Output{Body: Envelope{Success: true, Role: string(id.Role), Name: id.Name}}
}

// result ошибки предметной области становятся отказом, прочие логируются
func (h *Handler) result(action string, data any, err error) (*Output, error) {
	if err == nil {
		return ok(data), nil
	}

	switch {
	case errors.Is(err, sheet.ErrNotFound),
		errors.Is(err, sheet.ErrForbidden),
		errors.Is(err, sheet.ErrInvalidInput),
		errors.Is(err, sheet.ErrUnknownSheet),
		errors.Is(err, entry.ErrUnknownKind),
		errors.Is(err, employee.ErrInvalidInput),
		errors.Is(err, employee.ErrAlreadyExists):
		return fail(err.Error()), nil
	}

	h.log.Error("action failed", "action", action, "error", err)
	return nil, huma.Error500InternalServerError("internal error")
}

// kindFor addJCB -> jcb, getTipper -> tipper
func kindFor(action, prefix string) (entry.Kind, bool) {
	for _, k := range entry.Kinds {
		if prefix == "add" && k.AddAction() == action {
			return k, true
		}
		if prefix == "get" && k.GetAction() == action {
			return k, true
		}
	}
	return "", false
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func remarshal(src, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
