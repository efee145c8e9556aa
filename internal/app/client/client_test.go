package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitelog/internal/app/client/config"
	"sitelog/internal/app/client/kv"
	"sitelog/internal/app/server/api"
	"sitelog/internal/domain/employee"
	"sitelog/internal/domain/entry"
	"sitelog/internal/infrastructure/storage/memory"
	"sitelog/internal/utils/logger"
)

// newTestApp поднимает сервер на памяти. Пока offline выставлен,
// сервер отвечает 503, что для клиента равно отсутствию связи.
func newTestApp(t *testing.T) (*App, *atomic.Bool) {
	t.Helper()

	mux := api.New(api.Deps{
		Sheets:    memory.NewSheetRepository(),
		Employees: memory.NewEmployeeRepository(),
		Admin:     employee.Admin{Name: "Admin", Password: "boss-pass"},
		Storage:   "memory",
	}, logger.Discard())

	offline := &atomic.Bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if offline.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Env:              "local",
		Endpoint:         srv.URL + "/exec",
		StorageDriver:    "memory",
		RequestTimeout:   5 * time.Second,
		QueueMaxAttempts: 1,
		HealthRetries:    1,
		HealthBackoff:    time.Millisecond,
	}

	app, err := NewWithStore(context.Background(), cfg, kv.NewMemoryStore(), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return app, offline
}

func TestApp_LoginSubmitAndStats(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t)

	s, err := app.Login(ctx, "boss-pass")
	require.NoError(t, err)
	assert.Equal(t, entry.RoleAdmin, s.Role)
	assert.Equal(t, "Admin", s.UserName)

	res, err := app.Submit(ctx, entry.JCB{GadiNo: "JCB-7", TipCount: "3", Rate: "1000", ReceivedAmount: "1000"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Queued)
	assert.NotEmpty(t, res.ActualEntryTime)

	stats := app.QuickStats(ctx)
	assert.True(t, stats.Fresh)
	assert.Equal(t, 1, stats.Data.JCBCount)
	assert.InDelta(t, 2000, stats.Data.TotalDue, 0.001)

	last, ok, err := app.LastEntry(ctx, entry.KindJCB)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Admin", last["enteredBy"])
	assert.Equal(t, res.ActualEntryTime, last["actualEntryTime"])

	upd, err := app.UpdateEntry(ctx, entry.KindJCB, res.ActualEntryTime, entry.Record{"dueAmount": "0"})
	require.NoError(t, err)
	assert.True(t, upd.Success, upd.Error)

	stats = app.QuickStats(ctx)
	assert.InDelta(t, 0, stats.Data.TotalDue, 0.001)
}

func TestApp_InvalidPassword(t *testing.T) {
	app, _ := newTestApp(t)

	_, err := app.Login(context.Background(), "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, app.Session().LoggedIn())
}

func TestApp_OfflineSubmitIsQueuedAndReplayed(t *testing.T) {
	ctx := context.Background()
	app, offline := newTestApp(t)

	_, err := app.Login(ctx, "boss-pass")
	require.NoError(t, err)

	listed, err := app.Entries(ctx, entry.KindTipper)
	require.NoError(t, err)
	assert.True(t, listed.Fresh)
	assert.Empty(t, listed.Data)

	offline.Store(true)

	res, err := app.Submit(ctx, entry.Tipper{GadiNo: "T-1", Material: "Sand"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Queued)

	status, err := app.SyncStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Pending)

	listed, err = app.Entries(ctx, entry.KindTipper)
	require.NoError(t, err)
	assert.False(t, listed.Fresh)
	assert.True(t, listed.Cached)

	require.Error(t, app.CheckConnection(ctx))

	offline.Store(false)
	require.NoError(t, app.CheckConnection(ctx))

	report, err := app.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Replayed)
	assert.Equal(t, 0, report.Failed)

	status, err = app.SyncStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Pending)
	assert.Equal(t, 1, status.Stats.TotalUploaded)

	listed, err = app.Entries(ctx, entry.KindTipper)
	require.NoError(t, err)
	require.Len(t, listed.Data, 1)
	assert.Equal(t, "Admin", listed.Data[0]["enteredBy"])
	assert.Equal(t, "Sand", listed.Data[0]["material"])
}

func TestApp_EmployeeScopeAndAdminOnly(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t)

	_, err := app.Employees(ctx)
	require.ErrorIs(t, err, ErrAdminOnly)

	_, err = app.Login(ctx, "boss-pass")
	require.NoError(t, err)

	res, err := app.AddEmployee(ctx, "Ravi", "4821")
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)

	_, err = app.Submit(ctx, entry.Diesel{GadiNo: "T-1", DieselLtr: "40"})
	require.NoError(t, err)

	employees, err := app.Employees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Ravi", employees[0]["name"])

	require.NoError(t, app.Logout(ctx))

	s, err := app.Login(ctx, "4821")
	require.NoError(t, err)
	assert.Equal(t, entry.RoleEmployee, s.Role)

	_, err = app.Submit(ctx, entry.Diesel{GadiNo: "T-2", DieselLtr: "25"})
	require.NoError(t, err)

	own, err := app.Entries(ctx, entry.KindDiesel)
	require.NoError(t, err)
	require.Len(t, own.Data, 1)
	assert.Equal(t, "Ravi", own.Data[0]["enteredBy"])

	_, err = app.ApproveAttendance(ctx, "2024-01-01T00:00:00Z")
	require.ErrorIs(t, err, ErrAdminOnly)

	att, err := app.SubmitAttendance(ctx, entry.Attendance{Type: entry.AttendanceIn, Date: "2024-05-01", Time: "08:00:00"})
	require.NoError(t, err)
	require.True(t, att.Success, att.Error)

	marks, err := app.Attendance(ctx)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, "Ravi", marks[0]["enteredBy"])
}

func TestApp_StatsRefreshOfflineKeepsQueue(t *testing.T) {
	ctx := context.Background()
	app, offline := newTestApp(t)

	_, err := app.Login(ctx, "boss-pass")
	require.NoError(t, err)

	offline.Store(true)

	res, err := app.Submit(ctx, entry.Tipper{GadiNo: "T-9", Material: "Gravel"})
	require.NoError(t, err)
	require.True(t, res.Queued)

	stats := app.QuickStats(ctx)
	assert.False(t, stats.Fresh)

	status, err := app.SyncStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Pending)
	assert.Zero(t, status.Stats.TotalDropped)
	assert.Zero(t, status.Stats.TotalSyncs)

	offline.Store(false)

	stats = app.QuickStats(ctx)
	assert.True(t, stats.Fresh)
	assert.Equal(t, 1, stats.Data.TipperCount)

	status, err = app.SyncStatus(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.Pending)
	assert.Equal(t, 1, status.Stats.TotalUploaded)
}
