// Операции сервера:
//
//	GET  /exec?action=...    # чтение, вход, сводка
//	POST /exec               # запись {action, data}
//	GET  /api/v1/health      # проверка состояния

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	execAPI "sitelog/internal/app/server/api/http/exec"
	healthAPI "sitelog/internal/app/server/api/http/health"
	"sitelog/internal/app/server/api/http/middleware"
	"sitelog/internal/app/server/api/http/middleware/logger"
	"sitelog/internal/app/server/api/http/middleware/ratelimit"
	"sitelog/internal/domain/employee"
	"sitelog/internal/domain/sheet"
)

// Deps хранилища и настройки, из которых собираются обработчики
type Deps struct {
	Sheets    sheet.Repository
	Employees employee.Repository
	Admin     employee.Admin
	Storage   string
	Limiter   *ratelimit.RateLimiter
}

type Handlers struct {
	Health *healthAPI.Handler
	Exec   *execAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(deps Deps, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("SiteLog API", "1.0.0")
	API := humachi.New(mux, config)

	h := handlers(deps, log)
	h.Health.SetupRoutes(API)
	h.Exec.SetupRoutes(API)

	return mux
}

func handlers(deps Deps, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer(loggerMW.Middleware())

	healthHandler := healthAPI.NewHandler(log, deps.Storage, middlewares.GetAllAndClear())

	sheetService := sheet.NewService(deps.Sheets, log)
	employeeService := employee.NewService(deps.Employees, employee.NewValidator(), deps.Admin, log)
	if deps.Limiter != nil {
		middlewares.Add(deps.Limiter.Middleware())
	}
	execHandler := execAPI.NewHandler(sheetService, employeeService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Exec:   execHandler,
	}
}
