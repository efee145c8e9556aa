package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sitelog/internal/app/server/api"
	"sitelog/internal/app/server/api/http/middleware/ratelimit"
	"sitelog/internal/app/server/config"
	"sitelog/internal/domain/employee"
	"sitelog/internal/infrastructure/storage/memory"
	"sitelog/internal/infrastructure/storage/postgres"
	"sitelog/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.NewWithFile(cfg.Env, logger.FileOptions{Path: cfg.Logger.LogFile})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := api.Deps{
		Admin:   employee.Admin{Name: cfg.AdminName, Password: cfg.AdminPassword},
		Storage: cfg.StorageDriver,
		Limiter: ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window, log),
	}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		storage, err := postgres.New(ctx, cfg, log)
		if err != nil {
			log.Error("failed to init storage", "error", err)
			os.Exit(1)
		}
		defer storage.Close()

		deps.Sheets = postgres.NewSheetRepository(storage.Pool(), log)
		deps.Employees = postgres.NewEmployeeRepository(storage.Pool(), log)
	default:
		log.Warn("using in-memory storage, data is lost on restart")
		deps.Sheets = memory.NewSheetRepository()
		deps.Employees = memory.NewEmployeeRepository()
	}

	go deps.Limiter.Run(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.RunAddress,
		Handler:      api.New(deps, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting server", "address", cfg.Server.RunAddress, "env", cfg.Env, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}

