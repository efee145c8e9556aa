package logger

import (
	"io"
	"os"

	"golang.org/x/exp/slog"
	"gopkg.in/natefinch/lumberjack.v2"

	"sitelog/internal/utils/logger/handlers/slogpretty"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// FileOptions параметры ротации файла журнала
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New создает логгер в зависимости от окружения
func New(env string) *slog.Logger {
	return newLogger(env, os.Stdout)
}

// NewWithFile пишет журнал в файл с ротацией. Для local окружения
// вывод дублируется в консоль в читаемом виде.
func NewWithFile(env string, opts FileOptions) *slog.Logger {
	if opts.Path == "" {
		return New(env)
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    orDefault(opts.MaxSizeMB, 10),
		MaxBackups: orDefault(opts.MaxBackups, 3),
		MaxAge:     orDefault(opts.MaxAgeDays, 28),
		Compress:   true,
	}

	return slog.New(slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: levelFor(env)}))
}

func newLogger(env string, out io.Writer) *slog.Logger {
	switch env {
	case envLocal:
		return setupPrettySlog()
	case envDev:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	return slog.New(opts.NewPrettyHandler(os.Stdout))
}

func levelFor(env string) slog.Level {
	if env == envProd {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Discard логгер, который ничего не пишет
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
