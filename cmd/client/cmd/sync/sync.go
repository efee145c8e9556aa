package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"sitelog/cmd/client/cmd/output"
	"sitelog/cmd/client/cmd/types"
	"sitelog/internal/app/client"
)

var (
	syncStatus bool
	resetSync  bool
	skipCheck  bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Отправить очередь неотправленных записей",
	Long: `Отправляет на сервер записи, сохраненные без связи.

Записи отправляются по порядку. Запись, которую не удалось отправить,
удаляется из очереди после исчерпания попыток (queue_max_attempts),
об этом пишется предупреждение в журнал.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		if syncStatus {
			return showSyncStatus(cmd.Context(), app)
		}

		if resetSync {
			return resetQueue(cmd.Context(), app)
		}

		return runSync(cmd.Context(), app)
	},
}

func runSync(ctx context.Context, app *client.App) error {
	if !skipCheck {
		if err := app.CheckConnection(ctx); err != nil {
			return fmt.Errorf("сервер недоступен, записи остаются в очереди: %w", err)
		}
	}

	report, err := app.Drain(ctx)
	if err != nil {
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}

	if output.JSON() {
		return output.PrintJSON(report)
	}

	if report.Attempted == 0 && report.Skipped == 0 {
		output.OK("Очередь пуста")
		return nil
	}

	output.OK("Синхронизация завершена за %v", report.Duration.Round(time.Millisecond))
	output.Line("Отправлено:        %d из %d", report.Replayed, report.Attempted)
	if report.Failed > 0 {
		output.Warn("Ошибок:            %d", report.Failed)
	}
	if report.Kept > 0 {
		output.Line("Оставлено для повтора: %d", report.Kept)
	}
	if report.Dropped > 0 {
		output.Warn("Удалено без отправки: %d", report.Dropped)
	}
	if report.Skipped > 0 {
		output.Warn("Прервано, осталось в очереди: %d", report.Skipped)
	}
	return nil
}

func showSyncStatus(ctx context.Context, app *client.App) error {
	status, err := app.SyncStatus(ctx)
	if err != nil {
		return err
	}

	if output.JSON() {
		return output.PrintJSON(status)
	}

	stats := status.Stats
	output.Line("📦 В очереди: %d", status.Pending)
	output.Line("")
	output.Line("📊 Статистика:")
	output.Line("  Всего синхронизаций: %d", stats.TotalSyncs)
	output.Line("  Отправлено записей:  %d", stats.TotalUploaded)
	output.Line("  Ошибок отправки:     %d", stats.TotalErrors)
	output.Line("  Удалено из очереди:  %d", stats.TotalDropped)
	output.Line("  Среднее время:       %.2f сек", stats.AvgSyncDuration)

	if !stats.LastSuccessful.IsZero() {
		output.Line("  Последняя успешная:  %s", humanize.Time(stats.LastSuccessful))
	}
	if !stats.LastFailed.IsZero() {
		output.Line("  Последняя с ошибкой: %s", humanize.Time(stats.LastFailed))
	}

	// Проверяем соединение с сервером
	if err := app.CheckConnection(ctx); err != nil {
		output.Fail("Соединение с сервером: %v", err)
	} else {
		output.OK("Соединение с сервером")
	}

	if s := app.Session(); s.LoggedIn() {
		output.OK("Пользователь: %s (%s)", s.UserName, s.Role)
	} else {
		output.Warn("Вход не выполнен")
	}
	return nil
}

func resetQueue(ctx context.Context, app *client.App) error {
	if err := app.ResetSync(ctx); err != nil {
		return err
	}
	output.OK("Очередь и статистика синхронизации очищены")
	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "показать статус очереди")
	SyncCmd.Flags().BoolVar(&resetSync, "reset", false, "очистить очередь и статистику без отправки")
	SyncCmd.Flags().BoolVar(&skipCheck, "no-check", false, "не проверять доступность сервера перед отправкой")
}
