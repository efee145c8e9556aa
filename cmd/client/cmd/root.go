// cmd/client/cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"sitelog/cmd/client/cmd/attendance"
	"sitelog/cmd/client/cmd/auth"
	"sitelog/cmd/client/cmd/employee"
	"sitelog/cmd/client/cmd/entry"
	"sitelog/cmd/client/cmd/output"
	"sitelog/cmd/client/cmd/sync"
	"sitelog/cmd/client/cmd/types"
	"sitelog/internal/app/client"
	"sitelog/internal/app/client/config"
	"sitelog/internal/utils/logger"
)

var (
	cfgFile    string
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	debug      bool
	jsonOutput bool
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "sitelog",
	Short: "sitelog - журнал работ на объекте",
	Long: `sitelog: клиент для учета работы техники на объекте:
смены экскаватора (JCB), рейсы самосвалов, заправки и расходы.

Записи отправляются на сервер сразу. Если связи нет, запись сохраняется
в локальную очередь и отправляется позже командой sync или при входе.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	output.SetJSON(jsonOutput)

	// Загружаем конфигурацию
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.Endpoint = serverURL
	}
	if debug && cfg.IsProd() {
		cfg.Env = "dev"
	}

	log = logger.NewWithFile(cfg.Env, logger.FileOptions{Path: cfg.LogFile})

	app, err = client.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	return app.Close()
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Ищем конфиг в стандартных местах
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		viper.AddConfigPath(filepath.Join(home, ".sitelog"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
		// Конфиг не найден, используем значения по умолчанию
	}

	return config.Load()
}

func init() {
	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес RPC сервера")

	rootCmd.AddCommand(
		auth.AuthCmd,
		entry.EntryCmd,
		statsCmd,
		sync.SyncCmd,
		attendance.AttendanceCmd,
		employee.EmployeeCmd,
	)
}
