package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitelog/cmd/client/cmd/output"
	"sitelog/cmd/client/cmd/types"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти",
	Long:  `Удаляет сохраненные имя и роль. Очередь неотправленных записей не очищается.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		if err := app.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("ошибка выхода: %w", err)
		}

		output.OK("Выход выполнен")
		return nil
	},
}

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Текущий пользователь",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		s := app.Session()
		if output.JSON() {
			return output.PrintJSON(s)
		}
		if !s.LoggedIn() {
			output.Warn("Вход не выполнен")
			return nil
		}

		output.Line("%s (%s)", s.UserName, s.Role)
		return nil
	},
}
