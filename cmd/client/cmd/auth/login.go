// cmd/client/cmd/auth/login.go
package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitelog/cmd/client/cmd/output"
	"sitelog/cmd/client/cmd/types"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти по паролю",
	Long: `Проверяет пароль на сервере и сохраняет имя и роль локально.

После входа накопленная очередь отправляется, если сервер доступен.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		password, err := output.ReadSecret("Пароль: ")
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("пароль не может быть пустым")
		}

		s, err := app.Login(cmd.Context(), password)
		if err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		if output.JSON() {
			return output.PrintJSON(s)
		}

		output.OK("Вход выполнен: %s (%s)", s.UserName, s.Role)

		status, err := app.SyncStatus(cmd.Context())
		if err == nil && status.Pending > 0 {
			output.Warn("В очереди осталось записей: %d. Выполните: sitelog sync", status.Pending)
		}
		return nil
	},
}
