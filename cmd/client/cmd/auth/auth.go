package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd - родительская команда для входа и выхода пользователя
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление сессией пользователя",
	Long:  `Вход по паролю, выход и просмотр текущего пользователя.`,
}

func init() {
	AuthCmd.AddCommand(LoginCmd, LogoutCmd, WhoamiCmd)
}
