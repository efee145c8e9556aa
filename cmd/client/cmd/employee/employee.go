package employee

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitelog/cmd/client/cmd/output"
	"sitelog/cmd/client/cmd/types"
)

// EmployeeCmd - управление сотрудниками, только для администратора
var EmployeeCmd = &cobra.Command{
	Use:   "employee",
	Short: "Сотрудники (администратор)",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Список сотрудников",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		rows, err := app.Employees(cmd.Context())
		if err != nil {
			return err
		}

		if output.JSON() {
			return output.PrintJSON(rows)
		}
		return output.Records("employee", rows)
	},
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Добавить сотрудника",
	Long: `Создает сотрудника. Вход выполняется только по паролю,
поэтому пароль должен отличаться от паролей других сотрудников.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		password, err := output.ReadSecret("Пароль сотрудника: ")
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("пароль не может быть пустым")
		}

		res, err := app.AddEmployee(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		return output.Result(res)
	},
}

func init() {
	EmployeeCmd.AddCommand(listCmd, addCmd)
}
