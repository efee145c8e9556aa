package entry

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitelog/cmd/client/cmd/output"
	"sitelog/cmd/client/cmd/types"
	"sitelog/internal/domain/entry"
)

var updateFields map[string]string

var updateCmd = &cobra.Command{
	Use:   "update <kind> <actualEntryTime>",
	Short: "Исправить отправленную запись",
	Long: `Изменяет поля записи на сервере. Запись ищется по времени,
которое сервер вернул при создании (actualEntryTime).

Исправление требует связи с сервером и в очередь не ставится.

Пример:
  sitelog entry update jcb 2024-05-01T10:00:00.000001Z --set receivedAmount=5000 --set dueAmount=0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		kind, err := entry.ParseKind(args[0])
		if err != nil {
			return err
		}
		if len(updateFields) == 0 {
			return fmt.Errorf("не указано ни одного поля, используйте --set ключ=значение")
		}

		fields := make(entry.Record, len(updateFields))
		for k, v := range updateFields {
			fields[k] = v
		}

		res, err := app.UpdateEntry(cmd.Context(), kind, args[1], fields)
		if err != nil {
			return err
		}
		return output.Result(res)
	},
}

func init() {
	updateCmd.Flags().StringToStringVar(&updateFields, "set", nil, "новое значение поля, ключ=значение")
}
