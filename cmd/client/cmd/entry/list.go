// cmd/client/cmd/entry/list.go
package entry

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitelog/cmd/client/cmd/output"
	"sitelog/cmd/client/cmd/types"
	"sitelog/internal/domain/entry"
)

var listCmd = &cobra.Command{
	Use:   "list <jcb|tipper|diesel|expense>",
	Short: "Список записей",
	Long: `Загружает записи с сервера. Администратор видит все записи,
сотрудник только свои. Без связи показывается последний сохраненный список
с указанием, насколько он устарел.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		kind, err := entry.ParseKind(args[0])
		if err != nil {
			return err
		}

		res, err := app.Entries(cmd.Context(), kind)
		if err != nil {
			return fmt.Errorf("ошибка получения списка записей: %w", err)
		}

		if output.JSON() {
			return output.PrintJSON(res)
		}

		if note := output.Staleness(res.Fresh, res.Cached, res.FetchedAt); note != "" {
			output.Warn("%s", note)
		}
		return output.Records(kind, res.Data)
	},
}

var lastCmd = &cobra.Command{
	Use:   "last <jcb|tipper>",
	Short: "Последняя принятая запись",
	Long:  `Показывает последнюю запись, принятую сервером с этого устройства.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		kind, err := entry.ParseKind(args[0])
		if err != nil {
			return err
		}

		rec, ok, err := app.LastEntry(cmd.Context(), kind)
		if err != nil {
			return err
		}

		if output.JSON() {
			return output.PrintJSON(rec)
		}
		if !ok {
			output.Line("Записей еще не было")
			return nil
		}

		output.Record(rec)
		return nil
	},
}
