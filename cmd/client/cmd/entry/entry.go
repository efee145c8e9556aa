package entry

import (
	"github.com/spf13/cobra"
)

// EntryCmd - родительская команда для работы с записями
var EntryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Записи журнала",
	Long: `Добавление, просмотр и исправление записей.

Поддерживаемые типы записей:
- jcb     - смена экскаватора
- tipper  - рейс самосвала
- diesel  - заправка
- expense - расход`,
}

func init() {
	EntryCmd.AddCommand(addCmd, listCmd, updateCmd, lastCmd)
}
