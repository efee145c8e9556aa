package cmd

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"sitelog/cmd/client/cmd/output"
	"sitelog/cmd/client/cmd/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Сводка: смены JCB, рейсы и сумма долга",
	Long: `Показывает сводку главного экрана.

Перед запросом отправляется очередь неотправленных записей.
Без связи показывается последняя сохраненная сводка.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		res := app.QuickStats(cmd.Context())
		if output.JSON() {
			return output.PrintJSON(res)
		}

		if s := app.Session(); s.LoggedIn() {
			output.Line("Пользователь: %s (%s)", s.UserName, s.Role)
		}
		if note := output.Staleness(res.Fresh, res.Cached, res.FetchedAt); note != "" {
			output.Warn("%s", note)
		}

		output.Line("Смен JCB:      %d", res.Data.JCBCount)
		output.Line("Рейсов:        %d", res.Data.TipperCount)
		output.Line("Сумма долга:   %s", humanize.CommafWithDigits(res.Data.TotalDue, 2))
		return nil
	},
}
