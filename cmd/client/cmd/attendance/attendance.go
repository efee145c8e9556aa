package attendance

import (
	"time"

	"github.com/spf13/cobra"

	"sitelog/cmd/client/cmd/output"
	"sitelog/cmd/client/cmd/types"
	"sitelog/internal/domain/entry"
)

var (
	location string
	photo    string
)

// AttendanceCmd - отметки прихода и ухода. Требуют связи с сервером.
var AttendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Отметки посещаемости",
	Long: `Отметка прихода и ухода, просмотр и подтверждение отметок.

Отметки не ставятся в очередь: без связи команда завершается с ошибкой.`,
}

var inCmd = &cobra.Command{
	Use:   "in",
	Short: "Отметить приход",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mark(cmd, entry.AttendanceIn)
	},
}

var outCmd = &cobra.Command{
	Use:   "out",
	Short: "Отметить уход",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mark(cmd, entry.AttendanceOut)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Список отметок",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		rows, err := app.Attendance(cmd.Context())
		if err != nil {
			return err
		}

		if output.JSON() {
			return output.PrintJSON(rows)
		}
		return output.Records("attendance", rows)
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <actualEntryTime>",
	Short: "Подтвердить отметку (администратор)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd.Context())
		if err != nil {
			return err
		}

		res, err := app.ApproveAttendance(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return output.Result(res)
	},
}

func mark(cmd *cobra.Command, kind string) error {
	app, err := types.App(cmd.Context())
	if err != nil {
		return err
	}

	now := time.Now()
	res, err := app.SubmitAttendance(cmd.Context(), entry.Attendance{
		Type:         kind,
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04:05"),
		LocationLink: location,
		Photo:        photo,
	})
	if err != nil {
		return err
	}
	return output.Result(res)
}

func init() {
	for _, c := range []*cobra.Command{inCmd, outCmd} {
		c.Flags().StringVar(&location, "location", "", "ссылка на местоположение")
		c.Flags().StringVar(&photo, "photo", "", "ссылка на фото")
	}

	AttendanceCmd.AddCommand(inCmd, outCmd, listCmd, approveCmd)
}
