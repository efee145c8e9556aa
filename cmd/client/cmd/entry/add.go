// cmd/client/cmd/entry/add.go
package entry

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sitelog/cmd/client/cmd/output"
	"sitelog/cmd/client/cmd/types"
	"sitelog/internal/domain/entry"
)

var (
	jcb     entry.JCB
	tipper  entry.Tipper
	diesel  entry.Diesel
	expense entry.Expense
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить запись",
	Long: `Отправляет запись на сервер. Без связи запись ставится в очередь
и будет отправлена позже, автор записи сохраняется.`,
}

var addJCBCmd = &cobra.Command{
	Use:   "jcb",
	Short: "Смена экскаватора",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jcb.Date = dateOrToday(jcb.Date)
		return submit(cmd, jcb)
	},
}

var addTipperCmd = &cobra.Command{
	Use:   "tipper",
	Short: "Рейс самосвала",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tipper.Date = dateOrToday(tipper.Date)
		return submit(cmd, tipper)
	},
}

var addDieselCmd = &cobra.Command{
	Use:   "diesel",
	Short: "Заправка",
	RunE: func(cmd *cobra.Command, _ []string) error {
		diesel.Date = dateOrToday(diesel.Date)
		return submit(cmd, diesel)
	},
}

var addExpenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Расход",
	RunE: func(cmd *cobra.Command, _ []string) error {
		expense.Date = dateOrToday(expense.Date)
		return submit(cmd, expense)
	},
}

func submit(cmd *cobra.Command, p entry.Payload) error {
	app, err := types.App(cmd.Context())
	if err != nil {
		return err
	}

	res, err := app.Submit(cmd.Context(), p)
	if err != nil {
		return err
	}
	return output.Result(res)
}

func dateOrToday(date string) string {
	if date != "" {
		return date
	}
	return time.Now().Format("2006-01-02")
}

func commonFlags(f *pflag.FlagSet, date, gadiNo, remarks, location, photo *string) {
	f.StringVar(date, "date", "", "дата (по умолчанию сегодня)")
	if gadiNo != nil {
		f.StringVar(gadiNo, "gadi-no", "", "номер машины")
	}
	f.StringVar(remarks, "remarks", "", "примечание")
	if location != nil {
		f.StringVar(location, "location", "", "ссылка на местоположение")
	}
	if photo != nil {
		f.StringVar(photo, "photo", "", "ссылка на фото")
	}
}

func init() {
	f := addJCBCmd.Flags()
	commonFlags(f, &jcb.Date, &jcb.GadiNo, &jcb.Remarks, &jcb.LocationLink, &jcb.Photo)
	f.StringVar(&jcb.DriverName, "driver", "", "водитель")
	f.StringVar(&jcb.CustomerName, "customer", "", "заказчик")
	f.StringVar(&jcb.CustomerNumber, "customer-number", "", "телефон заказчика")
	f.StringVar(&jcb.RunMode, "run-mode", "Tip", "режим оплаты: Hour, Tip или Number")
	f.StringVar(&jcb.WorkDetail, "work", "", "описание работы")
	f.StringVar(&jcb.StartMtr, "start-mtr", "", "показание счетчика в начале")
	f.StringVar(&jcb.StopMtr, "stop-mtr", "", "показание счетчика в конце")
	f.StringVar(&jcb.TotalHour, "total-hour", "", "отработано часов")
	f.StringVar(&jcb.TipCount, "tips", "", "количество рейсов")
	f.StringVar(&jcb.Rate, "rate", "", "ставка")
	f.StringVar(&jcb.TotalAmount, "total", "", "сумма (по умолчанию считается)")
	f.StringVar(&jcb.ReceivedAmount, "received", "", "получено")
	f.StringVar(&jcb.DueAmount, "due", "", "долг (по умолчанию считается)")

	f = addTipperCmd.Flags()
	commonFlags(f, &tipper.Date, &tipper.GadiNo, &tipper.Remarks, &tipper.LocationLink, &tipper.Photo)
	f.StringVar(&tipper.DriverName, "driver", "", "водитель")
	f.StringVar(&tipper.CustomerName, "customer", "", "заказчик")
	f.StringVar(&tipper.CustomerNumber, "customer-number", "", "телефон заказчика")
	f.StringVar(&tipper.Material, "material", "", "материал")
	f.StringVar(&tipper.LoadingPlace, "from", "", "место погрузки")
	f.StringVar(&tipper.UnloadingPlace, "to", "", "место выгрузки")
	f.StringVar(&tipper.CftTrip, "cft", "", "объем рейса, куб. футов")

	f = addDieselCmd.Flags()
	commonFlags(f, &diesel.Date, &diesel.GadiNo, &diesel.Remarks, &diesel.LocationLink, &diesel.Photo)
	f.StringVar(&diesel.DieselLtr, "liters", "", "литров")
	f.StringVar(&diesel.DieselCost, "cost", "", "стоимость")
	f.StringVar(&diesel.DieselMtr, "mtr", "", "показание счетчика")
	f.StringVar(&diesel.PetrolPumpName, "pump", "", "заправка")
	f.StringVar(&diesel.DieselPaidBy, "paid-by", "", "кто оплатил")

	f = addExpenseCmd.Flags()
	commonFlags(f, &expense.Date, nil, &expense.Remark, nil, nil)
	f.StringVar(&expense.ExpenseMode, "mode", "Cash", "способ оплаты: Cash, Online, Bank, Credit")
	f.StringVar(&expense.Description, "description", "", "описание")
	f.StringVar(&expense.Amount, "amount", "", "сумма")
	_ = addExpenseCmd.MarkFlagRequired("amount")

	addCmd.AddCommand(addJCBCmd, addTipperCmd, addDieselCmd, addExpenseCmd)
}
