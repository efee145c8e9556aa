// Package output печать результатов команд: цветной текст или JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"sitelog/internal/app/client/gateway"
	"sitelog/internal/domain/entry"
)

var (
	jsonMode bool
	out      io.Writer = os.Stdout

	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

// SetJSON переключает вывод в JSON
func SetJSON(v bool) {
	jsonMode = v
}

func JSON() bool {
	return jsonMode
}

// SetWriter меняет поток вывода, используется в тестах
func SetWriter(w io.Writer) {
	out = w
}

func PrintJSON(v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func OK(format string, args ...any) {
	okColor.Fprintf(out, "✓ "+format+"\n", args...)
}

func Warn(format string, args ...any) {
	warnColor.Fprintf(out, "⚠️  "+format+"\n", args...)
}

func Fail(format string, args ...any) {
	errColor.Fprintf(out, "✗ "+format+"\n", args...)
}

func Line(format string, args ...any) {
	fmt.Fprintf(out, format+"\n", args...)
}

// Result печатает итог отправки записи
func Result(res gateway.Result) error {
	if jsonMode {
		return PrintJSON(res)
	}

	switch {
	case res.Queued:
		Warn("Нет связи с сервером, запись сохранена в очередь и будет отправлена позже")
	case res.Success:
		if res.ActualEntryTime != "" {
			OK("Запись принята сервером (%s)", res.ActualEntryTime)
		} else {
			OK("Готово")
		}
	case res.Error == gateway.ConnectionFailure:
		Fail("Нет связи с сервером, изменения не сохранены")
	default:
		Fail("Сервер отклонил запрос: %s", res.Error)
	}
	return nil
}

// Staleness строка о свежести данных из кэша
func Staleness(fresh, cached bool, fetchedAt time.Time) string {
	switch {
	case fresh:
		return ""
	case cached:
		return fmt.Sprintf("Нет связи, показаны данные от %s (%s)",
			fetchedAt.Local().Format("2006-01-02 15:04"), humanize.Time(fetchedAt))
	default:
		return "Нет связи и сохраненных данных"
	}
}

var columns = map[entry.Kind][]string{
	entry.KindJCB:     {"date", "gadiNo", "driverName", "customerName", "runMode", "totalAmount", "dueAmount", "enteredBy"},
	entry.KindTipper:  {"date", "gadiNo", "driverName", "material", "loadingPlace", "unloadingPlace", "cftTrip", "enteredBy"},
	entry.KindDiesel:  {"date", "gadiNo", "dieselLtr", "dieselCost", "petrolPumpName", "dieselPaidBy", "enteredBy"},
	entry.KindExpense: {"date", "expenseMode", "description", "amount", "enteredBy"},
}

// Records печатает записи таблицей. Для неизвестного набора колонок
// выводятся все ключи первой записи.
func Records(kind entry.Kind, rows []entry.Record) error {
	if len(rows) == 0 {
		Line("Записи не найдены")
		return nil
	}

	cols := keys(rows[0])
	if known, ok := columns[kind]; ok {
		cols = append([]string{"actualEntryTime"}, known...)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	for _, row := range rows {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i] = cell(row[c])
		}
		fmt.Fprintln(w, strings.Join(vals, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	dimColor.Fprintf(out, "Всего: %d\n", len(rows))
	return nil
}

// Record печатает одну запись в виде ключ: значение
func Record(rec entry.Record) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, k := range keys(rec) {
		fmt.Fprintf(w, "%s:\t%s\n", k, cell(rec[k]))
	}
	_ = w.Flush()
}

func keys(rec entry.Record) []string {
	ks := make([]string, 0, len(rec))
	for k := range rec {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if t == "" {
			return "-"
		}
		return t
	case float64:
		return humanize.FormatFloat("#,###.##", t)
	default:
		return fmt.Sprint(t)
	}
}
