package entry

import (
	"strconv"
	"strings"
)

// JCBTotal сумма за работу по количеству рейсов
func JCBTotal(tipCount, rate string) float64 {
	return parseAmount(tipCount) * parseAmount(rate)
}

// DueAmount остаток к оплате
func DueAmount(total, received string) float64 {
	return parseAmount(total) - parseAmount(received)
}

// Normalize заполняет totalAmount и dueAmount, если они не были введены вручную
func (j JCB) Normalize() JCB {
	if j.TotalAmount == "" {
		switch j.RunMode {
		case "Hour":
			hours := parseAmount(j.StopMtr) - parseAmount(j.StartMtr)
			total := hours * parseAmount(j.Rate)
			if total < 0 {
				total = 0
			}
			if j.TotalHour == "" && hours > 0 {
				j.TotalHour = formatAmount(hours)
			}
			j.TotalAmount = formatAmount(total)
		case "Tip", "Number", "":
			j.TotalAmount = formatAmount(JCBTotal(j.TipCount, j.Rate))
		}
	}

	if j.DueAmount == "" && j.TotalAmount != "" {
		j.DueAmount = formatAmount(DueAmount(j.TotalAmount, j.ReceivedAmount))
	}

	return j
}

// Amount числовое значение поля строки, нечисловые значения дают 0
func Amount(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		return parseAmount(x)
	}
	return 0
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
