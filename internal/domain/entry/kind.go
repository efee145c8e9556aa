package entry

import (
	"fmt"
	"strings"
)

// Kind тип записи, которую может содержать очередь синхронизации
type Kind string

const (
	KindJCB     Kind = "jcb"
	KindTipper  Kind = "tipper"
	KindDiesel  Kind = "diesel"
	KindExpense Kind = "expense"
)

// Kinds все поддерживаемые типы в порядке отображения
var Kinds = []Kind{KindJCB, KindTipper, KindDiesel, KindExpense}

// ParseKind разбирает тип записи без учета регистра
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	switch k {
	case KindJCB, KindTipper, KindDiesel, KindExpense:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// AddAction имя RPC действия для создания записи
func (k Kind) AddAction() string {
	return "add" + k.actionSuffix()
}

// GetAction имя RPC действия для чтения списка записей
func (k Kind) GetAction() string {
	return "get" + k.actionSuffix()
}

// Sheet имя листа на стороне сервера, используется как ключ при обновлении
func (k Kind) Sheet() string {
	switch k {
	case KindJCB:
		return "JCB_Logs"
	case KindTipper:
		return "Tipper_Logs"
	case KindDiesel:
		return "Diesel_Logs"
	case KindExpense:
		return "Expense_Logs"
	}
	return ""
}

// KindBySheet обратное отображение имени листа в тип записи
func KindBySheet(sheet string) (Kind, error) {
	for _, k := range Kinds {
		if k.Sheet() == sheet {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: sheet %q", ErrUnknownKind, sheet)
}

func (k Kind) actionSuffix() string {
	switch k {
	case KindJCB:
		return "JCB"
	case KindTipper:
		return "Tipper"
	case KindDiesel:
		return "Diesel"
	case KindExpense:
		return "Expense"
	}
	return ""
}
