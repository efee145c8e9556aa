package entry

import (
	"encoding/json"
	"fmt"
)

// Payload данные одной записи, привязанные к своему типу.
// Реализации перечислены в этом пакете, поэтому обработка по типу всегда полная.
type Payload interface {
	Kind() Kind
	// Author значение enteredBy, пустая строка если сессии не было
	Author() string
	withAuthor(name string) Payload
}

// Stamp возвращает копию данных с проставленным автором
func Stamp(p Payload, userName string) Payload {
	return p.withAuthor(userName)
}

// JCB запись о работе экскаватора
type JCB struct {
	Date           string `json:"date,omitempty"`
	GadiNo         string `json:"gadiNo,omitempty"`
	DriverName     string `json:"driverName,omitempty"`
	CustomerName   string `json:"customerName,omitempty"`
	CustomerNumber string `json:"customerNumber,omitempty"`
	RunMode        string `json:"runMode,omitempty"` // Hour, Tip, Number или произвольный режим
	WorkDetail     string `json:"workDetail,omitempty"`
	StartMtr       string `json:"startMtr,omitempty"`
	StopMtr        string `json:"stopMtr,omitempty"`
	TotalHour      string `json:"totalHour,omitempty"`
	StartMtrDay    string `json:"startMtrDay,omitempty"`
	StopMtrDay     string `json:"stopMtrDay,omitempty"`
	TipCount       string `json:"tipCount,omitempty"`
	Rate           string `json:"rate,omitempty"`
	TotalAmount    string `json:"totalAmount,omitempty"`
	ReceivedAmount string `json:"receivedAmount,omitempty"`
	DueAmount      string `json:"dueAmount,omitempty"`
	Remarks        string `json:"remarks,omitempty"`
	LocationLink   string `json:"locationLink,omitempty"`
	Photo          string `json:"photo,omitempty"`
	EnteredBy      string `json:"enteredBy,omitempty"`
}

func (JCB) Kind() Kind { return KindJCB }
func (j JCB) Author() string { return j.EnteredBy }
func (j JCB) withAuthor(name string) Payload {
	j.EnteredBy = name
	return j
}

// Tipper запись о рейсе самосвала
type Tipper struct {
	Date           string `json:"date,omitempty"`
	GadiNo         string `json:"gadiNo,omitempty"`
	DriverName     string `json:"driverName,omitempty"`
	CustomerName   string `json:"customerName,omitempty"`
	CustomerNumber string `json:"customerNumber,omitempty"`
	Material       string `json:"material,omitempty"`
	LoadingPlace   string `json:"loadingPlace,omitempty"`
	UnloadingPlace string `json:"unloadingPlace,omitempty"`
	CftTrip        string `json:"cftTrip,omitempty"`
	Remarks        string `json:"remarks,omitempty"`
	LocationLink   string `json:"locationLink,omitempty"`
	Photo          string `json:"photo,omitempty"`
	EnteredBy      string `json:"enteredBy,omitempty"`
}

func (Tipper) Kind() Kind { return KindTipper }
func (t Tipper) Author() string { return t.EnteredBy }
func (t Tipper) withAuthor(name string) Payload {
	t.EnteredBy = name
	return t
}

// Diesel запись о заправке
type Diesel struct {
	Date           string `json:"date,omitempty"`
	GadiNo         string `json:"gadiNo,omitempty"`
	DieselLtr      string `json:"dieselLtr,omitempty"`
	DieselCost     string `json:"dieselCost,omitempty"`
	DieselMtr      string `json:"dieselMtr,omitempty"`
	PetrolPumpName string `json:"petrolPumpName,omitempty"`
	DieselPaidBy   string `json:"dieselPaidBy,omitempty"`
	Remarks        string `json:"remarks,omitempty"`
	LocationLink   string `json:"locationLink,omitempty"`
	Photo          string `json:"photo,omitempty"`
	EnteredBy      string `json:"enteredBy,omitempty"`
}

func (Diesel) Kind() Kind { return KindDiesel }
func (d Diesel) Author() string { return d.EnteredBy }
func (d Diesel) withAuthor(name string) Payload {
	d.EnteredBy = name
	return d
}

// Expense ежедневный расход
type Expense struct {
	Date        string `json:"date,omitempty"`
	ExpenseMode string `json:"expenseMode,omitempty"` // Cash, Online, Bank, Credit
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Remark      string `json:"remark,omitempty"`
	EnteredBy   string `json:"enteredBy,omitempty"`
}

func (Expense) Kind() Kind { return KindExpense }
func (e Expense) Author() string { return e.EnteredBy }
func (e Expense) withAuthor(name string) Payload {
	e.EnteredBy = name
	return e
}

// Decode восстанавливает данные записи по тегу типа
func Decode(kind Kind, raw json.RawMessage) (Payload, error) {
	var (
		p   Payload
		err error
	)

	switch kind {
	case KindJCB:
		var v JCB
		err = json.Unmarshal(raw, &v)
		p = v
	case KindTipper:
		var v Tipper
		err = json.Unmarshal(raw, &v)
		p = v
	case KindDiesel:
		var v Diesel
		err = json.Unmarshal(raw, &v)
		p = v
	case KindExpense:
		var v Expense
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, kind, err)
	}
	return p, nil
}

// Fields плоское представление данных записи
func Fields(p Payload) (Record, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", p.Kind(), err)
	}

	fields := Record{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", p.Kind(), err)
	}
	return fields, nil
}
