package entry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Kind
		wantErr bool
	}{
		{name: "lower", in: "jcb", want: KindJCB},
		{name: "mixed case with spaces", in: " Tipper ", want: KindTipper},
		{name: "diesel", in: "DIESEL", want: KindDiesel},
		{name: "unknown", in: "failed", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_Actions(t *testing.T) {
	assert.Equal(t, "addJCB", KindJCB.AddAction())
	assert.Equal(t, "getTipper", KindTipper.GetAction())
	assert.Equal(t, "addExpense", KindExpense.AddAction())
	assert.Equal(t, "Diesel_Logs", KindDiesel.Sheet())

	for _, k := range Kinds {
		got, err := KindBySheet(k.Sheet())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := KindBySheet("Attendance")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestStamp_ReturnsCopy(t *testing.T) {
	orig := JCB{GadiNo: "MH12AB1234"}
	stamped := Stamp(orig, "Ravi")

	assert.Equal(t, "Ravi", stamped.Author())
	assert.Equal(t, "", orig.Author())
	assert.Equal(t, KindJCB, stamped.Kind())
}

func TestDecode(t *testing.T) {
	raw := json.RawMessage(`{"gadiNo":"MH12AB1234","rate":"500","tipCount":"4","enteredBy":"Ravi"}`)

	p, err := Decode(KindJCB, raw)
	require.NoError(t, err)

	jcb, ok := p.(JCB)
	require.True(t, ok)
	assert.Equal(t, "MH12AB1234", jcb.GadiNo)
	assert.Equal(t, "500", jcb.Rate)
	assert.Equal(t, "Ravi", jcb.EnteredBy)

	_, err = Decode("failed", raw)
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Decode(KindExpense, json.RawMessage(`[1,2]`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestFields(t *testing.T) {
	fields, err := Fields(Expense{Amount: "250", Description: "tea", EnteredBy: "Ravi"})
	require.NoError(t, err)

	assert.Equal(t, Record{"amount": "250", "description": "tea", "enteredBy": "Ravi"}, fields)
}

func TestJCB_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        JCB
		wantTotal string
		wantDue   string
		wantHours string
	}{
		{
			name:      "tip mode",
			in:        JCB{RunMode: "Tip", TipCount: "4", Rate: "500", ReceivedAmount: "1500"},
			wantTotal: "2000",
			wantDue:   "500",
		},
		{
			name:      "empty run mode counts tips",
			in:        JCB{TipCount: "3", Rate: "100"},
			wantTotal: "300",
			wantDue:   "300",
		},
		{
			name:      "hour mode",
			in:        JCB{RunMode: "Hour", StartMtr: "100.5", StopMtr: "103", Rate: "800"},
			wantTotal: "2000",
			wantDue:   "2000",
			wantHours: "2.5",
		},
		{
			name:      "hour mode never negative",
			in:        JCB{RunMode: "Hour", StartMtr: "10", StopMtr: "5", Rate: "800"},
			wantTotal: "0",
			wantDue:   "0",
		},
		{
			name:      "manual total kept",
			in:        JCB{RunMode: "Tip", TipCount: "4", Rate: "500", TotalAmount: "1800"},
			wantTotal: "1800",
			wantDue:   "1800",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantTotal, got.TotalAmount)
			assert.Equal(t, tt.wantDue, got.DueAmount)
			assert.Equal(t, tt.wantHours, got.TotalHour)
		})
	}
}

func TestAmounts(t *testing.T) {
	assert.Equal(t, 2000.0, JCBTotal("4", "500"))
	assert.Equal(t, 0.0, JCBTotal("abc", "500"))
	assert.Equal(t, -100.0, DueAmount("400", "500"))
	assert.Equal(t, 400.0, DueAmount("400", ""))

	assert.Equal(t, 12.5, Amount("12.5"))
	assert.Equal(t, 7.0, Amount(7.0))
	assert.Equal(t, 0.0, Amount(nil))
	assert.Equal(t, 0.0, Amount(true))
}

func TestRecord_EntryTime(t *testing.T) {
	assert.Equal(t, "2024-01-02T10:00:00Z", Record{"actualEntryTime": "2024-01-02T10:00:00Z"}.EntryTime())
	assert.Equal(t, "", Record{"actualEntryTime": 12}.EntryTime())
}
