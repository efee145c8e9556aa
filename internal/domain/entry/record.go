package entry

// Record строка, возвращаемая сервером. Состав полей определяет сервер,
// клиент хранит ее как есть.
type Record map[string]any

// EntryTime время поступления записи на сервер, служит ключом при обновлении
func (r Record) EntryTime() string {
	if v, ok := r["actualEntryTime"].(string); ok {
		return v
	}
	return ""
}

// Stats сводка для главного экрана
type Stats struct {
	JCBCount    int     `json:"jcbCount"`
	TipperCount int     `json:"tipperCount"`
	TotalDue    float64 `json:"totalDue"`
}

// Role роль пользователя
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Attendance отметка о приходе или уходе сотрудника
type Attendance struct {
	Type         string `json:"type"` // In или Out
	Date         string `json:"date"`
	Time         string `json:"time"`
	LocationLink string `json:"locationLink"`
	Photo        string `json:"photo,omitempty"`
	EnteredBy    string `json:"enteredBy,omitempty"`
}

const (
	AttendanceIn  = "In"
	AttendanceOut = "Out"
)
