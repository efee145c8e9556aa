package exec

// GetInput чтение: GET /exec?action=...
type GetInput struct {
	Action   string `query:"action" required:"true" doc:"RPC action name" example:"getJCB"`
	UserName string `query:"userName" doc:"Name of the logged in user"`
	Role     string `query:"role" doc:"Role of the logged in user"`
	Password string `query:"password" doc:"Password for the login action"`
}

// PostInput запись: POST /exec {"action":"addJCB","data":{...}}
type PostInput struct {
	Body PostBody
}

type PostBody struct {
	Action string         `json:"action" minLength:"1" doc:"RPC action name" example:"addJCB"`
	Data   map[string]any `json:"data,omitempty" doc:"Action payload"`
}

type Output struct {
	Body Envelope
}

// Envelope ответ любого действия. Отказ передается как success=false с кодом 200.
type Envelope struct {
	Success         bool   `json:"success"`
	Data            any    `json:"data,omitempty"`
	ActualEntryTime string `json:"actualEntryTime,omitempty"`
	Error           string `json:"error,omitempty"`
	Role            string `json:"role,omitempty"`
	Name            string `json:"name,omitempty"`
}

func ok(data any) *Output {
	return &Output{Body: Envelope{Success: true, Data: data}}
}

func fail(msg string) *Output {
	return &Output{Body: Envelope{Success: false, Error: msg}}
}
