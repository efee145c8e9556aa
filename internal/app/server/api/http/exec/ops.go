package exec

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "exec-get",
		Method:      http.MethodGet,
		Path:        "/exec",
		Summary:     "Read action",
		Description: "Login, lists of entries, quick stats, attendance and employees",
		Tags:        []string{"exec"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) postOp() huma.Operation {
	return huma.Operation{
		OperationID: "exec-post",
		Method:      http.MethodPost,
		Path:        "/exec",
		Summary:     "Write action",
		Description: "Add and update entries, attendance and employees",
		Tags:        []string{"exec"},
		Middlewares: h.middleware,
	}
}
