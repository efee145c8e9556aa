package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// healthCheckOp не проходит через ограничитель запросов, чтобы клиент
// мог проверить связь перед отправкой очереди
func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "sitelog-health",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Endpoint liveness and storage driver",
		Description: "Reports that the sitelog RPC endpoint is up and which storage driver (memory or postgres) backs the sheets.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
