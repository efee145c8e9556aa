package health

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name            string
		storage         string
		expectedStatus  string
		expectedStorage string
	}{
		{
			name:            "memory storage",
			storage:         "memory",
			expectedStatus:  "OK",
			expectedStorage: "memory",
		},
		{
			name:            "postgres storage",
			storage:         "postgres",
			expectedStatus:  "OK",
			expectedStorage: "postgres",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			handler := NewHandler(slog.Default(), tt.storage, huma.Middlewares{})

			// Act
			output, err := handler.healthCheck(context.Background(), &Input{})

			// Assert
			assert.NoError(t, err)
			assert.NotNil(t, output)
			assert.Equal(t, tt.expectedStatus, output.Body.Status)
			assert.Equal(t, tt.expectedStorage, output.Body.Storage)
		})
	}
}

func TestHandler_Route(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(slog.Default(), "memory", huma.Middlewares{}).SetupRoutes(api)

	resp := api.Get("/api/v1/health")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"OK","storage":"memory"}`, resp.Body.String())
}

func TestHandler_Operation(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(slog.Default(), "postgres", huma.Middlewares{}).SetupRoutes(api)

	path := api.OpenAPI().Paths["/api/v1/health"]
	if assert.NotNil(t, path) && assert.NotNil(t, path.Get) {
		assert.Equal(t, "sitelog-health", path.Get.OperationID)
		assert.Equal(t, []string{"health"}, path.Get.Tags)
	}
}
