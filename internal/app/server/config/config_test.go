package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("ADMIN_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, ":8080", cfg.Server.RunAddress)
	assert.Equal(t, "Admin", cfg.AdminName)
	assert.Equal(t, 60, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing admin password",
			env:  map[string]string{"ADMIN_PASSWORD": ""},
		},
		{
			name: "postgres without uri",
			env:  map[string]string{"ADMIN_PASSWORD": "secret", "STORAGE_DRIVER": "postgres"},
		},
		{
			name: "unknown driver",
			env:  map[string]string{"ADMIN_PASSWORD": "secret", "STORAGE_DRIVER": "mongo"},
		},
		{
			name: "zero rate limit",
			env:  map[string]string{"ADMIN_PASSWORD": "secret", "RATE_LIMIT_REQUESTS": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
