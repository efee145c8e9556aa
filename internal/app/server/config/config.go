package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = "../../.env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env           string
	StorageDriver string
	AdminPassword string
	AdminName     string
	DB            DB
	Server        Server
	Logger        Logger
	RateLimit     RateLimit
}

type DB struct {
	DatabaseURI string
	Migrations  string
}

type Server struct {
	RunAddress      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Logger struct {
	LogLevel string
	LogFile  string
}

type RateLimit struct {
	Requests int
	Window   time.Duration
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetDefault("app_env", EnvLocal)
	viper.SetDefault("storage_driver", StorageMemory)
	viper.SetDefault("run_address", ":8080")
	viper.SetDefault("migrations_path", "migrations")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("admin_name", "Admin")
	viper.SetDefault("read_timeout_seconds", 15)
	viper.SetDefault("write_timeout_seconds", 30)
	viper.SetDefault("shutdown_timeout_seconds", 10)
	viper.SetDefault("rate_limit_requests", 60)
	viper.SetDefault("rate_limit_window_seconds", 60)

	cfg := &Config{
		Env:           viper.GetString("app_env"),
		StorageDriver: viper.GetString("storage_driver"),
		AdminPassword: viper.GetString("admin_password"),
		AdminName:     viper.GetString("admin_name"),
		DB: DB{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: Server{
			RunAddress:      viper.GetString("run_address"),
			ReadTimeout:     time.Duration(viper.GetInt("read_timeout_seconds")) * time.Second,
			WriteTimeout:    time.Duration(viper.GetInt("write_timeout_seconds")) * time.Second,
			ShutdownTimeout: time.Duration(viper.GetInt("shutdown_timeout_seconds")) * time.Second,
		},
		Logger: Logger{
			LogLevel: viper.GetString("log_level"),
			LogFile:  viper.GetString("log_file"),
		},
		RateLimit: RateLimit{
			Requests: viper.GetInt("rate_limit_requests"),
			Window:   time.Duration(viper.GetInt("rate_limit_window_seconds")) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DB.DatabaseURI == "" {
			return fmt.Errorf("database_uri is required for storage_driver=%s", StoragePostgres)
		}
	default:
		return fmt.Errorf("unknown storage_driver %q", c.StorageDriver)
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("admin_password is required")
	}
	if c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}
