package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultEndpoint        = "http://localhost:8080/exec"
	defaultLogLevel        = "info"
	defaultEnv             = "local"
	defaultConfigDir       = ".sitelog"
	defaultStorageDriver   = "sqlite"
	defaultRequestTimeout  = 30
	defaultMaxAttempts     = 1
	defaultHealthRetries   = 3
	defaultHealthBackoffMs = 200
)

type Config struct {
	Env              string        `mapstructure:"app_env"`
	Endpoint         string        `mapstructure:"endpoint"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFile          string        `mapstructure:"log_file"`
	ConfigDir        string        `mapstructure:"config_dir"`
	StorageDriver    string        `mapstructure:"storage_driver"`
	DataPath         string        `mapstructure:"data_path"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout_seconds"`
	QueueMaxAttempts int           `mapstructure:"queue_max_attempts"`
	HealthRetries    int           `mapstructure:"health_retries"`
	HealthBackoff    time.Duration `mapstructure:"health_backoff_ms"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env, переменные окружения и файл конфигурации, если он был подключен в viper
func Load() (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("ENDPOINT", defaultEndpoint)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("STORAGE_DRIVER", defaultStorageDriver)
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)
	viper.SetDefault("QUEUE_MAX_ATTEMPTS", defaultMaxAttempts)
	viper.SetDefault("HEALTH_RETRIES", defaultHealthRetries)
	viper.SetDefault("HEALTH_BACKOFF_MS", defaultHealthBackoffMs)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}

	driver := viper.GetString("STORAGE_DRIVER")
	dataPath := viper.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = defaultDataPath(configDir, driver)
	}

	config := &Config{
		Env:              viper.GetString("APP_ENV"),
		Endpoint:         viper.GetString("ENDPOINT"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
		LogFile:          viper.GetString("LOG_FILE"),
		ConfigDir:        configDir,
		StorageDriver:    driver,
		DataPath:         dataPath,
		RequestTimeout:   time.Duration(viper.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		QueueMaxAttempts: viper.GetInt("QUEUE_MAX_ATTEMPTS"),
		HealthRetries:    viper.GetInt("HEALTH_RETRIES"),
		HealthBackoff:    time.Duration(viper.GetInt("HEALTH_BACKOFF_MS")) * time.Millisecond,
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func defaultDataPath(configDir, driver string) string {
	if driver == "leveldb" {
		return filepath.Join(configDir, "leveldb")
	}
	return filepath.Join(configDir, "data.db")
}

func (c *Config) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint не может быть пустым")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("endpoint должен быть абсолютным URL: %q", c.Endpoint)
	}
	switch c.StorageDriver {
	case "sqlite", "leveldb", "memory":
	default:
		return fmt.Errorf("неизвестный storage_driver: %s", c.StorageDriver)
	}
	if c.QueueMaxAttempts < 1 {
		return fmt.Errorf("queue_max_attempts должен быть не меньше 1")
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
