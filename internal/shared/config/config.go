package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API     APIConfig
	Auth    AuthConfig
	Ops     OpsConfig
	Logging LoggingConfig
}

// APIConfig holds connection settings for the SIMRS backend.
type APIConfig struct {
	// BaseURL of the backend REST API, without trailing slash
	BaseURL string
	// Timeout applied to every request
	Timeout time.Duration
	// ShowLoading controls whether requests drive the global loading bus
	// by default (individual calls may still opt out)
	ShowLoading bool
}

// AuthConfig holds client-side session settings.
type AuthConfig struct {
	// VaultPath is the location of the durable token store
	VaultPath string
	// LoginBurst is the number of login attempts allowed before throttling
	LoginBurst int
	// LoginInterval is the refill interval of the login limiter
	LoginInterval time.Duration
	// RefreshLeeway refreshes the access token this long before expiry
	RefreshLeeway time.Duration
}

// OpsConfig configures the local operational HTTP endpoint.
type OpsConfig struct {
	// Enabled controls whether /health and /metrics are served
	Enabled bool
	// Port for the local listener
	Port int
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Missing .env is fine; env vars win either way
	_ = godotenv.Load()

	return &Config{
		API: APIConfig{
			BaseURL:     getEnv("VEDIKA_API_URL", "http://localhost:8080"),
			Timeout:     getEnvDuration("VEDIKA_API_TIMEOUT", 30*time.Second),
			ShowLoading: getEnvBool("VEDIKA_API_SHOW_LOADING", true),
		},
		Auth: AuthConfig{
			VaultPath:     getEnv("VEDIKA_VAULT_PATH", defaultVaultPath()),
			LoginBurst:    getEnvInt("VEDIKA_LOGIN_BURST", 5),
			LoginInterval: getEnvDuration("VEDIKA_LOGIN_INTERVAL", 12*time.Second),
			RefreshLeeway: getEnvDuration("VEDIKA_REFRESH_LEEWAY", 60*time.Second),
		},
		Ops: OpsConfig{
			Enabled: getEnvBool("VEDIKA_OPS_ENABLED", true),
			Port:    getEnvInt("VEDIKA_OPS_PORT", 9180),
		},
		Logging: LoggingConfig{
			Level: getEnv("VEDIKA_LOG_LEVEL", "info"),
		},
	}, nil
}

func defaultVaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "vedika-workbench", "session.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
