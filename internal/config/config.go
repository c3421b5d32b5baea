package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL connection settings for the audit log.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for the report archive.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// BackendConfig describes the remote library API and the circuit breaker guarding it.
type BackendConfig struct {
	BaseURL             string
	TimeoutSec          int
	BreakerMaxRequests  int
	BreakerIntervalSec  int
	BreakerTimeoutSec   int
	BreakerMinRequests  int
	BreakerFailureRatio float64
}

// Timeout returns the per-request timeout for backend calls.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSec) * time.Second
}

// CatalogConfig holds defaults for the catalog views.
type CatalogConfig struct {
	AdminPageSize int
	UserPageSize  int
	DebounceMs    int
	ViewTTLSec    int
	MaxViews      int
}

// Debounce returns the quiet window applied to free-text search input.
func (c CatalogConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// ViewTTL returns how long an idle catalog view is kept.
func (c CatalogConfig) ViewTTL() time.Duration {
	return time.Duration(c.ViewTTLSec) * time.Second
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Timezone string
	Backend  BackendConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	Log      LogConfig
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		Backend: BackendConfig{
			BaseURL:             getEnv("BACKEND_URL", "http://localhost:5001"),
			TimeoutSec:          getEnvInt("BACKEND_TIMEOUT_SEC", 15),
			BreakerMaxRequests:  getEnvInt("BACKEND_BREAKER_MAX_REQUESTS", 5),
			BreakerIntervalSec:  getEnvInt("BACKEND_BREAKER_INTERVAL_SEC", 30),
			BreakerTimeoutSec:   getEnvInt("BACKEND_BREAKER_TIMEOUT_SEC", 60),
			BreakerMinRequests:  getEnvInt("BACKEND_BREAKER_MIN_REQUESTS", 5),
			BreakerFailureRatio: getEnvFloat("BACKEND_BREAKER_FAILURE_RATIO", 0.8),
		},
		Catalog: CatalogConfig{
			AdminPageSize: getEnvInt("CATALOG_ADMIN_PAGE_SIZE", 10),
			UserPageSize:  getEnvInt("CATALOG_USER_PAGE_SIZE", 30),
			DebounceMs:    getEnvInt("CATALOG_DEBOUNCE_MS", 400),
			ViewTTLSec:    getEnvInt("CATALOG_VIEW_TTL_SEC", 900),
			MaxViews:      getEnvInt("CATALOG_MAX_VIEWS", 1000),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "reports"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
