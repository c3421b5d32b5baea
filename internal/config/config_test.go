package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://library.internal:5001")
	t.Setenv("CATALOG_USER_PAGE_SIZE", "50")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("BACKEND_BREAKER_FAILURE_RATIO", "0.5")

	cfg := Load()

	assert.Equal(t, "http://library.internal:5001", cfg.Backend.BaseURL)
	assert.Equal(t, 50, cfg.Catalog.UserPageSize)
	assert.Equal(t, 10, cfg.Catalog.AdminPageSize)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 0.5, cfg.Backend.BreakerFailureRatio)
}

func TestDurations(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 400*time.Millisecond, cfg.Catalog.Debounce())
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 15*time.Minute, cfg.Catalog.ViewTTL())
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.False(t, getEnvBool(key, false))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvFloat(t *testing.T) {
	key := "TEST_FLOAT_VAR"

	os.Setenv(key, "0.25")
	assert.Equal(t, 0.25, getEnvFloat(key, 1))

	os.Setenv(key, "x")
	assert.Equal(t, 1.0, getEnvFloat(key, 1))

	os.Unsetenv(key)
}
