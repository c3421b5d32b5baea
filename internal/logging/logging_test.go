package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryfront/internal/config"
)

func TestNew_JSONLine(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "info"}, &buf, time.UTC)

	cl := Component(log, "catalog")
	cl.Info().Int("page", 2).Msg("fetch_applied")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "fetch_applied", entry["msg"])
	assert.Equal(t, "catalog", entry["component"])
	assert.Equal(t, "libraryfront", entry["service"])
	assert.Equal(t, float64(2), entry["page"])
	assert.NotEmpty(t, entry["ts"])
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "warn"}, &buf, nil)

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "chatty"}, &buf, nil)

	log.Debug().Msg("dropped")
	log.Info().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.Equal(t, "req-1", RequestID(WithRequestID(context.Background(), "req-1")))
}
