package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotidy/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MAX_UPLOAD_MB", "UPLOAD_DIR", "REPORT_DIR", "STATIC_DIR",
		"RECORD_CACHE_TTL", "CHART_WORKERS", "LOG_LEVEL", "LOG_FILE", "METRICS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("UPLOAD_DIR", "/tmp/up")
	t.Setenv("RECORD_CACHE_TTL", "5m")
	t.Setenv("CHART_WORKERS", "2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "/tmp/up", cfg.Paths.UploadDir)
	assert.Equal(t, 5*time.Minute, cfg.Data.RecordCacheTTL)
	assert.Equal(t, 2, cfg.Data.ChartWorkers)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string][2]string{
		"port":    {"PORT", "eighty"},
		"workers": {"CHART_WORKERS", "100"},
		"level":   {"LOG_LEVEL", "LOUD"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
