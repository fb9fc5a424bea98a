package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"gotidy/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Paths   PathConfig
	Data    DataConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string `validate:"required,numeric"`
	MaxUploadMB int64  `validate:"gt=0"`
}

// PathConfig holds file system paths
type PathConfig struct {
	UploadDir string `validate:"required"`
	ReportDir string `validate:"required"`
	StaticDir string `validate:"required"`
}

// DataConfig holds data processing settings
type DataConfig struct {
	RecordCacheTTL time.Duration `validate:"gte=0"`
	ChartWorkers   int           `validate:"gte=1,lte=32"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
	File  string
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		Paths:   *loadPathConfig(),
		Data:    *loadDataConfig(),
		Logging: *loadLoggingConfig(),
		Metrics: *loadMetricsConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "5000", MaxUploadMB: 32},
		Paths:   PathConfig{UploadDir: "uploads", ReportDir: "reports", StaticDir: "static"},
		Data:    DataConfig{RecordCacheTTL: 30 * time.Minute, ChartWorkers: 4},
		Logging: LoggingConfig{Level: "INFO"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func loadServerConfig() *ServerConfig {
	def := Default().Server
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", def.Port),
		MaxUploadMB: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", int(def.MaxUploadMB))),
	}
}

func loadPathConfig() *PathConfig {
	def := Default().Paths
	return &PathConfig{
		UploadDir: getEnvOrDefault("UPLOAD_DIR", def.UploadDir),
		ReportDir: getEnvOrDefault("REPORT_DIR", def.ReportDir),
		StaticDir: getEnvOrDefault("STATIC_DIR", def.StaticDir),
	}
}

func loadDataConfig() *DataConfig {
	def := Default().Data
	return &DataConfig{
		RecordCacheTTL: getEnvDurationOrDefault("RECORD_CACHE_TTL", def.RecordCacheTTL),
		ChartWorkers:   getEnvIntOrDefault("CHART_WORKERS", def.ChartWorkers),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", Default().Logging.Level)),
		File:  getEnvOrDefault("LOG_FILE", ""),
	}
}

func loadMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled: getEnvBoolOrDefault("METRICS_ENABLED", Default().Metrics.Enabled),
	}
}

var validate = validator.New()

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.ConfigInvalid(fe.Namespace() + " failed '" + fe.Tag() + "' check")
		}
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
