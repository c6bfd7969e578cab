package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/coral/pkg/builder"
	"github.com/platinummonkey/coral/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Analysis configuration
	Analysis AnalysisConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Directory of prebuilt frontend assets, served at / when set
	StaticDir string

	// Extra CORS origins beyond the local development defaults
	AllowedOrigins []string
}

// AnalysisConfig holds graph construction and watch settings
type AnalysisConfig struct {
	// File path prefixes treated as external shared-schema namespaces
	ExternalPrefixes []string

	// Quiet period after a filesystem event before rebuilding
	WatchDebounce time.Duration

	// Compiled descriptor cache
	CacheSize int
	CacheTTL  time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Analysis:      loadAnalysisConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("CORAL_HOST", "0.0.0.0"),
		Port:            getEnv("CORAL_PORT", "8080"),
		ReadTimeout:     getEnvDuration("CORAL_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("CORAL_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("CORAL_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("CORAL_SHUTDOWN_TIMEOUT", 30*time.Second),
		StaticDir:       getEnv("CORAL_STATIC_DIR", ""),
		AllowedOrigins:  splitList(getEnv("CORAL_ALLOWED_ORIGINS", "")),
	}
}

// loadAnalysisConfig loads analysis configuration from environment
func loadAnalysisConfig() AnalysisConfig {
	cfg := AnalysisConfig{
		ExternalPrefixes: builder.DefaultExternalPrefixes,
		WatchDebounce:    getEnvDuration("CORAL_WATCH_DEBOUNCE", 500*time.Millisecond),
		CacheSize:        getEnvInt("CORAL_CACHE_SIZE", 64),
		CacheTTL:         getEnvDuration("CORAL_CACHE_TTL", 10*time.Minute),
	}

	if prefixes := splitList(getEnv("CORAL_EXTERNAL_PREFIXES", "")); len(prefixes) > 0 {
		cfg.ExternalPrefixes = prefixes
	}

	return cfg
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	cfg := ObservabilityConfig{
		LogLevel:           observability.ParseLogLevel(getEnv("CORAL_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("CORAL_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("CORAL_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("CORAL_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("CORAL_OTEL_SERVICE_NAME", "coral"),
		OTelServiceVersion: getEnv("CORAL_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("CORAL_OTEL_INSECURE", true),
	}

	return cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	// Validate analysis config
	if c.Analysis.WatchDebounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}
	if c.Analysis.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive")
	}
	if c.Analysis.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	// Validate OpenTelemetry config
	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// splitList splits a comma separated value into trimmed non-empty entries
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
