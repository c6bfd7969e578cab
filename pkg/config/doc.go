// Package config provides application configuration management from
// environment variables and optional project files.
//
// # Overview
//
// This package loads and validates configuration from environment variables
// with sensible defaults for all settings. A project may additionally carry a
// .coral.yaml file whose settings overlay the environment-derived config.
//
// # Configuration Structure
//
// Server settings:
//
//	CORAL_HOST="0.0.0.0"
//	CORAL_PORT="8080"
//	CORAL_READ_TIMEOUT="15s"
//	CORAL_WRITE_TIMEOUT="15s"
//	CORAL_STATIC_DIR="./web/dist"
//	CORAL_ALLOWED_ORIGINS="https://coral.internal.example.com"
//
// Analysis settings:
//
//	CORAL_EXTERNAL_PREFIXES="google/,buf/"
//	CORAL_WATCH_DEBOUNCE="500ms"
//	CORAL_CACHE_SIZE="64"
//	CORAL_CACHE_TTL="10m"
//
// Observability settings:
//
//	CORAL_LOG_LEVEL="info"  # debug, info, warn, error
//	CORAL_METRICS_ENABLED="true"
//	CORAL_OTEL_ENABLED="true"
//	CORAL_OTEL_ENDPOINT="otel-collector:4317"
//
// # Project Files
//
// A .coral.yaml at the root of a proto tree configures per-project behavior:
//
//	version: v1
//	analysis:
//	  external_prefixes:
//	    - google/
//	    - buf/
//	serve:
//	  watch_debounce: 500ms
//	  cache_size: 64
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fc, _ := config.LoadFileConfigFromDir(protoDir)
//	cfg.ApplyFileConfig(fc)
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/builder: Uses the external prefix configuration
//   - pkg/observability: Uses observability configuration
package config
