package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/coral/pkg/builder"
)

// FileConfig represents the project-level .coral.yaml configuration
type FileConfig struct {
	Version  string        `yaml:"version"`
	Analysis AnalysisRules `yaml:"analysis"`
	Serve    ServeRules    `yaml:"serve"`
}

// AnalysisRules contains graph construction settings
type AnalysisRules struct {
	ExternalPrefixes []string `yaml:"external_prefixes"`
}

// ServeRules contains settings for the serve command
type ServeRules struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	WatchDebounce  string   `yaml:"watch_debounce"`
	CacheSize      int      `yaml:"cache_size"`
	CacheTTL       string   `yaml:"cache_ttl"`
	StaticDir      string   `yaml:"static_dir"`
}

// DefaultFileConfig returns the default project configuration
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Version: "v1",
		Analysis: AnalysisRules{
			ExternalPrefixes: append([]string(nil), builder.DefaultExternalPrefixes...),
		},
		Serve: ServeRules{
			WatchDebounce: "500ms",
			CacheSize:     64,
			CacheTTL:      "10m",
		},
	}
}

// LoadFileConfig loads project configuration from a file
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config FileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadFileConfigFromDir searches for a project config file in directory
func LoadFileConfigFromDir(dir string) (*FileConfig, error) {
	configNames := []string{".coral.yaml", ".coral.yml", "coral.yaml", "coral.yml"}

	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFileConfig(path)
		}
	}

	// Return default if no config found
	return DefaultFileConfig(), nil
}

// SaveFileConfig saves project configuration to a file
func SaveFileConfig(config *FileConfig, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyFileConfig overlays project file settings onto the configuration.
// Only values the file actually sets replace the current ones; duration
// strings that fail to parse are ignored.
func (c *Config) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}
	if len(fc.Analysis.ExternalPrefixes) > 0 {
		c.Analysis.ExternalPrefixes = fc.Analysis.ExternalPrefixes
	}
	if len(fc.Serve.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, fc.Serve.AllowedOrigins...)
	}
	if fc.Serve.WatchDebounce != "" {
		if d, err := time.ParseDuration(fc.Serve.WatchDebounce); err == nil && d > 0 {
			c.Analysis.WatchDebounce = d
		}
	}
	if fc.Serve.CacheSize > 0 {
		c.Analysis.CacheSize = fc.Serve.CacheSize
	}
	if fc.Serve.CacheTTL != "" {
		if d, err := time.ParseDuration(fc.Serve.CacheTTL); err == nil && d > 0 {
			c.Analysis.CacheTTL = d
		}
	}
	if fc.Serve.StaticDir != "" {
		c.Server.StaticDir = fc.Serve.StaticDir
	}
}
