package usecase

import (
	"github.com/linkmatch/apitrack/infrastructure/config"
)

// ConfigService manages application configuration
type ConfigService interface {
	// GetConfig returns the current configuration
	GetConfig() *config.AppConfig

	// UpdateConfig validates, persists and applies a new configuration
	UpdateConfig(newConfig *config.AppConfig) error

	// GetConfigWithSources returns the configuration together with the
	// source of each field
	GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap)

	// SaveConfig persists the current configuration
	SaveConfig() error

	// ReloadConfig re-reads the configuration from disk and environment
	ReloadConfig() error

	// GetConfigPath returns the config file path
	GetConfigPath() string

	// CreateDefaultConfig writes a default config file; errors if one exists
	CreateDefaultConfig() error

	// ExportConfig renders the configuration for display, masking secrets
	ExportConfig() map[string]interface{}

	// EnsureConfigExists creates a template config file when none exists
	EnsureConfigExists() error

	// CreateTemplateConfig writes a template config file unconditionally
	CreateTemplateConfig() error

	// LoadConfigWithFallback loads configuration, falling back to defaults
	// on any error
	LoadConfigWithFallback() (*config.AppConfig, error)
}
