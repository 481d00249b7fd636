package repository

import (
	"github.com/linkmatch/apitrack/infrastructure/config"
)

// ConfigRepository manages reading and writing the persisted config file
type ConfigRepository interface {
	// Exists checks whether the config file exists
	Exists() (bool, error)

	// Load reads the config from the config file
	Load() (*config.AppConfig, error)

	// Save writes the config to the config file
	Save(config *config.AppConfig) error

	// GetConfigPath returns the config file path
	GetConfigPath() string

	// EnsureConfigDir guarantees the config directory exists
	EnsureConfigDir() error

	// Validate checks the config contents
	Validate(config *config.AppConfig) error
}
