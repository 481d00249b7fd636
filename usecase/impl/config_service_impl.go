package impl

import (
	"context"
	"fmt"
	"sync"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/domain/repository"
	"github.com/linkmatch/apitrack/infrastructure/config"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// ConfigServiceImpl implements ConfigService
type ConfigServiceImpl struct {
	configRepo repository.ConfigRepository
	config     *config.AppConfig
	logger     domain.Logger
	mu         sync.RWMutex
}

// NewConfigService creates a new ConfigService
func NewConfigService(configRepo repository.ConfigRepository, logger domain.Logger) (usecase.ConfigService, error) {
	cfg, err := loadConfigWithFallback(configRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &ConfigServiceImpl{
		configRepo: configRepo,
		config:     cfg,
		logger:     logger,
	}, nil
}

// loadConfigWithFallback loads configuration with fallback to defaults on errors
func loadConfigWithFallback(configRepo repository.ConfigRepository, logger domain.Logger) (*config.AppConfig, error) {
	ctx := context.Background()

	// Start with default configuration
	cfg := config.DefaultConfig()
	logger.Info(ctx, "Loading configuration with fallback", domain.NewField("config_path", configRepo.GetConfigPath()))

	cfg.MarkDefaults()

	// Load from JSON file if it exists
	jsonConfig, err := configRepo.Load()
	if err != nil {
		logger.Warn(ctx, "Failed to load JSON configuration, using defaults",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configRepo.GetConfigPath()))
	} else if jsonConfig != nil {
		cfg.MergeJSONConfig(jsonConfig)
		logger.Info(ctx, "Successfully loaded JSON configuration",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	} else {
		logger.Info(ctx, "No JSON configuration file found, using defaults",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	}

	// Environment variables override JSON values
	if err := cfg.LoadFromEnv(); err != nil {
		logger.Warn(ctx, "Failed to load environment variables, using fallback values",
			domain.NewField("error", err.Error()))
	} else {
		logger.Debug(ctx, "Successfully loaded environment variables")
	}

	if err := cfg.Validate(); err != nil {
		logger.Warn(ctx, "Configuration validation failed, using default values",
			domain.NewField("error", err.Error()))
	} else {
		logger.Info(ctx, "Configuration validation successful")
	}

	return cfg, nil
}

// GetConfig returns the current configuration
func (s *ConfigServiceImpl) GetConfig() *config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config
}

// UpdateConfig validates, persists and applies a new configuration
func (s *ConfigServiceImpl) UpdateConfig(newConfig *config.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := newConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := s.configRepo.Save(newConfig); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	s.config = newConfig

	return nil
}

// GetConfigWithSources returns the configuration and per-field sources
func (s *ConfigServiceImpl) GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config, s.config.ConfigSources
}

// SaveConfig persists the current configuration
func (s *ConfigServiceImpl) SaveConfig() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.configRepo.Save(s.config)
}

// ReloadConfig re-reads the configuration from disk and environment
func (s *ConfigServiceImpl) ReloadConfig() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info(ctx, "Reloading configuration")

	newConfig, err := loadConfigWithFallback(s.configRepo, s.logger)
	if err != nil {
		s.logger.Error(ctx, "Failed to reload configuration",
			domain.NewField("error", err.Error()))
		return fmt.Errorf("failed to reload config: %w", err)
	}

	s.config = newConfig
	s.logger.Info(ctx, "Configuration reloaded successfully")
	return nil
}

// GetConfigPath returns the config file path
func (s *ConfigServiceImpl) GetConfigPath() string {
	return s.configRepo.GetConfigPath()
}

// CreateDefaultConfig writes a default config file; errors if one exists
func (s *ConfigServiceImpl) CreateDefaultConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.configRepo.Exists()
	if err != nil {
		return fmt.Errorf("failed to check config existence: %w", err)
	}
	if exists {
		return fmt.Errorf("config file already exists at %s", s.configRepo.GetConfigPath())
	}

	defaultConfig := config.MinimalDefaultConfig()

	if err := s.configRepo.Save(defaultConfig); err != nil {
		return fmt.Errorf("failed to save default config: %w", err)
	}

	s.config = defaultConfig

	return nil
}

// ExportConfig renders the configuration for display, masking secrets
func (s *ConfigServiceImpl) ExportConfig() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exportMap := make(map[string]interface{})

	if s.config.Tracking != nil {
		trackingMap := make(map[string]interface{})
		trackingMap["outlier_multiplier"] = s.config.Tracking.OutlierMultiplier
		trackingMap["live_log"] = s.config.Tracking.LiveLog
		trackingMap["subscriber_buffer"] = s.config.Tracking.SubscriberBuffer
		exportMap["tracking"] = trackingMap
	}

	if s.config.Report != nil {
		reportMap := make(map[string]interface{})
		reportMap["directory"] = s.config.Report.Directory
		reportMap["interval_seconds"] = s.config.Report.IntervalSec
		reportMap["host_label"] = s.config.Report.HostLabel
		reportMap["retain_count"] = s.config.Report.RetainCount
		exportMap["report"] = reportMap
	}

	if s.config.Prometheus != nil {
		prometheusMap := make(map[string]interface{})
		prometheusMap["remote_write_url"] = s.config.Prometheus.RemoteWriteURL
		prometheusMap["timeout_seconds"] = s.config.Prometheus.TimeoutSec
		prometheusMap["remote_write_username"] = s.config.Prometheus.RemoteWriteUsername
		// Mask the password
		if s.config.Prometheus.RemoteWritePassword != "" {
			prometheusMap["remote_write_password"] = "****"
		}
		exportMap["prometheus"] = prometheusMap
	}

	if s.config.CloudWatch != nil {
		cloudWatchMap := make(map[string]interface{})
		cloudWatchMap["enabled"] = s.config.CloudWatch.Enabled
		cloudWatchMap["region"] = s.config.CloudWatch.Region
		cloudWatchMap["namespace"] = s.config.CloudWatch.Namespace
		cloudWatchMap["aws_profile"] = s.config.CloudWatch.AWSProfile
		cloudWatchMap["assume_role_arn"] = s.config.CloudWatch.AssumeRoleARN
		exportMap["cloudwatch"] = cloudWatchMap
	}

	if s.config.CloudMonitoring != nil {
		monitoringMap := make(map[string]interface{})
		monitoringMap["enabled"] = s.config.CloudMonitoring.Enabled
		monitoringMap["project_id"] = s.config.CloudMonitoring.ProjectID
		monitoringMap["service_account_key_path"] = s.config.CloudMonitoring.ServiceAccountKeyPath
		// Mask the inline key
		if s.config.CloudMonitoring.ServiceAccountKey != "" {
			monitoringMap["service_account_key"] = "****"
		}
		exportMap["cloud_monitoring"] = monitoringMap
	}

	if s.config.Archive != nil {
		archiveMap := make(map[string]interface{})
		archiveMap["enabled"] = s.config.Archive.Enabled
		archiveMap["database_path"] = s.config.Archive.DatabasePath
		archiveMap["retention_days"] = s.config.Archive.RetentionDays
		exportMap["archive"] = archiveMap
	}

	if s.config.Daemon != nil {
		daemonMap := make(map[string]interface{})
		daemonMap["enabled"] = s.config.Daemon.Enabled
		daemonMap["log_path"] = s.config.Daemon.LogPath
		daemonMap["pid_file"] = s.config.Daemon.PidFile
		exportMap["daemon"] = daemonMap
	}

	if s.config.Logging != nil {
		loggingMap := make(map[string]interface{})
		loggingMap["level"] = s.config.Logging.Level
		loggingMap["debug"] = s.config.Logging.Debug

		if s.config.Logging.Promtail != nil {
			promtailMap := make(map[string]interface{})
			promtailMap["url"] = s.config.Logging.Promtail.URL
			promtailMap["username"] = s.config.Logging.Promtail.Username
			// Mask the password
			if s.config.Logging.Promtail.Password != "" {
				promtailMap["password"] = "****"
			}
			promtailMap["batch_wait_seconds"] = s.config.Logging.Promtail.BatchWaitSeconds
			promtailMap["batch_capacity"] = s.config.Logging.Promtail.BatchCapacity
			promtailMap["timeout_seconds"] = s.config.Logging.Promtail.TimeoutSeconds
			loggingMap["promtail"] = promtailMap
		}
		exportMap["logging"] = loggingMap
	}

	sourcesMap := make(map[string]string)
	for key, source := range s.config.ConfigSources {
		sourcesMap[key] = string(source)
	}
	exportMap["_sources"] = sourcesMap

	return exportMap
}

// EnsureConfigExists creates a template config file when none exists
func (s *ConfigServiceImpl) EnsureConfigExists() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	configPath := s.configRepo.GetConfigPath()
	s.logger.Debug(ctx, "Checking if configuration file exists",
		domain.NewField("config_path", configPath))

	exists, err := s.configRepo.Exists()
	if err != nil {
		s.logger.Error(ctx, "Failed to check config existence",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to check config existence: %w", err)
	}

	if exists {
		s.logger.Debug(ctx, "Configuration file already exists",
			domain.NewField("config_path", configPath))
		return nil
	}

	s.logger.Info(ctx, "Configuration file not found, creating template",
		domain.NewField("config_path", configPath))

	defaultConfig := config.MinimalDefaultConfig()
	if err := s.configRepo.Save(defaultConfig); err != nil {
		s.logger.Error(ctx, "Failed to create template configuration",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to create template config: %w", err)
	}

	s.config = defaultConfig
	s.logger.Info(ctx, "Template configuration created successfully",
		domain.NewField("config_path", configPath))

	return nil
}

// CreateTemplateConfig writes a template config file unconditionally
func (s *ConfigServiceImpl) CreateTemplateConfig() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	configPath := s.configRepo.GetConfigPath()
	s.logger.Info(ctx, "Creating template configuration file",
		domain.NewField("config_path", configPath))

	defaultConfig := config.MinimalDefaultConfig()

	if err := s.configRepo.Save(defaultConfig); err != nil {
		s.logger.Error(ctx, "Failed to save template configuration",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to save template config: %w", err)
	}

	s.logger.Info(ctx, "Template configuration file created successfully",
		domain.NewField("config_path", configPath))
	return nil
}

// LoadConfigWithFallback loads configuration, falling back to defaults on any error
func (s *ConfigServiceImpl) LoadConfigWithFallback() (*config.AppConfig, error) {
	return loadConfigWithFallback(s.configRepo, s.logger)
}
