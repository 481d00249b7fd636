package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Netflix/go-env"
)

// TrackingConfig holds API call tracking configuration
type TrackingConfig struct {
	// OutlierMultiplier is the MAD multiplier for outlier detection
	OutlierMultiplier float64 `json:"outlier_multiplier,omitempty" env:"APITRACK_TRACKING_OUTLIER_MULTIPLIER,default=3.0"`

	// LiveLog enables per-call [API TIMING] log lines
	LiveLog bool `json:"live_log,omitempty" env:"APITRACK_TRACKING_LIVE_LOG,default=true"`

	// SubscriberBuffer is the channel depth for live call subscribers
	SubscriberBuffer int `json:"subscriber_buffer,omitempty" env:"APITRACK_TRACKING_SUBSCRIBER_BUFFER,default=64"`

	// BufferCap bounds the record buffer; overflow drops the oldest records
	BufferCap int `json:"buffer_cap,omitempty" env:"APITRACK_TRACKING_BUFFER_CAP,default=10000"`
}

// ReportConfig holds periodic report generation configuration
type ReportConfig struct {
	// Directory is where report JSON files are written
	Directory string `json:"directory,omitempty" env:"APITRACK_REPORT_DIRECTORY,default=performance_reports"`

	// IntervalSec is the interval in seconds between report generations
	IntervalSec int `json:"interval_seconds,omitempty" env:"APITRACK_REPORT_INTERVAL_SECONDS,default=3600"`

	// HostLabel is the host label attached to published series
	HostLabel string `json:"host_label,omitempty" env:"APITRACK_REPORT_HOST_LABEL"`

	// RetainCount is how many report files to keep; zero keeps all
	RetainCount int `json:"retain_count,omitempty" env:"APITRACK_REPORT_RETAIN_COUNT,default=0"`
}

// PrometheusConfig holds Prometheus Remote Write publishing configuration
type PrometheusConfig struct {
	// RemoteWriteURL is the Prometheus Remote Write endpoint URL
	RemoteWriteURL string `json:"remote_write_url" env:"APITRACK_PROMETHEUS_REMOTE_WRITE_URL"`

	// RemoteWriteUsername is the username for Remote Write authentication
	RemoteWriteUsername string `json:"remote_write_username" env:"APITRACK_PROMETHEUS_REMOTE_WRITE_USERNAME"`

	// RemoteWritePassword is the password for Remote Write authentication
	RemoteWritePassword string `json:"remote_write_password" env:"APITRACK_PROMETHEUS_REMOTE_WRITE_PASSWORD"`

	// TimeoutSec is the timeout in seconds for remote write pushes
	TimeoutSec int `json:"timeout_seconds,omitempty" env:"APITRACK_PROMETHEUS_TIMEOUT_SECONDS,default=30"`
}

// CloudWatchConfig holds AWS CloudWatch publishing configuration
type CloudWatchConfig struct {
	// Enabled indicates if CloudWatch publishing is enabled
	Enabled bool `json:"enabled,omitempty" env:"APITRACK_CLOUDWATCH_ENABLED,default=false"`

	// Region is the AWS region to publish to
	Region string `json:"region,omitempty" env:"APITRACK_CLOUDWATCH_REGION,default=us-east-1"`

	// Namespace is the CloudWatch metric namespace
	Namespace string `json:"namespace,omitempty" env:"APITRACK_CLOUDWATCH_NAMESPACE,default=APITrack"`

	// AWSProfile is the AWS profile to use (optional)
	AWSProfile string `json:"aws_profile,omitempty" env:"APITRACK_CLOUDWATCH_AWS_PROFILE,default="`

	// AssumeRoleARN is the ARN of the role to assume (optional)
	AssumeRoleARN string `json:"assume_role_arn,omitempty" env:"APITRACK_CLOUDWATCH_ASSUME_ROLE_ARN,default="`
}

// CloudMonitoringConfig holds Google Cloud Monitoring publishing configuration
type CloudMonitoringConfig struct {
	// Enabled indicates if Cloud Monitoring publishing is enabled
	Enabled bool `json:"enabled,omitempty" env:"APITRACK_CLOUD_MONITORING_ENABLED,default=false"`

	// ProjectID is the Google Cloud Project ID
	ProjectID string `json:"project_id,omitempty" env:"APITRACK_CLOUD_MONITORING_PROJECT_ID,default="`

	// ServiceAccountKeyPath is the path to the service account key file (optional)
	ServiceAccountKeyPath string `json:"service_account_key_path,omitempty" env:"APITRACK_CLOUD_MONITORING_SERVICE_ACCOUNT_KEY_PATH,default="`

	// ServiceAccountKey is the service account key JSON content (optional)
	ServiceAccountKey string `json:"service_account_key,omitempty" env:"APITRACK_CLOUD_MONITORING_SERVICE_ACCOUNT_KEY,default="`
}

// ArchiveConfig holds raw call record archive configuration
type ArchiveConfig struct {
	// Enabled indicates if the SQLite record archive is enabled
	Enabled bool `json:"enabled,omitempty" env:"APITRACK_ARCHIVE_ENABLED,default=false"`

	// DatabasePath is the SQLite database file path
	DatabasePath string `json:"database_path,omitempty" env:"APITRACK_ARCHIVE_DB_PATH,default=performance_reports/api_calls.db"`

	// RetentionDays is how many days of raw records to keep; zero keeps all
	RetentionDays int `json:"retention_days,omitempty" env:"APITRACK_ARCHIVE_RETENTION_DAYS,default=30"`
}

// AnalysisConfig holds report analysis tuning
type AnalysisConfig struct {
	// SlowMeanSeconds flags an API whose mean duration exceeds this
	SlowMeanSeconds float64 `json:"slow_mean_seconds,omitempty" env:"APITRACK_ANALYSIS_SLOW_MEAN_SECONDS,default=1.0"`

	// SlowP95Seconds flags an API whose p95 duration exceeds this
	SlowP95Seconds float64 `json:"slow_p95_seconds,omitempty" env:"APITRACK_ANALYSIS_SLOW_P95_SECONDS,default=2.0"`

	// HighVolumeShare flags an API holding more than this share of calls
	HighVolumeShare float64 `json:"high_volume_share,omitempty" env:"APITRACK_ANALYSIS_HIGH_VOLUME_SHARE,default=0.4"`

	// HighVolumeMinCalls is the call floor for the volume rule
	HighVolumeMinCalls int `json:"high_volume_min_calls,omitempty" env:"APITRACK_ANALYSIS_HIGH_VOLUME_MIN_CALLS,default=10"`

	// UnstableOutlierRate flags an API whose outlier fraction exceeds this
	UnstableOutlierRate float64 `json:"unstable_outlier_rate,omitempty" env:"APITRACK_ANALYSIS_UNSTABLE_OUTLIER_RATE,default=0.1"`

	// HighFailureRate flags an API whose failure fraction exceeds this
	HighFailureRate float64 `json:"high_failure_rate,omitempty" env:"APITRACK_ANALYSIS_HIGH_FAILURE_RATE,default=0.05"`

	// RegressionDeltaPct flags a mean change beyond +/- this percent
	RegressionDeltaPct float64 `json:"regression_delta_pct,omitempty" env:"APITRACK_ANALYSIS_REGRESSION_DELTA_PCT,default=25.0"`
}

// DaemonConfig holds daemon mode configuration
type DaemonConfig struct {
	// Enabled indicates whether daemon mode is enabled
	Enabled bool `json:"enabled,omitempty" env:"APITRACK_DAEMON_ENABLED"`

	// LogPath is the path for daemon log files
	LogPath string `json:"log_path,omitempty" env:"APITRACK_DAEMON_LOG_PATH"`

	// PidFile is the path for the daemon PID file
	PidFile string `json:"pid_file,omitempty" env:"APITRACK_DAEMON_PID_FILE"`
}

// PromtailConfig holds Promtail logging configuration
type PromtailConfig struct {
	// URL is the Promtail push endpoint URL
	URL string `json:"url" env:"APITRACK_LOKI_URL"`

	// Username is the username for basic authentication
	Username string `json:"username" env:"APITRACK_LOKI_USERNAME"`

	// Password is the password for basic authentication
	Password string `json:"password" env:"APITRACK_LOKI_PASSWORD"`

	// BatchWaitSeconds is the time to wait before sending a batch
	BatchWaitSeconds int `json:"batch_wait_seconds,omitempty" env:"APITRACK_LOKI_BATCH_WAIT_SECONDS,default=1"`

	// BatchCapacity is the maximum number of log entries in a batch
	BatchCapacity int `json:"batch_capacity,omitempty" env:"APITRACK_LOKI_BATCH_CAPACITY,default=100"`

	// TimeoutSeconds is the timeout for sending logs
	TimeoutSeconds int `json:"timeout_seconds,omitempty" env:"APITRACK_LOKI_TIMEOUT_SECONDS,default=5"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" env:"APITRACK_LOG_LEVEL,default=info"`

	// Debug enables debug mode with stdout logging
	Debug bool `json:"debug,omitempty" env:"APITRACK_LOG_DEBUG,default=false"`

	// Promtail holds Promtail configuration
	Promtail *PromtailConfig `json:"promtail,omitempty"`
}

// CSVExportConfig holds CSV export configuration
type CSVExportConfig struct {
	// DefaultOutputPath is the default output directory for CSV files
	DefaultOutputPath string `json:"default_output_path,omitempty" env:"APITRACK_CSV_EXPORT_DEFAULT_OUTPUT_PATH,default=."`

	// DefaultStartDays is the default number of days to look back for data
	DefaultStartDays int `json:"default_start_days,omitempty" env:"APITRACK_CSV_EXPORT_DEFAULT_START_DAYS,default=30"`

	// MaxExportDays is the maximum number of days allowed for export range
	MaxExportDays int `json:"max_export_days,omitempty" env:"APITRACK_CSV_EXPORT_MAX_EXPORT_DAYS,default=365"`
}

// ConfigSource represents the source of a configuration value
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceJSONFile    ConfigSource = "json"
	SourceEnvironment ConfigSource = "env"
)

// ConfigSourceMap tracks the source of each configuration field
type ConfigSourceMap map[string]ConfigSource

// AppConfig holds application configuration
type AppConfig struct {
	// Version is the configuration schema version
	Version int `json:"version,omitempty"`

	// Tracking holds API call tracking configuration
	Tracking *TrackingConfig `json:"tracking,omitempty"`

	// Report holds periodic report configuration
	Report *ReportConfig `json:"report,omitempty"`

	// Analysis holds analyzer threshold configuration
	Analysis *AnalysisConfig `json:"analysis,omitempty"`

	// Prometheus holds Prometheus Remote Write configuration
	Prometheus *PrometheusConfig `json:"prometheus,omitempty"`

	// CloudWatch holds AWS CloudWatch publishing configuration
	CloudWatch *CloudWatchConfig `json:"cloudwatch,omitempty"`

	// CloudMonitoring holds Google Cloud Monitoring publishing configuration
	CloudMonitoring *CloudMonitoringConfig `json:"cloud_monitoring,omitempty"`

	// Archive holds raw record archive configuration
	Archive *ArchiveConfig `json:"archive,omitempty"`

	// Daemon holds daemon mode configuration
	Daemon *DaemonConfig `json:"daemon,omitempty"`

	// Logging holds logging configuration
	Logging *LoggingConfig `json:"logging,omitempty"`

	// CSVExport holds CSV export configuration
	CSVExport *CSVExportConfig `json:"csv_export,omitempty"`

	// ConfigSources tracks the source of each configuration field
	ConfigSources ConfigSourceMap `json:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1, // Current configuration schema version
		Tracking: &TrackingConfig{
			OutlierMultiplier: 3.0,
			LiveLog:           true,
			SubscriberBuffer:  64,
			BufferCap:         10000,
		},
		Report: &ReportConfig{
			Directory:   "performance_reports",
			IntervalSec: 3600, // hourly
			HostLabel:   "",
			RetainCount: 0,
		},
		Analysis: &AnalysisConfig{
			SlowMeanSeconds:     1.0,
			SlowP95Seconds:      2.0,
			HighVolumeShare:     0.4,
			HighVolumeMinCalls:  10,
			UnstableOutlierRate: 0.1,
			HighFailureRate:     0.05,
			RegressionDeltaPct:  25.0,
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL:      "", // Empty by default, must be set via environment variable or config.json
			RemoteWriteUsername: "",
			RemoteWritePassword: "",
			TimeoutSec:          30,
		},
		CloudWatch: &CloudWatchConfig{
			Enabled:       false, // Disabled by default
			Region:        "us-east-1",
			Namespace:     "APITrack",
			AWSProfile:    "",
			AssumeRoleARN: "",
		},
		CloudMonitoring: &CloudMonitoringConfig{
			Enabled:               false, // Disabled by default
			ProjectID:             "",
			ServiceAccountKeyPath: "",
			ServiceAccountKey:     "",
		},
		Archive: &ArchiveConfig{
			Enabled:       false,
			DatabasePath:  "performance_reports/api_calls.db",
			RetentionDays: 30,
		},
		Daemon: &DaemonConfig{
			Enabled: false,
			LogPath: "/tmp/apitrack.log",
			PidFile: "/tmp/apitrack.pid",
		},
		Logging: &LoggingConfig{
			Level: "info",
			Debug: false,
			Promtail: &PromtailConfig{
				URL:              "",
				BatchWaitSeconds: 1,
				BatchCapacity:    100,
				TimeoutSeconds:   5,
			},
		},
		CSVExport: &CSVExportConfig{
			DefaultOutputPath: ".",
			DefaultStartDays:  30,
			MaxExportDays:     365,
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// MinimalDefaultConfig returns the slimmed-down config used when writing
// a template config file
func MinimalDefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1, // Current configuration version
		Report: &ReportConfig{
			Directory:   "performance_reports",
			IntervalSec: 3600,
			HostLabel:   "",
			RetainCount: 0,
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL:      "",
			RemoteWriteUsername: "",
			RemoteWritePassword: "",
			TimeoutSec:          30,
		},
		Logging: &LoggingConfig{
			Level: "info",
			Debug: false,
			Promtail: &PromtailConfig{
				URL:              "",
				Username:         "",
				Password:         "",
				BatchWaitSeconds: 1,
				BatchCapacity:    100,
				TimeoutSeconds:   5,
			},
		},
		CSVExport: &CSVExportConfig{
			DefaultOutputPath: ".",
			DefaultStartDays:  30,
			MaxExportDays:     365,
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from environment variables using Netflix/go-env
func (c *AppConfig) LoadFromEnv() error {
	// Snapshot current values so env overrides can be detected afterwards
	original := c.clone()

	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	// go-env does not descend into pointer fields, so each nested
	// struct is unmarshaled explicitly.
	if c.Tracking != nil {
		if _, err := env.UnmarshalFromEnviron(c.Tracking); err != nil {
			return fmt.Errorf("failed to unmarshal Tracking environment variables: %w", err)
		}
		c.trackTrackingEnvOverrides(original.Tracking)
	}

	if c.Report != nil {
		if _, err := env.UnmarshalFromEnviron(c.Report); err != nil {
			return fmt.Errorf("failed to unmarshal Report environment variables: %w", err)
		}
		c.trackReportEnvOverrides(original.Report)
	}

	if c.Analysis != nil {
		if _, err := env.UnmarshalFromEnviron(c.Analysis); err != nil {
			return fmt.Errorf("failed to unmarshal Analysis environment variables: %w", err)
		}
		c.trackAnalysisEnvOverrides(original.Analysis)
	}

	if c.Prometheus != nil {
		if _, err := env.UnmarshalFromEnviron(c.Prometheus); err != nil {
			return fmt.Errorf("failed to unmarshal Prometheus environment variables: %w", err)
		}
		c.trackPrometheusEnvOverrides(original.Prometheus)
	}

	if c.CloudWatch != nil {
		if _, err := env.UnmarshalFromEnviron(c.CloudWatch); err != nil {
			return fmt.Errorf("failed to unmarshal CloudWatch environment variables: %w", err)
		}
		c.trackCloudWatchEnvOverrides(original.CloudWatch)
	}

	if c.CloudMonitoring != nil {
		if _, err := env.UnmarshalFromEnviron(c.CloudMonitoring); err != nil {
			return fmt.Errorf("failed to unmarshal CloudMonitoring environment variables: %w", err)
		}
		// Custom handling for base64-encoded ServiceAccountKey
		if base64Key := os.Getenv("APITRACK_CLOUD_MONITORING_SERVICE_ACCOUNT_KEY"); base64Key != "" {
			decodedKey, err := base64.StdEncoding.DecodeString(base64Key)
			if err != nil {
				return fmt.Errorf("failed to decode base64 service account key: %w", err)
			}
			c.CloudMonitoring.ServiceAccountKey = string(decodedKey)
		}
		c.trackCloudMonitoringEnvOverrides(original.CloudMonitoring)
	}

	if c.Archive != nil {
		if _, err := env.UnmarshalFromEnviron(c.Archive); err != nil {
			return fmt.Errorf("failed to unmarshal Archive environment variables: %w", err)
		}
		c.trackArchiveEnvOverrides(original.Archive)
	}

	if c.Daemon != nil {
		if _, err := env.UnmarshalFromEnviron(c.Daemon); err != nil {
			return fmt.Errorf("failed to unmarshal Daemon environment variables: %w", err)
		}
		c.trackDaemonEnvOverrides(original.Daemon)
	}

	if c.Logging != nil {
		if _, err := env.UnmarshalFromEnviron(c.Logging); err != nil {
			return fmt.Errorf("failed to unmarshal Logging environment variables: %w", err)
		}
		c.trackLoggingEnvOverrides(original.Logging)

		if c.Logging.Promtail != nil {
			if _, err := env.UnmarshalFromEnviron(c.Logging.Promtail); err != nil {
				return fmt.Errorf("failed to unmarshal Promtail environment variables: %w", err)
			}
			if original.Logging != nil && original.Logging.Promtail != nil {
				c.trackPromtailEnvOverrides(original.Logging.Promtail)
			}
		}
	}

	if c.CSVExport != nil {
		if _, err := env.UnmarshalFromEnviron(c.CSVExport); err != nil {
			return fmt.Errorf("failed to unmarshal CSVExport environment variables: %w", err)
		}
		c.trackCSVExportEnvOverrides(original.CSVExport)
	}

	return nil
}

// clone deep-copies the configuration for override tracking
func (c *AppConfig) clone() *AppConfig {
	copied := &AppConfig{Version: c.Version}
	if c.Tracking != nil {
		t := *c.Tracking
		copied.Tracking = &t
	}
	if c.Report != nil {
		r := *c.Report
		copied.Report = &r
	}
	if c.Analysis != nil {
		a := *c.Analysis
		copied.Analysis = &a
	}
	if c.Prometheus != nil {
		p := *c.Prometheus
		copied.Prometheus = &p
	}
	if c.CloudWatch != nil {
		cw := *c.CloudWatch
		copied.CloudWatch = &cw
	}
	if c.CloudMonitoring != nil {
		cm := *c.CloudMonitoring
		copied.CloudMonitoring = &cm
	}
	if c.Archive != nil {
		a := *c.Archive
		copied.Archive = &a
	}
	if c.Daemon != nil {
		d := *c.Daemon
		copied.Daemon = &d
	}
	if c.Logging != nil {
		l := *c.Logging
		copied.Logging = &l
		if c.Logging.Promtail != nil {
			p := *c.Logging.Promtail
			copied.Logging.Promtail = &p
		}
	}
	if c.CSVExport != nil {
		e := *c.CSVExport
		copied.CSVExport = &e
	}
	return copied
}

// trackTrackingEnvOverrides tracks environment variable overrides for Tracking config
func (c *AppConfig) trackTrackingEnvOverrides(original *TrackingConfig) {
	if original == nil {
		return
	}
	if c.Tracking.OutlierMultiplier != original.OutlierMultiplier && os.Getenv("APITRACK_TRACKING_OUTLIER_MULTIPLIER") != "" {
		c.ConfigSources["Tracking.OutlierMultiplier"] = SourceEnvironment
	}
	if c.Tracking.LiveLog != original.LiveLog && os.Getenv("APITRACK_TRACKING_LIVE_LOG") != "" {
		c.ConfigSources["Tracking.LiveLog"] = SourceEnvironment
	}
	if c.Tracking.SubscriberBuffer != original.SubscriberBuffer && os.Getenv("APITRACK_TRACKING_SUBSCRIBER_BUFFER") != "" {
		c.ConfigSources["Tracking.SubscriberBuffer"] = SourceEnvironment
	}
	if c.Tracking.BufferCap != original.BufferCap && os.Getenv("APITRACK_TRACKING_BUFFER_CAP") != "" {
		c.ConfigSources["Tracking.BufferCap"] = SourceEnvironment
	}
}

// trackReportEnvOverrides tracks environment variable overrides for Report config
func (c *AppConfig) trackReportEnvOverrides(original *ReportConfig) {
	if original == nil {
		return
	}
	if c.Report.Directory != original.Directory && os.Getenv("APITRACK_REPORT_DIRECTORY") != "" {
		c.ConfigSources["Report.Directory"] = SourceEnvironment
	}
	if c.Report.IntervalSec != original.IntervalSec && os.Getenv("APITRACK_REPORT_INTERVAL_SECONDS") != "" {
		c.ConfigSources["Report.IntervalSec"] = SourceEnvironment
	}
	if c.Report.HostLabel != original.HostLabel && os.Getenv("APITRACK_REPORT_HOST_LABEL") != "" {
		c.ConfigSources["Report.HostLabel"] = SourceEnvironment
	}
	if c.Report.RetainCount != original.RetainCount && os.Getenv("APITRACK_REPORT_RETAIN_COUNT") != "" {
		c.ConfigSources["Report.RetainCount"] = SourceEnvironment
	}
}

// trackAnalysisEnvOverrides tracks environment variable overrides for Analysis config
func (c *AppConfig) trackAnalysisEnvOverrides(original *AnalysisConfig) {
	if original == nil {
		return
	}
	if c.Analysis.SlowMeanSeconds != original.SlowMeanSeconds && os.Getenv("APITRACK_ANALYSIS_SLOW_MEAN_SECONDS") != "" {
		c.ConfigSources["Analysis.SlowMeanSeconds"] = SourceEnvironment
	}
	if c.Analysis.SlowP95Seconds != original.SlowP95Seconds && os.Getenv("APITRACK_ANALYSIS_SLOW_P95_SECONDS") != "" {
		c.ConfigSources["Analysis.SlowP95Seconds"] = SourceEnvironment
	}
	if c.Analysis.HighVolumeShare != original.HighVolumeShare && os.Getenv("APITRACK_ANALYSIS_HIGH_VOLUME_SHARE") != "" {
		c.ConfigSources["Analysis.HighVolumeShare"] = SourceEnvironment
	}
	if c.Analysis.HighVolumeMinCalls != original.HighVolumeMinCalls && os.Getenv("APITRACK_ANALYSIS_HIGH_VOLUME_MIN_CALLS") != "" {
		c.ConfigSources["Analysis.HighVolumeMinCalls"] = SourceEnvironment
	}
	if c.Analysis.UnstableOutlierRate != original.UnstableOutlierRate && os.Getenv("APITRACK_ANALYSIS_UNSTABLE_OUTLIER_RATE") != "" {
		c.ConfigSources["Analysis.UnstableOutlierRate"] = SourceEnvironment
	}
	if c.Analysis.HighFailureRate != original.HighFailureRate && os.Getenv("APITRACK_ANALYSIS_HIGH_FAILURE_RATE") != "" {
		c.ConfigSources["Analysis.HighFailureRate"] = SourceEnvironment
	}
	if c.Analysis.RegressionDeltaPct != original.RegressionDeltaPct && os.Getenv("APITRACK_ANALYSIS_REGRESSION_DELTA_PCT") != "" {
		c.ConfigSources["Analysis.RegressionDeltaPct"] = SourceEnvironment
	}
}

// trackPrometheusEnvOverrides tracks environment variable overrides for Prometheus config
func (c *AppConfig) trackPrometheusEnvOverrides(original *PrometheusConfig) {
	if original == nil {
		return
	}
	if c.Prometheus.RemoteWriteURL != original.RemoteWriteURL && os.Getenv("APITRACK_PROMETHEUS_REMOTE_WRITE_URL") != "" {
		c.ConfigSources["Prometheus.RemoteWriteURL"] = SourceEnvironment
	}
	if c.Prometheus.RemoteWriteUsername != original.RemoteWriteUsername && os.Getenv("APITRACK_PROMETHEUS_REMOTE_WRITE_USERNAME") != "" {
		c.ConfigSources["Prometheus.RemoteWriteUsername"] = SourceEnvironment
	}
	if c.Prometheus.RemoteWritePassword != original.RemoteWritePassword && os.Getenv("APITRACK_PROMETHEUS_REMOTE_WRITE_PASSWORD") != "" {
		c.ConfigSources["Prometheus.RemoteWritePassword"] = SourceEnvironment
	}
	if c.Prometheus.TimeoutSec != original.TimeoutSec && os.Getenv("APITRACK_PROMETHEUS_TIMEOUT_SECONDS") != "" {
		c.ConfigSources["Prometheus.TimeoutSec"] = SourceEnvironment
	}
}

// trackCloudWatchEnvOverrides tracks environment variable overrides for CloudWatch config
func (c *AppConfig) trackCloudWatchEnvOverrides(original *CloudWatchConfig) {
	if original == nil {
		return
	}
	if c.CloudWatch.Enabled != original.Enabled && os.Getenv("APITRACK_CLOUDWATCH_ENABLED") != "" {
		c.ConfigSources["CloudWatch.Enabled"] = SourceEnvironment
	}
	if c.CloudWatch.Region != original.Region && os.Getenv("APITRACK_CLOUDWATCH_REGION") != "" {
		c.ConfigSources["CloudWatch.Region"] = SourceEnvironment
	}
	if c.CloudWatch.Namespace != original.Namespace && os.Getenv("APITRACK_CLOUDWATCH_NAMESPACE") != "" {
		c.ConfigSources["CloudWatch.Namespace"] = SourceEnvironment
	}
	if c.CloudWatch.AWSProfile != original.AWSProfile && os.Getenv("APITRACK_CLOUDWATCH_AWS_PROFILE") != "" {
		c.ConfigSources["CloudWatch.AWSProfile"] = SourceEnvironment
	}
	if c.CloudWatch.AssumeRoleARN != original.AssumeRoleARN && os.Getenv("APITRACK_CLOUDWATCH_ASSUME_ROLE_ARN") != "" {
		c.ConfigSources["CloudWatch.AssumeRoleARN"] = SourceEnvironment
	}
}

// trackCloudMonitoringEnvOverrides tracks environment variable overrides for CloudMonitoring config
func (c *AppConfig) trackCloudMonitoringEnvOverrides(original *CloudMonitoringConfig) {
	if original == nil {
		return
	}
	if c.CloudMonitoring.Enabled != original.Enabled && os.Getenv("APITRACK_CLOUD_MONITORING_ENABLED") != "" {
		c.ConfigSources["CloudMonitoring.Enabled"] = SourceEnvironment
	}
	if c.CloudMonitoring.ProjectID != original.ProjectID && os.Getenv("APITRACK_CLOUD_MONITORING_PROJECT_ID") != "" {
		c.ConfigSources["CloudMonitoring.ProjectID"] = SourceEnvironment
	}
	if c.CloudMonitoring.ServiceAccountKeyPath != original.ServiceAccountKeyPath && os.Getenv("APITRACK_CLOUD_MONITORING_SERVICE_ACCOUNT_KEY_PATH") != "" {
		c.ConfigSources["CloudMonitoring.ServiceAccountKeyPath"] = SourceEnvironment
	}
	if c.CloudMonitoring.ServiceAccountKey != original.ServiceAccountKey && os.Getenv("APITRACK_CLOUD_MONITORING_SERVICE_ACCOUNT_KEY") != "" {
		c.ConfigSources["CloudMonitoring.ServiceAccountKey"] = SourceEnvironment
	}
}

// trackArchiveEnvOverrides tracks environment variable overrides for Archive config
func (c *AppConfig) trackArchiveEnvOverrides(original *ArchiveConfig) {
	if original == nil {
		return
	}
	if c.Archive.Enabled != original.Enabled && os.Getenv("APITRACK_ARCHIVE_ENABLED") != "" {
		c.ConfigSources["Archive.Enabled"] = SourceEnvironment
	}
	if c.Archive.DatabasePath != original.DatabasePath && os.Getenv("APITRACK_ARCHIVE_DB_PATH") != "" {
		c.ConfigSources["Archive.DatabasePath"] = SourceEnvironment
	}
	if c.Archive.RetentionDays != original.RetentionDays && os.Getenv("APITRACK_ARCHIVE_RETENTION_DAYS") != "" {
		c.ConfigSources["Archive.RetentionDays"] = SourceEnvironment
	}
}

// trackDaemonEnvOverrides tracks environment variable overrides for Daemon config
func (c *AppConfig) trackDaemonEnvOverrides(original *DaemonConfig) {
	if original == nil {
		return
	}
	if c.Daemon.Enabled != original.Enabled && os.Getenv("APITRACK_DAEMON_ENABLED") != "" {
		c.ConfigSources["Daemon.Enabled"] = SourceEnvironment
	}
	if c.Daemon.LogPath != original.LogPath && os.Getenv("APITRACK_DAEMON_LOG_PATH") != "" {
		c.ConfigSources["Daemon.LogPath"] = SourceEnvironment
	}
	if c.Daemon.PidFile != original.PidFile && os.Getenv("APITRACK_DAEMON_PID_FILE") != "" {
		c.ConfigSources["Daemon.PidFile"] = SourceEnvironment
	}
}

// trackLoggingEnvOverrides tracks environment variable overrides for Logging config
func (c *AppConfig) trackLoggingEnvOverrides(original *LoggingConfig) {
	if original == nil {
		return
	}
	if c.Logging.Level != original.Level && os.Getenv("APITRACK_LOG_LEVEL") != "" {
		c.ConfigSources["Logging.Level"] = SourceEnvironment
	}
	if c.Logging.Debug != original.Debug && os.Getenv("APITRACK_LOG_DEBUG") != "" {
		c.ConfigSources["Logging.Debug"] = SourceEnvironment
	}
}

// trackPromtailEnvOverrides tracks environment variable overrides for Promtail config
func (c *AppConfig) trackPromtailEnvOverrides(original *PromtailConfig) {
	if original == nil {
		return
	}
	if c.Logging.Promtail.URL != original.URL && os.Getenv("APITRACK_LOKI_URL") != "" {
		c.ConfigSources["Promtail.URL"] = SourceEnvironment
	}
	if c.Logging.Promtail.Username != original.Username && os.Getenv("APITRACK_LOKI_USERNAME") != "" {
		c.ConfigSources["Promtail.Username"] = SourceEnvironment
	}
	if c.Logging.Promtail.Password != original.Password && os.Getenv("APITRACK_LOKI_PASSWORD") != "" {
		c.ConfigSources["Promtail.Password"] = SourceEnvironment
	}
	if c.Logging.Promtail.BatchWaitSeconds != original.BatchWaitSeconds && os.Getenv("APITRACK_LOKI_BATCH_WAIT_SECONDS") != "" {
		c.ConfigSources["Promtail.BatchWaitSeconds"] = SourceEnvironment
	}
	if c.Logging.Promtail.BatchCapacity != original.BatchCapacity && os.Getenv("APITRACK_LOKI_BATCH_CAPACITY") != "" {
		c.ConfigSources["Promtail.BatchCapacity"] = SourceEnvironment
	}
	if c.Logging.Promtail.TimeoutSeconds != original.TimeoutSeconds && os.Getenv("APITRACK_LOKI_TIMEOUT_SECONDS") != "" {
		c.ConfigSources["Promtail.TimeoutSeconds"] = SourceEnvironment
	}
}

// trackCSVExportEnvOverrides tracks environment variable overrides for CSVExport config
func (c *AppConfig) trackCSVExportEnvOverrides(original *CSVExportConfig) {
	if original == nil {
		return
	}
	if c.CSVExport.DefaultOutputPath != original.DefaultOutputPath && os.Getenv("APITRACK_CSV_EXPORT_DEFAULT_OUTPUT_PATH") != "" {
		c.ConfigSources["CSVExport.DefaultOutputPath"] = SourceEnvironment
	}
	if c.CSVExport.DefaultStartDays != original.DefaultStartDays && os.Getenv("APITRACK_CSV_EXPORT_DEFAULT_START_DAYS") != "" {
		c.ConfigSources["CSVExport.DefaultStartDays"] = SourceEnvironment
	}
	if c.CSVExport.MaxExportDays != original.MaxExportDays && os.Getenv("APITRACK_CSV_EXPORT_MAX_EXPORT_DAYS") != "" {
		c.ConfigSources["CSVExport.MaxExportDays"] = SourceEnvironment
	}
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	if c.Tracking != nil {
		if err := c.validateTracking(); err != nil {
			return err
		}
	}

	if c.Report != nil {
		if err := c.validateReport(); err != nil {
			return err
		}
	}

	if c.Analysis != nil {
		if err := c.validateAnalysis(); err != nil {
			return err
		}
	}

	if c.Prometheus != nil {
		if err := c.validatePrometheus(); err != nil {
			return err
		}
	}

	if c.CloudWatch != nil {
		if err := c.validateCloudWatch(); err != nil {
			return err
		}
	}

	if c.CloudMonitoring != nil {
		if err := c.validateCloudMonitoring(); err != nil {
			return err
		}
	}

	if c.Archive != nil {
		if err := c.validateArchive(); err != nil {
			return err
		}
	}

	if c.Daemon != nil {
		if err := c.validateDaemon(); err != nil {
			return err
		}
	}

	if c.Logging != nil {
		if err := c.validateLogging(); err != nil {
			return err
		}
	}

	if c.CSVExport != nil {
		if err := c.validateCSVExport(); err != nil {
			return err
		}
	}

	return nil
}

// validateTracking validates Tracking configuration
func (c *AppConfig) validateTracking() error {
	if c.Tracking.OutlierMultiplier <= 0 {
		return fmt.Errorf("tracking outlier multiplier must be positive")
	}
	if c.Tracking.SubscriberBuffer < 1 {
		return fmt.Errorf("tracking subscriber buffer must be at least 1")
	}
	if c.Tracking.BufferCap < 1 {
		return fmt.Errorf("tracking buffer cap must be at least 1")
	}
	return nil
}

// validateReport validates Report configuration
func (c *AppConfig) validateReport() error {
	if c.Report.Directory == "" {
		return fmt.Errorf("report directory cannot be empty")
	}
	if strings.Contains(c.Report.Directory, "..") {
		return fmt.Errorf("report directory must not contain directory traversal")
	}
	if c.Report.IntervalSec < 60 {
		return fmt.Errorf("report interval must be at least 60 seconds")
	}
	if c.Report.RetainCount < 0 {
		return fmt.Errorf("report retain count cannot be negative")
	}
	return nil
}

// validateAnalysis validates Analysis configuration
func (c *AppConfig) validateAnalysis() error {
	if c.Analysis.SlowMeanSeconds <= 0 {
		return fmt.Errorf("analysis slow mean threshold must be positive")
	}
	if c.Analysis.SlowP95Seconds <= 0 {
		return fmt.Errorf("analysis slow p95 threshold must be positive")
	}
	if c.Analysis.HighVolumeShare <= 0 || c.Analysis.HighVolumeShare > 1 {
		return fmt.Errorf("analysis high volume share must be in (0, 1]")
	}
	if c.Analysis.HighVolumeMinCalls < 1 {
		return fmt.Errorf("analysis high volume min calls must be at least 1")
	}
	if c.Analysis.UnstableOutlierRate <= 0 || c.Analysis.UnstableOutlierRate > 1 {
		return fmt.Errorf("analysis unstable outlier rate must be in (0, 1]")
	}
	if c.Analysis.HighFailureRate <= 0 || c.Analysis.HighFailureRate > 1 {
		return fmt.Errorf("analysis high failure rate must be in (0, 1]")
	}
	if c.Analysis.RegressionDeltaPct <= 0 {
		return fmt.Errorf("analysis regression delta percent must be positive")
	}
	return nil
}

// validatePrometheus validates Prometheus configuration
func (c *AppConfig) validatePrometheus() error {
	// Skip validation if RemoteWriteURL is empty (publishing disabled)
	if c.Prometheus.RemoteWriteURL == "" {
		return nil
	}

	if c.Prometheus.TimeoutSec < 1 {
		return fmt.Errorf("prometheus timeout must be at least 1 second")
	}

	if c.Prometheus.RemoteWriteUsername == "" || c.Prometheus.RemoteWritePassword == "" {
		return fmt.Errorf("remote write username and password are required when remote write URL is set")
	}

	return nil
}

// validateCloudWatch validates CloudWatch configuration
func (c *AppConfig) validateCloudWatch() error {
	if !c.CloudWatch.Enabled {
		return nil
	}
	if c.CloudWatch.Region == "" {
		return fmt.Errorf("cloudwatch region cannot be empty when cloudwatch is enabled")
	}
	if c.CloudWatch.Namespace == "" {
		return fmt.Errorf("cloudwatch namespace cannot be empty when cloudwatch is enabled")
	}
	return nil
}

// validateCloudMonitoring validates CloudMonitoring configuration
func (c *AppConfig) validateCloudMonitoring() error {
	if c.CloudMonitoring.Enabled && c.CloudMonitoring.ProjectID == "" {
		return fmt.Errorf("cloud monitoring project ID cannot be empty when cloud monitoring is enabled")
	}

	// Validate service account key JSON if provided
	if c.CloudMonitoring.ServiceAccountKey != "" {
		var keyData map[string]interface{}
		if err := json.Unmarshal([]byte(c.CloudMonitoring.ServiceAccountKey), &keyData); err != nil {
			return fmt.Errorf("invalid service account key JSON: %w", err)
		}

		requiredFields := []string{"type", "project_id", "private_key_id", "private_key", "client_email"}
		for _, field := range requiredFields {
			if _, ok := keyData[field]; !ok {
				return fmt.Errorf("service account key missing required field: %s", field)
			}
		}

		if keyType, ok := keyData["type"].(string); !ok || keyType != "service_account" {
			return fmt.Errorf("service account key must have type 'service_account'")
		}
	}

	return nil
}

// validateArchive validates Archive configuration
func (c *AppConfig) validateArchive() error {
	if c.Archive.Enabled && c.Archive.DatabasePath == "" {
		return fmt.Errorf("archive database path cannot be empty when archive is enabled")
	}
	if c.Archive.RetentionDays < 0 {
		return fmt.Errorf("archive retention days cannot be negative")
	}
	return nil
}

// validateDaemon validates Daemon configuration
func (c *AppConfig) validateDaemon() error {
	if c.Daemon.Enabled && c.Daemon.LogPath == "" {
		return fmt.Errorf("daemon log path cannot be empty when daemon is enabled")
	}
	if c.Daemon.Enabled && c.Daemon.PidFile == "" {
		return fmt.Errorf("daemon PID file path cannot be empty when daemon is enabled")
	}
	return nil
}

// validateLogging validates Logging configuration
func (c *AppConfig) validateLogging() error {
	if c.Logging.Level != "" {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[c.Logging.Level] {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
		}
	}

	if c.Logging.Promtail != nil {
		// Skip validation if Promtail URL is empty (Loki shipping disabled)
		if c.Logging.Promtail.URL == "" {
			return nil
		}

		if c.Logging.Promtail.BatchWaitSeconds < 1 {
			return fmt.Errorf("promtail batch wait must be at least 1 second")
		}

		if c.Logging.Promtail.BatchCapacity < 1 {
			return fmt.Errorf("promtail batch capacity must be at least 1")
		}

		if c.Logging.Promtail.TimeoutSeconds < 1 {
			return fmt.Errorf("promtail timeout must be at least 1 second")
		}
	}

	return nil
}

// validateCSVExport validates CSVExport configuration
func (c *AppConfig) validateCSVExport() error {
	if c.CSVExport.DefaultStartDays < 0 {
		return fmt.Errorf("csv export default start days cannot be negative")
	}
	if c.CSVExport.MaxExportDays < 1 {
		return fmt.Errorf("csv export max export days must be at least 1")
	}
	if c.CSVExport.DefaultStartDays > c.CSVExport.MaxExportDays {
		return fmt.Errorf("csv export default start days cannot exceed max export days")
	}
	return nil
}

// MarkDefaults records every field as coming from defaults. Called
// before JSON and environment merging so later sources can overwrite.
func (c *AppConfig) MarkDefaults() {
	c.ConfigSources["Version"] = SourceDefault
	c.ConfigSources["Tracking.OutlierMultiplier"] = SourceDefault
	c.ConfigSources["Tracking.LiveLog"] = SourceDefault
	c.ConfigSources["Tracking.SubscriberBuffer"] = SourceDefault
	c.ConfigSources["Tracking.BufferCap"] = SourceDefault
	c.ConfigSources["Report.Directory"] = SourceDefault
	c.ConfigSources["Report.IntervalSec"] = SourceDefault
	c.ConfigSources["Report.HostLabel"] = SourceDefault
	c.ConfigSources["Report.RetainCount"] = SourceDefault
	c.ConfigSources["Analysis.SlowMeanSeconds"] = SourceDefault
	c.ConfigSources["Analysis.SlowP95Seconds"] = SourceDefault
	c.ConfigSources["Analysis.HighVolumeShare"] = SourceDefault
	c.ConfigSources["Analysis.HighVolumeMinCalls"] = SourceDefault
	c.ConfigSources["Analysis.UnstableOutlierRate"] = SourceDefault
	c.ConfigSources["Analysis.HighFailureRate"] = SourceDefault
	c.ConfigSources["Analysis.RegressionDeltaPct"] = SourceDefault
	c.ConfigSources["Prometheus.RemoteWriteURL"] = SourceDefault
	c.ConfigSources["Prometheus.RemoteWriteUsername"] = SourceDefault
	c.ConfigSources["Prometheus.RemoteWritePassword"] = SourceDefault
	c.ConfigSources["Prometheus.TimeoutSec"] = SourceDefault
	c.ConfigSources["CloudWatch.Enabled"] = SourceDefault
	c.ConfigSources["CloudWatch.Region"] = SourceDefault
	c.ConfigSources["CloudWatch.Namespace"] = SourceDefault
	c.ConfigSources["CloudWatch.AWSProfile"] = SourceDefault
	c.ConfigSources["CloudWatch.AssumeRoleARN"] = SourceDefault
	c.ConfigSources["CloudMonitoring.Enabled"] = SourceDefault
	c.ConfigSources["CloudMonitoring.ProjectID"] = SourceDefault
	c.ConfigSources["CloudMonitoring.ServiceAccountKeyPath"] = SourceDefault
	c.ConfigSources["CloudMonitoring.ServiceAccountKey"] = SourceDefault
	c.ConfigSources["Archive.Enabled"] = SourceDefault
	c.ConfigSources["Archive.DatabasePath"] = SourceDefault
	c.ConfigSources["Archive.RetentionDays"] = SourceDefault
	c.ConfigSources["Daemon.Enabled"] = SourceDefault
	c.ConfigSources["Daemon.LogPath"] = SourceDefault
	c.ConfigSources["Daemon.PidFile"] = SourceDefault
	c.ConfigSources["Logging.Level"] = SourceDefault
	c.ConfigSources["Logging.Debug"] = SourceDefault
	c.ConfigSources["Logging.Promtail.URL"] = SourceDefault
	c.ConfigSources["Logging.Promtail.Username"] = SourceDefault
	c.ConfigSources["Logging.Promtail.Password"] = SourceDefault
	c.ConfigSources["Logging.Promtail.BatchWaitSeconds"] = SourceDefault
	c.ConfigSources["Logging.Promtail.BatchCapacity"] = SourceDefault
	c.ConfigSources["Logging.Promtail.TimeoutSeconds"] = SourceDefault
	c.ConfigSources["CSVExport.DefaultOutputPath"] = SourceDefault
	c.ConfigSources["CSVExport.DefaultStartDays"] = SourceDefault
	c.ConfigSources["CSVExport.MaxExportDays"] = SourceDefault
}

// MergeJSONConfig merges JSON configuration into the current configuration
func (c *AppConfig) MergeJSONConfig(jsonConfig *AppConfig) {
	// Always merge version from JSON, even if it's 0 (legacy config)
	c.Version = jsonConfig.Version
	c.ConfigSources["Version"] = SourceJSONFile

	if jsonConfig.Tracking != nil {
		if c.Tracking == nil {
			c.Tracking = &TrackingConfig{}
		}
		c.mergeTrackingConfig(jsonConfig.Tracking)
	}

	if jsonConfig.Report != nil {
		if c.Report == nil {
			c.Report = &ReportConfig{}
		}
		c.mergeReportConfig(jsonConfig.Report)
	}

	if jsonConfig.Analysis != nil {
		if c.Analysis == nil {
			c.Analysis = &AnalysisConfig{}
		}
		c.mergeAnalysisConfig(jsonConfig.Analysis)
	}

	if jsonConfig.Prometheus != nil {
		if c.Prometheus == nil {
			c.Prometheus = &PrometheusConfig{}
		}
		c.mergePrometheusConfig(jsonConfig.Prometheus)
	}

	if jsonConfig.CloudWatch != nil {
		if c.CloudWatch == nil {
			c.CloudWatch = &CloudWatchConfig{}
		}
		c.mergeCloudWatchConfig(jsonConfig.CloudWatch)
	}

	if jsonConfig.CloudMonitoring != nil {
		if c.CloudMonitoring == nil {
			c.CloudMonitoring = &CloudMonitoringConfig{}
		}
		c.mergeCloudMonitoringConfig(jsonConfig.CloudMonitoring)
	}

	if jsonConfig.Archive != nil {
		if c.Archive == nil {
			c.Archive = &ArchiveConfig{}
		}
		c.mergeArchiveConfig(jsonConfig.Archive)
	}

	if jsonConfig.Daemon != nil {
		if c.Daemon == nil {
			c.Daemon = &DaemonConfig{}
		}
		c.mergeDaemonConfig(jsonConfig.Daemon)
	}

	if jsonConfig.Logging != nil {
		if c.Logging == nil {
			c.Logging = &LoggingConfig{}
		}
		c.mergeLoggingConfig(jsonConfig.Logging)
	}

	if jsonConfig.CSVExport != nil {
		if c.CSVExport == nil {
			c.CSVExport = &CSVExportConfig{}
		}
		c.mergeCSVExportConfig(jsonConfig.CSVExport)
	}
}

// mergeTrackingConfig merges Tracking configuration from JSON
func (c *AppConfig) mergeTrackingConfig(jsonConfig *TrackingConfig) {
	if jsonConfig.OutlierMultiplier != 0 {
		c.Tracking.OutlierMultiplier = jsonConfig.OutlierMultiplier
		c.ConfigSources["Tracking.OutlierMultiplier"] = SourceJSONFile
	}

	// Note: bool field, zero value is false
	c.Tracking.LiveLog = jsonConfig.LiveLog
	c.ConfigSources["Tracking.LiveLog"] = SourceJSONFile

	if jsonConfig.SubscriberBuffer != 0 {
		c.Tracking.SubscriberBuffer = jsonConfig.SubscriberBuffer
		c.ConfigSources["Tracking.SubscriberBuffer"] = SourceJSONFile
	}
	if jsonConfig.BufferCap != 0 {
		c.Tracking.BufferCap = jsonConfig.BufferCap
		c.ConfigSources["Tracking.BufferCap"] = SourceJSONFile
	}
}

// mergeReportConfig merges Report configuration from JSON
func (c *AppConfig) mergeReportConfig(jsonConfig *ReportConfig) {
	if jsonConfig.Directory != "" {
		c.Report.Directory = jsonConfig.Directory
		c.ConfigSources["Report.Directory"] = SourceJSONFile
	}
	if jsonConfig.IntervalSec != 0 {
		c.Report.IntervalSec = jsonConfig.IntervalSec
		c.ConfigSources["Report.IntervalSec"] = SourceJSONFile
	}
	if jsonConfig.HostLabel != "" {
		c.Report.HostLabel = jsonConfig.HostLabel
		c.ConfigSources["Report.HostLabel"] = SourceJSONFile
	}
	if jsonConfig.RetainCount != 0 {
		c.Report.RetainCount = jsonConfig.RetainCount
		c.ConfigSources["Report.RetainCount"] = SourceJSONFile
	}
}

// mergeAnalysisConfig merges Analysis configuration from JSON
func (c *AppConfig) mergeAnalysisConfig(jsonConfig *AnalysisConfig) {
	if jsonConfig.SlowMeanSeconds != 0 {
		c.Analysis.SlowMeanSeconds = jsonConfig.SlowMeanSeconds
		c.ConfigSources["Analysis.SlowMeanSeconds"] = SourceJSONFile
	}
	if jsonConfig.SlowP95Seconds != 0 {
		c.Analysis.SlowP95Seconds = jsonConfig.SlowP95Seconds
		c.ConfigSources["Analysis.SlowP95Seconds"] = SourceJSONFile
	}
	if jsonConfig.HighVolumeShare != 0 {
		c.Analysis.HighVolumeShare = jsonConfig.HighVolumeShare
		c.ConfigSources["Analysis.HighVolumeShare"] = SourceJSONFile
	}
	if jsonConfig.HighVolumeMinCalls != 0 {
		c.Analysis.HighVolumeMinCalls = jsonConfig.HighVolumeMinCalls
		c.ConfigSources["Analysis.HighVolumeMinCalls"] = SourceJSONFile
	}
	if jsonConfig.UnstableOutlierRate != 0 {
		c.Analysis.UnstableOutlierRate = jsonConfig.UnstableOutlierRate
		c.ConfigSources["Analysis.UnstableOutlierRate"] = SourceJSONFile
	}
	if jsonConfig.HighFailureRate != 0 {
		c.Analysis.HighFailureRate = jsonConfig.HighFailureRate
		c.ConfigSources["Analysis.HighFailureRate"] = SourceJSONFile
	}
	if jsonConfig.RegressionDeltaPct != 0 {
		c.Analysis.RegressionDeltaPct = jsonConfig.RegressionDeltaPct
		c.ConfigSources["Analysis.RegressionDeltaPct"] = SourceJSONFile
	}
}

// mergePrometheusConfig merges Prometheus configuration from JSON
func (c *AppConfig) mergePrometheusConfig(jsonConfig *PrometheusConfig) {
	if jsonConfig.RemoteWriteURL != "" {
		c.Prometheus.RemoteWriteURL = jsonConfig.RemoteWriteURL
		c.ConfigSources["Prometheus.RemoteWriteURL"] = SourceJSONFile
	}
	if jsonConfig.RemoteWriteUsername != "" {
		c.Prometheus.RemoteWriteUsername = jsonConfig.RemoteWriteUsername
		c.ConfigSources["Prometheus.RemoteWriteUsername"] = SourceJSONFile
	}
	if jsonConfig.RemoteWritePassword != "" {
		c.Prometheus.RemoteWritePassword = jsonConfig.RemoteWritePassword
		c.ConfigSources["Prometheus.RemoteWritePassword"] = SourceJSONFile
	}
	if jsonConfig.TimeoutSec != 0 {
		c.Prometheus.TimeoutSec = jsonConfig.TimeoutSec
		c.ConfigSources["Prometheus.TimeoutSec"] = SourceJSONFile
	}
}

// mergeCloudWatchConfig merges CloudWatch configuration from JSON
func (c *AppConfig) mergeCloudWatchConfig(jsonConfig *CloudWatchConfig) {
	// Note: bool fields need special handling because zero value is false
	c.CloudWatch.Enabled = jsonConfig.Enabled
	c.ConfigSources["CloudWatch.Enabled"] = SourceJSONFile

	if jsonConfig.Region != "" {
		c.CloudWatch.Region = jsonConfig.Region
		c.ConfigSources["CloudWatch.Region"] = SourceJSONFile
	}
	if jsonConfig.Namespace != "" {
		c.CloudWatch.Namespace = jsonConfig.Namespace
		c.ConfigSources["CloudWatch.Namespace"] = SourceJSONFile
	}
	if jsonConfig.AWSProfile != "" {
		c.CloudWatch.AWSProfile = jsonConfig.AWSProfile
		c.ConfigSources["CloudWatch.AWSProfile"] = SourceJSONFile
	}
	if jsonConfig.AssumeRoleARN != "" {
		c.CloudWatch.AssumeRoleARN = jsonConfig.AssumeRoleARN
		c.ConfigSources["CloudWatch.AssumeRoleARN"] = SourceJSONFile
	}
}

// mergeCloudMonitoringConfig merges CloudMonitoring configuration from JSON
func (c *AppConfig) mergeCloudMonitoringConfig(jsonConfig *CloudMonitoringConfig) {
	// Note: bool fields need special handling because zero value is false
	c.CloudMonitoring.Enabled = jsonConfig.Enabled
	c.ConfigSources["CloudMonitoring.Enabled"] = SourceJSONFile

	if jsonConfig.ProjectID != "" {
		c.CloudMonitoring.ProjectID = jsonConfig.ProjectID
		c.ConfigSources["CloudMonitoring.ProjectID"] = SourceJSONFile
	}
	if jsonConfig.ServiceAccountKeyPath != "" {
		c.CloudMonitoring.ServiceAccountKeyPath = jsonConfig.ServiceAccountKeyPath
		c.ConfigSources["CloudMonitoring.ServiceAccountKeyPath"] = SourceJSONFile
	}
	if jsonConfig.ServiceAccountKey != "" {
		c.CloudMonitoring.ServiceAccountKey = jsonConfig.ServiceAccountKey
		c.ConfigSources["CloudMonitoring.ServiceAccountKey"] = SourceJSONFile
	}
}

// mergeArchiveConfig merges Archive configuration from JSON
func (c *AppConfig) mergeArchiveConfig(jsonConfig *ArchiveConfig) {
	// Note: bool field
	c.Archive.Enabled = jsonConfig.Enabled
	c.ConfigSources["Archive.Enabled"] = SourceJSONFile

	if jsonConfig.DatabasePath != "" {
		c.Archive.DatabasePath = jsonConfig.DatabasePath
		c.ConfigSources["Archive.DatabasePath"] = SourceJSONFile
	}
	if jsonConfig.RetentionDays != 0 {
		c.Archive.RetentionDays = jsonConfig.RetentionDays
		c.ConfigSources["Archive.RetentionDays"] = SourceJSONFile
	}
}

// mergeDaemonConfig merges Daemon configuration from JSON
func (c *AppConfig) mergeDaemonConfig(jsonConfig *DaemonConfig) {
	// Note: bool field
	c.Daemon.Enabled = jsonConfig.Enabled
	c.ConfigSources["Daemon.Enabled"] = SourceJSONFile

	if jsonConfig.LogPath != "" {
		c.Daemon.LogPath = jsonConfig.LogPath
		c.ConfigSources["Daemon.LogPath"] = SourceJSONFile
	}
	if jsonConfig.PidFile != "" {
		c.Daemon.PidFile = jsonConfig.PidFile
		c.ConfigSources["Daemon.PidFile"] = SourceJSONFile
	}
}

// mergeLoggingConfig merges Logging configuration from JSON
func (c *AppConfig) mergeLoggingConfig(jsonConfig *LoggingConfig) {
	if jsonConfig.Level != "" {
		c.Logging.Level = jsonConfig.Level
		c.ConfigSources["Logging.Level"] = SourceJSONFile
	}

	// Note: bool field
	c.Logging.Debug = jsonConfig.Debug
	c.ConfigSources["Logging.Debug"] = SourceJSONFile

	if jsonConfig.Promtail != nil {
		if c.Logging.Promtail == nil {
			c.Logging.Promtail = &PromtailConfig{}
		}
		c.mergePromtailConfig(jsonConfig.Promtail)
	}
}

// mergePromtailConfig merges Promtail configuration from JSON
func (c *AppConfig) mergePromtailConfig(jsonConfig *PromtailConfig) {
	if jsonConfig.URL != "" {
		c.Logging.Promtail.URL = jsonConfig.URL
		c.ConfigSources["Promtail.URL"] = SourceJSONFile
	}
	if jsonConfig.Username != "" {
		c.Logging.Promtail.Username = jsonConfig.Username
		c.ConfigSources["Promtail.Username"] = SourceJSONFile
	}
	if jsonConfig.Password != "" {
		c.Logging.Promtail.Password = jsonConfig.Password
		c.ConfigSources["Promtail.Password"] = SourceJSONFile
	}
	if jsonConfig.BatchWaitSeconds != 0 {
		c.Logging.Promtail.BatchWaitSeconds = jsonConfig.BatchWaitSeconds
		c.ConfigSources["Promtail.BatchWaitSeconds"] = SourceJSONFile
	}
	if jsonConfig.BatchCapacity != 0 {
		c.Logging.Promtail.BatchCapacity = jsonConfig.BatchCapacity
		c.ConfigSources["Promtail.BatchCapacity"] = SourceJSONFile
	}
	if jsonConfig.TimeoutSeconds != 0 {
		c.Logging.Promtail.TimeoutSeconds = jsonConfig.TimeoutSeconds
		c.ConfigSources["Promtail.TimeoutSeconds"] = SourceJSONFile
	}
}

// mergeCSVExportConfig merges CSVExport configuration from JSON
func (c *AppConfig) mergeCSVExportConfig(jsonConfig *CSVExportConfig) {
	if jsonConfig.DefaultOutputPath != "" {
		c.CSVExport.DefaultOutputPath = jsonConfig.DefaultOutputPath
		c.ConfigSources["CSVExport.DefaultOutputPath"] = SourceJSONFile
	}
	if jsonConfig.DefaultStartDays != 0 {
		c.CSVExport.DefaultStartDays = jsonConfig.DefaultStartDays
		c.ConfigSources["CSVExport.DefaultStartDays"] = SourceJSONFile
	}
	if jsonConfig.MaxExportDays != 0 {
		c.CSVExport.MaxExportDays = jsonConfig.MaxExportDays
		c.ConfigSources["CSVExport.MaxExportDays"] = SourceJSONFile
	}
}
