package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	require.NotNil(t, config.Tracking)
	assert.Equal(t, 3.0, config.Tracking.OutlierMultiplier)
	assert.True(t, config.Tracking.LiveLog)
	assert.Equal(t, 10000, config.Tracking.BufferCap)

	require.NotNil(t, config.Report)
	assert.Equal(t, "performance_reports", config.Report.Directory)
	assert.Equal(t, 3600, config.Report.IntervalSec)

	require.NotNil(t, config.Analysis)
	assert.Equal(t, 1.0, config.Analysis.SlowMeanSeconds)

	require.NotNil(t, config.CloudWatch)
	assert.False(t, config.CloudWatch.Enabled)

	require.NotNil(t, config.Archive)
	assert.False(t, config.Archive.Enabled)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("APITRACK_REPORT_DIRECTORY", "/var/lib/apitrack/reports")
	t.Setenv("APITRACK_REPORT_INTERVAL_SECONDS", "900")
	t.Setenv("APITRACK_TRACKING_OUTLIER_MULTIPLIER", "2.5")
	t.Setenv("APITRACK_PROMETHEUS_REMOTE_WRITE_URL", "http://prometheus:9090/api/v1/write")

	config := DefaultConfig()
	config.MarkDefaults()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "/var/lib/apitrack/reports", config.Report.Directory)
	assert.Equal(t, 900, config.Report.IntervalSec)
	assert.Equal(t, 2.5, config.Tracking.OutlierMultiplier)
	assert.Equal(t, "http://prometheus:9090/api/v1/write", config.Prometheus.RemoteWriteURL)

	// Source tracking records the env override
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Report.Directory"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Tracking.OutlierMultiplier"])
}

func TestLoadFromEnv_Base64ServiceAccountKey(t *testing.T) {
	rawKey := `{"type":"service_account","project_id":"test-project"}`
	t.Setenv("APITRACK_CLOUD_MONITORING_SERVICE_ACCOUNT_KEY", base64.StdEncoding.EncodeToString([]byte(rawKey)))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, rawKey, config.CloudMonitoring.ServiceAccountKey)
}

func TestLoadFromEnv_InvalidBase64Key(t *testing.T) {
	t.Setenv("APITRACK_CLOUD_MONITORING_SERVICE_ACCOUNT_KEY", "not-base64!!")

	config := DefaultConfig()
	assert.Error(t, config.LoadFromEnv())
}

func TestMergeJSONConfig(t *testing.T) {
	base := DefaultConfig()
	base.MarkDefaults()

	base.MergeJSONConfig(&AppConfig{
		Report: &ReportConfig{
			Directory:   "/data/reports",
			IntervalSec: 1800,
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL: "http://prom:9090/api/v1/write",
			TimeoutSec:     10,
		},
	})

	assert.Equal(t, "/data/reports", base.Report.Directory)
	assert.Equal(t, 1800, base.Report.IntervalSec)
	assert.Equal(t, "http://prom:9090/api/v1/write", base.Prometheus.RemoteWriteURL)
	assert.Equal(t, SourceJSONFile, base.ConfigSources["Report.Directory"])

	// Fields absent from the JSON keep their defaults
	assert.Equal(t, 3.0, base.Tracking.OutlierMultiplier)
	assert.Equal(t, SourceDefault, base.ConfigSources["Tracking.OutlierMultiplier"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *AppConfig) {},
			wantErr: false,
		},
		{
			name: "zero outlier multiplier",
			mutate: func(c *AppConfig) {
				c.Tracking.OutlierMultiplier = 0
			},
			wantErr: true,
		},
		{
			name: "zero buffer cap",
			mutate: func(c *AppConfig) {
				c.Tracking.BufferCap = 0
			},
			wantErr: true,
		},
		{
			name: "empty report directory",
			mutate: func(c *AppConfig) {
				c.Report.Directory = ""
			},
			wantErr: true,
		},
		{
			name: "report directory traversal",
			mutate: func(c *AppConfig) {
				c.Report.Directory = "../outside"
			},
			wantErr: true,
		},
		{
			name: "cloudwatch enabled without region",
			mutate: func(c *AppConfig) {
				c.CloudWatch.Enabled = true
				c.CloudWatch.Region = ""
			},
			wantErr: true,
		},
		{
			name: "cloud monitoring enabled without project",
			mutate: func(c *AppConfig) {
				c.CloudMonitoring.Enabled = true
				c.CloudMonitoring.ProjectID = ""
			},
			wantErr: true,
		},
		{
			name: "archive enabled without database path",
			mutate: func(c *AppConfig) {
				c.Archive.Enabled = true
				c.Archive.DatabasePath = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMinimalDefaultConfig(t *testing.T) {
	config := MinimalDefaultConfig()

	assert.Equal(t, 1, config.Version)
	require.NotNil(t, config.Report)
	assert.Equal(t, "performance_reports", config.Report.Directory)
	require.NotNil(t, config.Prometheus)
	assert.Empty(t, config.Prometheus.RemoteWriteURL)
	assert.NoError(t, config.Validate())
}
