package impl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/infrastructure/config"
	"github.com/linkmatch/apitrack/infrastructure/repository"
)

// MockLogger is a test mock for domain.Logger
type MockLogger struct{}

func (m *MockLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {}
func (m *MockLogger) Info(ctx context.Context, msg string, fields ...domain.Field)  {}
func (m *MockLogger) Warn(ctx context.Context, msg string, fields ...domain.Field)  {}
func (m *MockLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {}
func (m *MockLogger) WithFields(fields ...domain.Field) domain.Logger {
	return m
}

func newTestConfigService(t *testing.T) (*ConfigServiceImpl, string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "apitrack-config-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(tempDir)
	})

	configRepo := repository.NewJSONConfigRepository()
	repo := configRepo.(*repository.JSONConfigRepository)
	repo.SetConfigDir(tempDir)
	repo.SetConfigFile(filepath.Join(tempDir, "config.json"))

	service, err := NewConfigService(configRepo, &MockLogger{})
	if err != nil {
		t.Fatalf("Failed to create config service: %v", err)
	}

	return service.(*ConfigServiceImpl), tempDir
}

func TestConfigServiceImpl_GetConfig(t *testing.T) {
	service, _ := newTestConfigService(t)

	cfg := service.GetConfig()
	if cfg == nil {
		t.Fatal("GetConfig returned nil")
	}

	if cfg.Report == nil || cfg.Report.IntervalSec < 60 {
		t.Error("default report configuration missing or invalid")
	}
	if cfg.Tracking == nil || cfg.Tracking.OutlierMultiplier <= 0 {
		t.Error("default tracking configuration missing or invalid")
	}
}

func TestConfigServiceImpl_UpdateConfig(t *testing.T) {
	service, _ := newTestConfigService(t)

	newConfig := config.DefaultConfig()
	newConfig.Report.HostLabel = "updated-host"
	newConfig.Prometheus.RemoteWriteURL = "http://prometheus:9090/api/v1/write"
	newConfig.Prometheus.RemoteWriteUsername = "testuser"
	newConfig.Prometheus.RemoteWritePassword = "testpass"

	if err := service.UpdateConfig(newConfig); err != nil {
		t.Fatalf("Failed to update config: %v", err)
	}

	cfg := service.GetConfig()
	if cfg.Report.HostLabel != "updated-host" {
		t.Errorf("HostLabel = %q, want %q", cfg.Report.HostLabel, "updated-host")
	}

	// Invalid config must be rejected and not applied
	badConfig := config.DefaultConfig()
	badConfig.Report.IntervalSec = 5
	if err := service.UpdateConfig(badConfig); err == nil {
		t.Error("expected error for invalid config")
	}
	if service.GetConfig().Report.IntervalSec == 5 {
		t.Error("invalid config was applied")
	}
}

func TestConfigServiceImpl_EnsureConfigExists(t *testing.T) {
	service, tempDir := newTestConfigService(t)

	configFile := filepath.Join(tempDir, "config.json")
	if _, err := os.Stat(configFile); !os.IsNotExist(err) {
		t.Fatal("config file should not exist before EnsureConfigExists")
	}

	if err := service.EnsureConfigExists(); err != nil {
		t.Fatalf("EnsureConfigExists failed: %v", err)
	}

	if _, err := os.Stat(configFile); err != nil {
		t.Errorf("config file should exist after EnsureConfigExists: %v", err)
	}

	// Calling again must not overwrite or fail
	if err := service.EnsureConfigExists(); err != nil {
		t.Errorf("EnsureConfigExists should be idempotent: %v", err)
	}
}

func TestConfigServiceImpl_CreateDefaultConfig(t *testing.T) {
	service, _ := newTestConfigService(t)

	if err := service.CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig failed: %v", err)
	}

	// A second create must fail because the file now exists
	if err := service.CreateDefaultConfig(); err == nil {
		t.Error("expected error when config file already exists")
	}
}

func TestConfigServiceImpl_ExportConfigMasksSecrets(t *testing.T) {
	service, _ := newTestConfigService(t)

	newConfig := config.DefaultConfig()
	newConfig.Prometheus.RemoteWriteURL = "http://prometheus:9090/api/v1/write"
	newConfig.Prometheus.RemoteWriteUsername = "user"
	newConfig.Prometheus.RemoteWritePassword = "supersecret"
	if err := service.UpdateConfig(newConfig); err != nil {
		t.Fatalf("Failed to update config: %v", err)
	}

	exported := service.ExportConfig()
	prometheusMap, ok := exported["prometheus"].(map[string]interface{})
	if !ok {
		t.Fatal("exported config missing prometheus section")
	}
	if prometheusMap["remote_write_password"] != "****" {
		t.Errorf("password not masked: %v", prometheusMap["remote_write_password"])
	}
	if prometheusMap["remote_write_username"] != "user" {
		t.Errorf("username should not be masked: %v", prometheusMap["remote_write_username"])
	}
}

func TestConfigServiceImpl_ReloadConfig(t *testing.T) {
	service, _ := newTestConfigService(t)

	if err := service.ReloadConfig(); err != nil {
		t.Fatalf("ReloadConfig failed: %v", err)
	}
	if service.GetConfig() == nil {
		t.Fatal("config is nil after reload")
	}
}
