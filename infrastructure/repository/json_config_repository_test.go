package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/linkmatch/apitrack/infrastructure/config"
)

func TestJSONConfigRepository_SaveAndLoad(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "apitrack-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	repo := &JSONConfigRepository{
		configDir:  tempDir,
		configFile: filepath.Join(tempDir, "config.json"),
	}

	testConfig := &config.AppConfig{
		Report: &config.ReportConfig{
			Directory:   "perf_reports",
			IntervalSec: 3600,
			HostLabel:   "test-host",
		},
		Prometheus: &config.PrometheusConfig{
			RemoteWriteURL:      "http://test-prometheus:9090/api/v1/write",
			RemoteWriteUsername: "testuser",
			RemoteWritePassword: "testpass",
			TimeoutSec:          10,
		},
		Logging: &config.LoggingConfig{
			Level: "info",
			Debug: false,
		},
	}

	exists, err := repo.Exists()
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if exists {
		t.Error("Config file should not exist initially")
	}

	if err := repo.Save(testConfig); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	exists, err = repo.Exists()
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if !exists {
		t.Error("Config file should exist after save")
	}

	loadedConfig, err := repo.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedConfig.Report.Directory != testConfig.Report.Directory {
		t.Errorf("Report.Directory mismatch: got %s, want %s", loadedConfig.Report.Directory, testConfig.Report.Directory)
	}
	if loadedConfig.Prometheus.RemoteWriteURL != testConfig.Prometheus.RemoteWriteURL {
		t.Errorf("Prometheus.RemoteWriteURL mismatch: got %s, want %s",
			loadedConfig.Prometheus.RemoteWriteURL, testConfig.Prometheus.RemoteWriteURL)
	}
}

func TestJSONConfigRepository_Backup(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "apitrack-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	repo := &JSONConfigRepository{
		configDir:  tempDir,
		configFile: filepath.Join(tempDir, "config.json"),
	}

	initialConfig := &config.AppConfig{
		Prometheus: &config.PrometheusConfig{
			RemoteWriteURL:      "http://initial:9090",
			RemoteWriteUsername: "testuser",
			RemoteWritePassword: "testpass",
			TimeoutSec:          10,
		},
	}
	if err := repo.Save(initialConfig); err != nil {
		t.Fatalf("Failed to save initial config: %v", err)
	}

	// Saving again should create a backup of the first file
	updatedConfig := &config.AppConfig{
		Prometheus: &config.PrometheusConfig{
			RemoteWriteURL:      "http://updated:9090",
			RemoteWriteUsername: "testuser",
			RemoteWritePassword: "testpass",
			TimeoutSec:          5,
		},
	}
	if err := repo.Save(updatedConfig); err != nil {
		t.Fatalf("Failed to save updated config: %v", err)
	}

	pattern := repo.configFile + ".backup.*"
	matches, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("Failed to find backup files: %v", err)
	}
	if len(matches) == 0 {
		t.Error("No backup files found")
	}
}

func TestJSONConfigRepository_LoadNonExistent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "apitrack-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	repo := &JSONConfigRepository{
		configDir:  tempDir,
		configFile: filepath.Join(tempDir, "config.json"),
	}

	cfg, err := repo.Load()
	if err != nil {
		t.Fatalf("Load should not error for non-existent file: %v", err)
	}
	if cfg != nil {
		t.Error("Load should return nil for non-existent file")
	}
}

func TestJSONConfigRepository_Validate(t *testing.T) {
	repo := NewJSONConfigRepository()

	err := repo.Validate(nil)
	if err == nil {
		t.Error("Validate should error for nil config")
	}

	validConfig := &config.AppConfig{
		Prometheus: &config.PrometheusConfig{
			RemoteWriteURL:      "http://prometheus:9090",
			RemoteWriteUsername: "testuser",
			RemoteWritePassword: "testpass",
			TimeoutSec:          10,
		},
	}
	err = repo.Validate(validConfig)
	if err != nil {
		t.Errorf("Validate should not error for valid config: %v", err)
	}

	invalidConfig := &config.AppConfig{
		Prometheus: &config.PrometheusConfig{
			RemoteWriteURL:      "http://prometheus:9090",
			RemoteWriteUsername: "testuser",
			RemoteWritePassword: "testpass",
			TimeoutSec:          0,
		},
	}
	err = repo.Validate(invalidConfig)
	if err == nil {
		t.Error("Validate should error for invalid config")
	}
}
