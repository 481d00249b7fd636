package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/repository"
	"github.com/linkmatch/apitrack/infrastructure/config"
)

// PrometheusStatsPublisher publishes per-API report stats to a Prometheus
// Remote Write endpoint as gauge series
type PrometheusStatsPublisher struct {
	client  *RemoteWriteClient
	timeout time.Duration
	logger  domain.Logger
}

// NewPrometheusStatsPublisher creates a new Prometheus stats publisher
func NewPrometheusStatsPublisher(cfg *config.PrometheusConfig, logger domain.Logger) (repository.StatsPublisherRepository, error) {
	if cfg == nil || cfg.RemoteWriteURL == "" {
		return nil, fmt.Errorf("prometheus remote write URL is required")
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var authConfig *AuthConfig
	if cfg.RemoteWriteUsername != "" && cfg.RemoteWritePassword != "" {
		authConfig = &AuthConfig{
			Username: cfg.RemoteWriteUsername,
			Password: cfg.RemoteWritePassword,
		}
	}

	client, err := NewRemoteWriteClient(cfg.RemoteWriteURL, timeout, authConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote write client: %w", err)
	}

	return &PrometheusStatsPublisher{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// PublishStats sends one gauge series per stat per API, plus report totals
func (p *PrometheusStatsPublisher) PublishStats(report *entity.Report, hostLabel string) error {
	if report == nil {
		return repository.NewStatsPublisherError("publish", fmt.Errorf("report is nil"))
	}

	host := resolveHostLabel(hostLabel)
	now := time.Now().UnixMilli()

	samples := make([]GaugeSample, 0, len(report.PerAPIStats)*6+2)
	for _, apiName := range report.APINames() {
		stats := report.PerAPIStats[apiName]
		labels := map[string]string{
			"api":  apiName,
			"host": host,
		}
		samples = append(samples,
			GaugeSample{MetricName: "apitrack_api_calls", Value: float64(stats.Count), Labels: labels, Timestamp: now},
			GaugeSample{MetricName: "apitrack_api_failures", Value: float64(stats.FailureCount), Labels: labels, Timestamp: now},
			GaugeSample{MetricName: "apitrack_api_duration_seconds_mean", Value: stats.MeanSeconds, Labels: labels, Timestamp: now},
			GaugeSample{MetricName: "apitrack_api_duration_seconds_p95", Value: stats.P95Seconds, Labels: labels, Timestamp: now},
			GaugeSample{MetricName: "apitrack_api_duration_seconds_max", Value: stats.MaxSeconds, Labels: labels, Timestamp: now},
			GaugeSample{MetricName: "apitrack_api_outliers", Value: float64(len(stats.Outliers)), Labels: labels, Timestamp: now},
		)
	}
	if report.Summary != nil {
		totalLabels := map[string]string{"host": host}
		samples = append(samples,
			GaugeSample{MetricName: "apitrack_report_total_calls", Value: float64(report.Summary.TotalCalls), Labels: totalLabels, Timestamp: now},
			GaugeSample{MetricName: "apitrack_report_total_duration_seconds", Value: report.Summary.TotalSeconds, Labels: totalLabels, Timestamp: now},
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.client.SendGaugeMetrics(ctx, samples); err != nil {
		return repository.NewStatsPublisherError("publish", err)
	}

	if p.logger != nil {
		p.logger.Debug(context.Background(), "Published report stats to Prometheus",
			domain.NewField("report", report.Name),
			domain.NewField("series", len(samples)))
	}

	return nil
}

// Close closes the publisher
func (p *PrometheusStatsPublisher) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// resolveHostLabel falls back to the OS hostname when no label is configured
func resolveHostLabel(hostLabel string) string {
	if hostLabel != "" {
		return hostLabel
	}
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return "unknown"
	}
	return hostname
}
