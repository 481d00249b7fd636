package repository

import (
	"context"
	"fmt"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"google.golang.org/api/option"
	metricpb "google.golang.org/genproto/googleapis/api/metric"
	monitoredrespb "google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/repository"
	"github.com/linkmatch/apitrack/infrastructure/auth"
	"github.com/linkmatch/apitrack/infrastructure/config"
)

// Cloud Monitoring rejects requests with more than 200 time series each
const cloudMonitoringBatchSize = 200

// CloudMonitoringStatsPublisher publishes per-API report stats as Google
// Cloud Monitoring custom metrics
type CloudMonitoringStatsPublisher struct {
	client    *monitoring.MetricClient
	projectID string
	logger    domain.Logger
}

// NewCloudMonitoringStatsPublisher creates a new Cloud Monitoring stats publisher
func NewCloudMonitoringStatsPublisher(cfg *config.CloudMonitoringConfig, logger domain.Logger) (repository.StatsPublisherRepository, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("cloud monitoring publishing is not enabled")
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("cloud monitoring project ID is required")
	}

	ctx := context.Background()

	// Fail fast on malformed keys instead of at the first publish
	if cfg.ServiceAccountKey != "" || cfg.ServiceAccountKeyPath != "" {
		authenticator, err := auth.NewGCPAuthenticator(cfg.ServiceAccountKey, cfg.ServiceAccountKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to authenticate with Google Cloud: %w", err)
		}
		if err := authenticator.ValidateCredentials(); err != nil {
			return nil, fmt.Errorf("invalid cloud monitoring credentials: %w", err)
		}
	}

	var opts []option.ClientOption
	if cfg.ServiceAccountKey != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountKey)))
	} else if cfg.ServiceAccountKeyPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.ServiceAccountKeyPath))
	}

	client, err := monitoring.NewMetricClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create monitoring client: %w", err)
	}

	return &CloudMonitoringStatsPublisher{
		client:    client,
		projectID: cfg.ProjectID,
		logger:    logger,
	}, nil
}

// PublishStats writes one custom gauge time series per stat per API
func (p *CloudMonitoringStatsPublisher) PublishStats(report *entity.Report, hostLabel string) error {
	if report == nil {
		return repository.NewStatsPublisherError("publish", fmt.Errorf("report is nil"))
	}

	host := resolveHostLabel(hostLabel)
	now := timestamppb.New(time.Now())

	var series []*monitoringpb.TimeSeries
	for _, apiName := range report.APINames() {
		stats := report.PerAPIStats[apiName]
		series = append(series,
			p.gaugeSeries("custom.googleapis.com/apitrack/api/call_count", apiName, host, float64(stats.Count), now),
			p.gaugeSeries("custom.googleapis.com/apitrack/api/failure_count", apiName, host, float64(stats.FailureCount), now),
			p.gaugeSeries("custom.googleapis.com/apitrack/api/duration_mean", apiName, host, stats.MeanSeconds, now),
			p.gaugeSeries("custom.googleapis.com/apitrack/api/duration_p95", apiName, host, stats.P95Seconds, now),
			p.gaugeSeries("custom.googleapis.com/apitrack/api/duration_max", apiName, host, stats.MaxSeconds, now),
			p.gaugeSeries("custom.googleapis.com/apitrack/api/outlier_count", apiName, host, float64(len(stats.Outliers)), now),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for start := 0; start < len(series); start += cloudMonitoringBatchSize {
		end := start + cloudMonitoringBatchSize
		if end > len(series) {
			end = len(series)
		}
		req := &monitoringpb.CreateTimeSeriesRequest{
			Name:       fmt.Sprintf("projects/%s", p.projectID),
			TimeSeries: series[start:end],
		}
		if err := p.client.CreateTimeSeries(ctx, req); err != nil {
			return repository.NewStatsPublisherError("publish", fmt.Errorf("failed to create time series: %w", err))
		}
	}

	if p.logger != nil {
		p.logger.Debug(context.Background(), "Published report stats to Cloud Monitoring",
			domain.NewField("report", report.Name),
			domain.NewField("series", len(series)))
	}

	return nil
}

// Close closes the monitoring client
func (p *CloudMonitoringStatsPublisher) Close() error {
	return p.client.Close()
}

func (p *CloudMonitoringStatsPublisher) gaugeSeries(metricType, apiName, host string, value float64, ts *timestamppb.Timestamp) *monitoringpb.TimeSeries {
	return &monitoringpb.TimeSeries{
		Metric: &metricpb.Metric{
			Type: metricType,
			Labels: map[string]string{
				"api":  apiName,
				"host": host,
			},
		},
		Resource: &monitoredrespb.MonitoredResource{
			Type: "global",
			Labels: map[string]string{
				"project_id": p.projectID,
			},
		},
		Points: []*monitoringpb.Point{
			{
				Interval: &monitoringpb.TimeInterval{
					EndTime: ts,
				},
				Value: &monitoringpb.TypedValue{
					Value: &monitoringpb.TypedValue_DoubleValue{DoubleValue: value},
				},
			},
		},
	}
}
