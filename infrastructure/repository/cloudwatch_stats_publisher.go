package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/repository"
	"github.com/linkmatch/apitrack/infrastructure/config"
)

// CloudWatch rejects requests with more than 20 datums each
const cloudWatchBatchSize = 20

// CloudWatchStatsPublisher publishes per-API report stats as CloudWatch
// custom metrics
type CloudWatchStatsPublisher struct {
	client    *cloudwatch.CloudWatch
	namespace string
	logger    domain.Logger
}

// NewCloudWatchStatsPublisher creates a new CloudWatch stats publisher
func NewCloudWatchStatsPublisher(cfg *config.CloudWatchConfig, logger domain.Logger) (repository.StatsPublisherRepository, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("cloudwatch publishing is not enabled")
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Profile:           cfg.AWSProfile,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AssumeRoleARN != "" {
		awsConfig.Credentials = stscreds.NewCredentials(sess, cfg.AssumeRoleARN)
	}

	return &CloudWatchStatsPublisher{
		client:    cloudwatch.New(sess, awsConfig),
		namespace: cfg.Namespace,
		logger:    logger,
	}, nil
}

// PublishStats sends one metric datum per stat per API
func (p *CloudWatchStatsPublisher) PublishStats(report *entity.Report, hostLabel string) error {
	if report == nil {
		return repository.NewStatsPublisherError("publish", fmt.Errorf("report is nil"))
	}

	host := resolveHostLabel(hostLabel)
	now := time.Now()

	var datums []*cloudwatch.MetricDatum
	for _, apiName := range report.APINames() {
		stats := report.PerAPIStats[apiName]
		dimensions := []*cloudwatch.Dimension{
			{Name: aws.String("API"), Value: aws.String(apiName)},
			{Name: aws.String("Host"), Value: aws.String(host)},
		}
		datums = append(datums,
			metricDatum("CallCount", float64(stats.Count), cloudwatch.StandardUnitCount, dimensions, now),
			metricDatum("FailureCount", float64(stats.FailureCount), cloudwatch.StandardUnitCount, dimensions, now),
			metricDatum("DurationMean", stats.MeanSeconds, cloudwatch.StandardUnitSeconds, dimensions, now),
			metricDatum("DurationP95", stats.P95Seconds, cloudwatch.StandardUnitSeconds, dimensions, now),
			metricDatum("DurationMax", stats.MaxSeconds, cloudwatch.StandardUnitSeconds, dimensions, now),
			metricDatum("OutlierCount", float64(len(stats.Outliers)), cloudwatch.StandardUnitCount, dimensions, now),
		)
	}

	for start := 0; start < len(datums); start += cloudWatchBatchSize {
		end := start + cloudWatchBatchSize
		if end > len(datums) {
			end = len(datums)
		}
		input := &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: datums[start:end],
		}
		if _, err := p.client.PutMetricData(input); err != nil {
			return repository.NewStatsPublisherError("publish", fmt.Errorf("failed to put metric data: %w", err))
		}
	}

	if p.logger != nil {
		p.logger.Debug(context.Background(), "Published report stats to CloudWatch",
			domain.NewField("report", report.Name),
			domain.NewField("datums", len(datums)))
	}

	return nil
}

// Close closes the publisher
func (p *CloudWatchStatsPublisher) Close() error {
	return nil
}

func metricDatum(name string, value float64, unit string, dimensions []*cloudwatch.Dimension, ts time.Time) *cloudwatch.MetricDatum {
	return &cloudwatch.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       aws.String(unit),
		Dimensions: dimensions,
		Timestamp:  aws.Time(ts),
	}
}
