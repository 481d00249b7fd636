package impl

import (
	"fmt"
	"sort"
	"time"

	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/valueobject"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// rawSampleSize bounds the per-API raw record sample kept in a report
const rawSampleSize = 10

// AggregationServiceImpl implements the AggregationService interface.
// It is stateless; both operations are pure functions of their input.
type AggregationServiceImpl struct {
	outlierMultiplier float64
}

// NewAggregationService creates a new aggregation service implementation.
// A non-positive multiplier falls back to the default.
func NewAggregationService(outlierMultiplier float64) usecase.AggregationService {
	if outlierMultiplier <= 0 {
		outlierMultiplier = valueobject.DefaultOutlierMultiplier
	}
	return &AggregationServiceImpl{outlierMultiplier: outlierMultiplier}
}

// ComputeStats aggregates records for a single API into statistics
func (s *AggregationServiceImpl) ComputeStats(apiName string, records []*entity.CallRecord) (*entity.APIStats, error) {
	if apiName == "" {
		return nil, usecase.NewAggregationServiceError("invalid_input", "api name must not be empty")
	}

	stats := &entity.APIStats{APIName: apiName}
	if len(records) == 0 {
		return stats, nil
	}

	seconds := make([]float64, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		if record.APIName != apiName {
			return nil, usecase.NewAggregationServiceError("invalid_input",
				fmt.Sprintf("record for %q mixed into %q aggregation", record.APIName, apiName))
		}
		seconds = append(seconds, record.Seconds())
		stats.Count++
		if record.IsFailure() {
			stats.FailureCount++
		} else {
			stats.SuccessCount++
		}
	}
	if stats.Count == 0 {
		return stats, nil
	}

	ds := valueobject.NewDurationStats(seconds)
	stats.TotalSeconds = ds.Total()
	stats.MeanSeconds = ds.Mean()
	stats.MedianSeconds = ds.Median()
	stats.P90Seconds = ds.Percentile(90)
	stats.P95Seconds = ds.Percentile(95)
	stats.P99Seconds = ds.Percentile(99)
	stats.MinSeconds = ds.Min()
	stats.MaxSeconds = ds.Max()
	stats.Outliers = flagOutliers(records, ds, s.outlierMultiplier)
	stats.RawSample = tailSample(records, rawSampleSize)

	return stats, nil
}

// BuildReport groups records by API, computes statistics for each, and
// assembles a report covering [windowStart, windowEnd]
func (s *AggregationServiceImpl) BuildReport(records []*entity.CallRecord, windowStart, windowEnd time.Time) (*entity.Report, error) {
	if windowEnd.Before(windowStart) {
		return nil, usecase.NewAggregationServiceError("invalid_window", "window end precedes window start")
	}

	byAPI := make(map[string][]*entity.CallRecord)
	for _, record := range records {
		if record == nil {
			continue
		}
		byAPI[record.APIName] = append(byAPI[record.APIName], record)
	}

	perAPI := make(map[string]*entity.APIStats, len(byAPI))
	for apiName, group := range byAPI {
		// Stable observation order within each API makes outputs
		// deterministic regardless of map iteration.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartedAt.Before(group[j].StartedAt)
		})
		stats, err := s.ComputeStats(apiName, group)
		if err != nil {
			return nil, err
		}
		perAPI[apiName] = stats
	}

	generatedAt := windowEnd
	name := ReportName(generatedAt)
	report, err := entity.NewReport(name, generatedAt, windowStart, windowEnd, perAPI)
	if err != nil {
		return nil, usecase.NewAggregationServiceError("build_report", err.Error())
	}
	return report, nil
}

// ReportName derives the canonical report file stem for a timestamp
func ReportName(ts time.Time) string {
	return "api_performance_" + ts.Format("20060102_150405")
}

// flagOutliers returns records beyond the MAD threshold, in observation order
func flagOutliers(records []*entity.CallRecord, ds valueobject.DurationStats, k float64) []*entity.CallRecord {
	if ds.Count() < 2 {
		return nil
	}
	var outliers []*entity.CallRecord
	for _, record := range records {
		if record == nil {
			continue
		}
		if ds.IsOutlier(record.Seconds(), k) {
			outliers = append(outliers, record)
		}
	}
	return outliers
}

// tailSample returns the last n records, preserving order
func tailSample(records []*entity.CallRecord, n int) []*entity.CallRecord {
	clean := make([]*entity.CallRecord, 0, len(records))
	for _, record := range records {
		if record != nil {
			clean = append(clean, record)
		}
	}
	if len(clean) <= n {
		return clean
	}
	return clean[len(clean)-n:]
}
