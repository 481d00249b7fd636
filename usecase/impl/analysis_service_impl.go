package impl

import (
	"fmt"
	"sort"

	"github.com/linkmatch/apitrack/domain/entity"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// AnalysisServiceImpl implements the AnalysisService interface
type AnalysisServiceImpl struct {
	reportService usecase.ReportService
	thresholds    usecase.AnalysisThresholds
}

// NewAnalysisService creates a new analysis service implementation
func NewAnalysisService(reportService usecase.ReportService, thresholds usecase.AnalysisThresholds) usecase.AnalysisService {
	return &AnalysisServiceImpl{
		reportService: reportService,
		thresholds:    thresholds,
	}
}

// Analyze inspects a single report and produces findings
func (s *AnalysisServiceImpl) Analyze(report *entity.Report) (*usecase.AnalysisResult, error) {
	if report == nil {
		return nil, usecase.NewAnalysisServiceError("invalid_input", "report is nil")
	}

	result := &usecase.AnalysisResult{
		ReportName: report.Name,
		Findings:   []usecase.Finding{},
		Healthy:    []string{},
	}

	totalCalls := 0
	if report.Summary != nil {
		totalCalls = report.Summary.TotalCalls
	}

	for _, apiName := range report.APINames() {
		stats := report.PerAPIStats[apiName]
		if stats == nil || stats.IsEmpty() {
			continue
		}

		flagged := false

		if stats.MeanSeconds > s.thresholds.SlowMeanSeconds {
			flagged = true
			result.Findings = append(result.Findings, usecase.Finding{
				Kind:     usecase.FindingSlowAPI,
				Severity: usecase.SeverityWarning,
				APIName:  apiName,
				Detail: fmt.Sprintf("mean duration %.2fs exceeds %.2fs over %d calls",
					stats.MeanSeconds, s.thresholds.SlowMeanSeconds, stats.Count),
				Recommendation: fmt.Sprintf("Consider optimizing %s calls or adding caching", apiName),
				Value:          stats.MeanSeconds,
			})
		} else if stats.P95Seconds > s.thresholds.SlowP95Seconds {
			flagged = true
			result.Findings = append(result.Findings, usecase.Finding{
				Kind:     usecase.FindingSlowAPI,
				Severity: usecase.SeverityNotice,
				APIName:  apiName,
				Detail: fmt.Sprintf("p95 duration %.2fs exceeds %.2fs while mean stays at %.2fs",
					stats.P95Seconds, s.thresholds.SlowP95Seconds, stats.MeanSeconds),
				Recommendation: fmt.Sprintf("Investigate tail latency on %s; a slow subset of calls dominates p95", apiName),
				Value:          stats.P95Seconds,
			})
		}

		if totalCalls > 0 && stats.Count >= s.thresholds.HighVolumeMinCalls {
			share := float64(stats.Count) / float64(totalCalls)
			if share > s.thresholds.HighVolumeShare {
				flagged = true
				result.Findings = append(result.Findings, usecase.Finding{
					Kind:     usecase.FindingHighVolume,
					Severity: usecase.SeverityNotice,
					APIName:  apiName,
					Detail: fmt.Sprintf("%d calls make up %.0f%% of all traffic",
						stats.Count, share*100),
					Recommendation: fmt.Sprintf("Consider batching or caching %s to reduce call volume", apiName),
					Value:          share,
				})
			}
		}

		if rate := stats.OutlierRate(); rate > s.thresholds.UnstableOutlierRate {
			flagged = true
			result.Findings = append(result.Findings, usecase.Finding{
				Kind:     usecase.FindingUnstable,
				Severity: usecase.SeverityWarning,
				APIName:  apiName,
				Detail: fmt.Sprintf("%d of %d calls (%.0f%%) were latency outliers",
					len(stats.Outliers), stats.Count, rate*100),
				Recommendation: fmt.Sprintf("Latency of %s is erratic; check for retries, cold starts, or remote throttling", apiName),
				Value:          rate,
			})
		}

		if rate := stats.FailureRate(); rate > s.thresholds.HighFailureRate {
			flagged = true
			result.Findings = append(result.Findings, usecase.Finding{
				Kind:     usecase.FindingHighFailure,
				Severity: usecase.SeverityWarning,
				APIName:  apiName,
				Detail: fmt.Sprintf("%d of %d calls (%.0f%%) failed",
					stats.FailureCount, stats.Count, rate*100),
				Recommendation: fmt.Sprintf("Review error classes on %s failures and add backoff where appropriate", apiName),
				Value:          rate,
			})
		}

		if !flagged {
			result.Healthy = append(result.Healthy, apiName)
		}
	}

	sortFindings(result.Findings)
	return result, nil
}

// AnalyzeLatest analyzes the most recent persisted report
func (s *AnalysisServiceImpl) AnalyzeLatest() (*usecase.AnalysisResult, error) {
	report, err := s.reportService.LatestReport()
	if err != nil {
		return nil, usecase.NewAnalysisServiceError("load_latest", err.Error())
	}
	return s.Analyze(report)
}

// Compare loads the latest count reports and computes per-API trends
func (s *AnalysisServiceImpl) Compare(count int) (*usecase.ComparisonResult, error) {
	if count < 2 {
		return nil, usecase.NewAnalysisServiceError("invalid_input", "comparison needs at least two reports")
	}

	reports, err := s.reportService.LoadLatestReports(count)
	if err != nil {
		return nil, usecase.NewAnalysisServiceError("load_reports", err.Error())
	}
	if len(reports) < 2 {
		return nil, usecase.NewAnalysisServiceError("not_enough_reports",
			fmt.Sprintf("need at least 2 reports to compare, have %d", len(reports)))
	}

	// LoadLatestReports returns newest first; trends read oldest first.
	ordered := make([]*entity.Report, len(reports))
	for i, report := range reports {
		ordered[len(reports)-1-i] = report
	}

	result := &usecase.ComparisonResult{
		ReportNames: make([]string, 0, len(ordered)),
		Trends:      []usecase.APITrend{},
		Findings:    []usecase.Finding{},
	}
	apiSet := make(map[string]struct{})
	for _, report := range ordered {
		result.ReportNames = append(result.ReportNames, report.Name)
		for _, apiName := range report.APINames() {
			apiSet[apiName] = struct{}{}
		}
	}

	apiNames := make([]string, 0, len(apiSet))
	for apiName := range apiSet {
		apiNames = append(apiNames, apiName)
	}
	sort.Strings(apiNames)

	for _, apiName := range apiNames {
		trend := usecase.APITrend{APIName: apiName}
		for _, report := range ordered {
			stats, ok := report.StatsFor(apiName)
			if !ok || stats.IsEmpty() {
				continue
			}
			trend.Points = append(trend.Points, usecase.TrendPoint{
				ReportName:  report.Name,
				MeanSeconds: stats.MeanSeconds,
				P95Seconds:  stats.P95Seconds,
				Calls:       stats.Count,
			})
		}
		if len(trend.Points) < 2 {
			trend.Direction = "steady"
			result.Trends = append(result.Trends, trend)
			continue
		}

		first := trend.Points[0]
		last := trend.Points[len(trend.Points)-1]
		if first.MeanSeconds > 0 {
			trend.DeltaPct = (last.MeanSeconds - first.MeanSeconds) / first.MeanSeconds * 100
		}
		if first.P95Seconds > 0 {
			trend.P95DeltaPct = (last.P95Seconds - first.P95Seconds) / first.P95Seconds * 100
		}

		// A regression on either dimension flags the API; a tail-only
		// slowdown must not hide behind a steady mean.
		threshold := s.thresholds.RegressionDeltaPct
		switch {
		case trend.DeltaPct > threshold || trend.P95DeltaPct > threshold:
			trend.Direction = "slower"
			result.Findings = append(result.Findings, usecase.Finding{
				Kind:           usecase.FindingRegression,
				Severity:       usecase.SeverityWarning,
				APIName:        apiName,
				Detail:         regressionDetail(trend, first, last, threshold),
				Recommendation: fmt.Sprintf("Recent change degraded %s latency; compare deploys against the report window", apiName),
				Value:          maxDelta(trend.DeltaPct, trend.P95DeltaPct),
			})
		case trend.DeltaPct < -threshold || trend.P95DeltaPct < -threshold:
			trend.Direction = "faster"
			result.Findings = append(result.Findings, usecase.Finding{
				Kind:           usecase.FindingImprovement,
				Severity:       usecase.SeverityInfo,
				APIName:        apiName,
				Detail:         improvementDetail(trend, first, last, threshold),
				Recommendation: "No action needed",
				Value:          minDelta(trend.DeltaPct, trend.P95DeltaPct),
			})
		default:
			trend.Direction = "steady"
		}
		result.Trends = append(result.Trends, trend)
	}

	sortFindings(result.Findings)
	return result, nil
}

// FilterByAPI reduces a report to a single API's statistics
func (s *AnalysisServiceImpl) FilterByAPI(report *entity.Report, apiName string) (*entity.APIStats, error) {
	if report == nil {
		return nil, usecase.NewAnalysisServiceError("invalid_input", "report is nil")
	}
	if apiName == "" {
		return nil, usecase.NewAnalysisServiceError("invalid_input", "api name must not be empty")
	}
	stats, ok := report.StatsFor(apiName)
	if !ok {
		return nil, usecase.NewAnalysisServiceError("api_not_found",
			fmt.Sprintf("api %q does not appear in report %s", apiName, report.Name)).
			WithDetail("api", apiName)
	}
	return stats, nil
}

// regressionDetail describes which latency dimension regressed. Mean is
// named when it crossed the threshold, p95 when only the tail moved.
func regressionDetail(trend usecase.APITrend, first, last usecase.TrendPoint, threshold float64) string {
	if trend.DeltaPct > threshold {
		return fmt.Sprintf("mean duration rose %.0f%% (%.2fs to %.2fs) across %d reports",
			trend.DeltaPct, first.MeanSeconds, last.MeanSeconds, len(trend.Points))
	}
	return fmt.Sprintf("p95 duration rose %.0f%% (%.2fs to %.2fs) across %d reports while mean stayed within %.0f%%",
		trend.P95DeltaPct, first.P95Seconds, last.P95Seconds, len(trend.Points), threshold)
}

func improvementDetail(trend usecase.APITrend, first, last usecase.TrendPoint, threshold float64) string {
	if trend.DeltaPct < -threshold {
		return fmt.Sprintf("mean duration dropped %.0f%% (%.2fs to %.2fs) across %d reports",
			-trend.DeltaPct, first.MeanSeconds, last.MeanSeconds, len(trend.Points))
	}
	return fmt.Sprintf("p95 duration dropped %.0f%% (%.2fs to %.2fs) across %d reports",
		-trend.P95DeltaPct, first.P95Seconds, last.P95Seconds, len(trend.Points))
}

func maxDelta(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minDelta(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// sortFindings orders findings by severity (warnings first), then API name
func sortFindings(findings []usecase.Finding) {
	rank := map[string]int{
		usecase.SeverityWarning: 0,
		usecase.SeverityNotice:  1,
		usecase.SeverityInfo:    2,
	}
	sort.SliceStable(findings, func(i, j int) bool {
		if rank[findings[i].Severity] != rank[findings[j].Severity] {
			return rank[findings[i].Severity] < rank[findings[j].Severity]
		}
		return findings[i].APIName < findings[j].APIName
	})
}
