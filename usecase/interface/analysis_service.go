package usecase

import (
	"github.com/linkmatch/apitrack/domain/entity"
)

// Finding severities, ordered from informational to actionable
const (
	SeverityInfo    = "info"
	SeverityNotice  = "notice"
	SeverityWarning = "warning"
)

// Finding kinds produced by the analyzer
const (
	FindingSlowAPI      = "slow_api"
	FindingHighVolume   = "high_volume"
	FindingUnstable     = "unstable"
	FindingHighFailure  = "high_failure"
	FindingRegression   = "regression"
	FindingImprovement  = "improvement"
)

// Finding is a single analyzer observation with a recommendation
type Finding struct {
	Kind           string  `json:"kind"`
	Severity       string  `json:"severity"`
	APIName        string  `json:"api_name"`
	Detail         string  `json:"detail"`
	Recommendation string  `json:"recommendation"`
	Value          float64 `json:"value,omitempty"`
}

// AnalysisResult is the outcome of analyzing one report
type AnalysisResult struct {
	ReportName string     `json:"report_name"`
	Findings   []Finding  `json:"findings"`
	Healthy    []string   `json:"healthy_apis"`
}

// TrendPoint is one report's value for an API in a comparison series
type TrendPoint struct {
	ReportName  string  `json:"report_name"`
	MeanSeconds float64 `json:"avg_duration"`
	P95Seconds  float64 `json:"p95_duration"`
	Calls       int     `json:"calls"`
}

// APITrend is the per-API series across compared reports, oldest first.
// DeltaPct and P95DeltaPct compare the oldest point against the newest.
type APITrend struct {
	APIName     string       `json:"api_name"`
	Points      []TrendPoint `json:"points"`
	DeltaPct    float64      `json:"delta_pct"`
	P95DeltaPct float64      `json:"p95_delta_pct"`
	Direction   string       `json:"direction"` // "faster", "slower", "steady"
}

// ComparisonResult is the outcome of comparing the latest N reports
type ComparisonResult struct {
	ReportNames []string   `json:"report_names"`
	Trends      []APITrend `json:"trends"`
	Findings    []Finding  `json:"findings"`
}

// AnalysisThresholds tunes the analyzer's rules
type AnalysisThresholds struct {
	// SlowMeanSeconds flags an API whose mean exceeds this
	SlowMeanSeconds float64

	// SlowP95Seconds flags an API whose p95 exceeds this
	SlowP95Seconds float64

	// HighVolumeShare flags an API holding more than this share of all
	// calls, provided it also has at least HighVolumeMinCalls
	HighVolumeShare    float64
	HighVolumeMinCalls int

	// UnstableOutlierRate flags an API whose outlier fraction exceeds this
	UnstableOutlierRate float64

	// HighFailureRate flags an API whose failure fraction exceeds this
	HighFailureRate float64

	// RegressionDeltaPct flags a mean or p95 latency change beyond +/-
	// this percent between the oldest and newest compared reports
	RegressionDeltaPct float64
}

// DefaultAnalysisThresholds returns the stock analyzer tuning
func DefaultAnalysisThresholds() AnalysisThresholds {
	return AnalysisThresholds{
		SlowMeanSeconds:     1.0,
		SlowP95Seconds:      2.0,
		HighVolumeShare:     0.4,
		HighVolumeMinCalls:  10,
		UnstableOutlierRate: 0.1,
		HighFailureRate:     0.05,
		RegressionDeltaPct:  25.0,
	}
}

// AnalysisService defines the interface for report analysis
type AnalysisService interface {
	// Analyze inspects a single report and produces findings
	Analyze(report *entity.Report) (*AnalysisResult, error)

	// AnalyzeLatest analyzes the most recent persisted report
	AnalyzeLatest() (*AnalysisResult, error)

	// Compare loads the latest count reports and computes per-API trends
	Compare(count int) (*ComparisonResult, error)

	// FilterByAPI reduces a report to a single API's statistics
	FilterByAPI(report *entity.Report, apiName string) (*entity.APIStats, error)
}

// AnalysisServiceError represents an error from analysis operations
type AnalysisServiceError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *AnalysisServiceError) Error() string {
	return e.Message
}

// NewAnalysisServiceError creates a new analysis service error
func NewAnalysisServiceError(code, message string) *AnalysisServiceError {
	return &AnalysisServiceError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *AnalysisServiceError) WithDetail(key string, value interface{}) *AnalysisServiceError {
	e.Details[key] = value
	return e
}
