package usecase

import (
	"time"

	"github.com/linkmatch/apitrack/domain/entity"
)

// AggregationService defines the interface for turning raw call records
// into per-API statistics and reports
type AggregationService interface {
	// ComputeStats aggregates records for a single API into statistics
	ComputeStats(apiName string, records []*entity.CallRecord) (*entity.APIStats, error)

	// BuildReport groups records by API, computes statistics for each,
	// and assembles a report covering [windowStart, windowEnd]
	BuildReport(records []*entity.CallRecord, windowStart, windowEnd time.Time) (*entity.Report, error)
}

// AggregationServiceError represents an error from aggregation operations
type AggregationServiceError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *AggregationServiceError) Error() string {
	return e.Message
}

// NewAggregationServiceError creates a new aggregation service error
func NewAggregationServiceError(code, message string) *AggregationServiceError {
	return &AggregationServiceError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *AggregationServiceError) WithDetail(key string, value interface{}) *AggregationServiceError {
	e.Details[key] = value
	return e
}
