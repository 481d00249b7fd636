package usecase

import (
	"github.com/linkmatch/apitrack/domain/entity"
)

// ReportService defines the interface for periodic report generation
type ReportService interface {
	// StartPeriodicReports starts the hourly report loop
	StartPeriodicReports() error

	// StopPeriodicReports stops the report loop. A final report is
	// generated from any buffered records before shutdown.
	StopPeriodicReports() error

	// GenerateReportNow drains the tracker and persists a report
	// immediately, outside the periodic schedule
	GenerateReportNow() (*entity.Report, error)

	// LatestReport returns the most recently persisted report
	LatestReport() (*entity.Report, error)

	// ListReports returns persisted report names, newest first
	ListReports(limit int) ([]string, error)

	// LoadReport reads a persisted report by name
	LoadReport(name string) (*entity.Report, error)

	// LoadLatestReports reads the newest count reports, newest first
	LoadLatestReports(count int) ([]*entity.Report, error)
}

// ReportServiceError represents an error from report service operations
type ReportServiceError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *ReportServiceError) Error() string {
	return e.Message
}

// NewReportServiceError creates a new report service error
func NewReportServiceError(code, message string) *ReportServiceError {
	return &ReportServiceError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *ReportServiceError) WithDetail(key string, value interface{}) *ReportServiceError {
	e.Details[key] = value
	return e
}
