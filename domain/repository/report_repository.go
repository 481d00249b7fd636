package repository

import (
	"github.com/linkmatch/apitrack/domain/entity"
)

// ReportRepository defines the interface for persisting performance reports
type ReportRepository interface {
	// Save persists a report and returns the name it was stored under
	Save(report *entity.Report) (string, error)

	// Latest returns the most recently generated report
	Latest() (*entity.Report, error)

	// List returns report names, newest first, at most limit entries.
	// A limit of zero or less means no limit.
	List(limit int) ([]string, error)

	// Load reads a report by name
	Load(name string) (*entity.Report, error)

	// LoadLatest reads the newest count reports, newest first
	LoadLatest(count int) ([]*entity.Report, error)
}

// ReportRepositoryError represents errors from the report repository
type ReportRepositoryError struct {
	Operation string
	Err       error
}

func (e *ReportRepositoryError) Error() string {
	if e.Err != nil {
		return "report repository error in " + e.Operation + ": " + e.Err.Error()
	}
	return "report repository error in " + e.Operation
}

func (e *ReportRepositoryError) Unwrap() error {
	return e.Err
}

// NewReportRepositoryError creates a new report repository error
func NewReportRepositoryError(operation string, err error) error {
	return &ReportRepositoryError{
		Operation: operation,
		Err:       err,
	}
}

// Common error types
var (
	// ErrReportNotFound is returned when a report is not found
	ErrReportNotFound = &ReportRepositoryError{Operation: "find", Err: nil}

	// ErrReportMalformed is returned when a stored report cannot be decoded
	ErrReportMalformed = &ReportRepositoryError{Operation: "decode", Err: nil}

	// ErrReportWriteFailed is returned when persisting a report fails
	ErrReportWriteFailed = &ReportRepositoryError{Operation: "save", Err: nil}
)
