package repository

import (
	"github.com/linkmatch/apitrack/domain/entity"
)

// StatsPublisherRepository defines the interface for pushing aggregated
// API statistics to external monitoring systems
type StatsPublisherRepository interface {
	// PublishStats sends per-API latency and volume series derived from
	// the given report
	PublishStats(report *entity.Report, hostLabel string) error

	// Close cleans up any resources used by the publisher
	Close() error
}

// StatsPublisherError represents errors from a stats publisher
type StatsPublisherError struct {
	Operation string
	Err       error
}

func (e *StatsPublisherError) Error() string {
	if e.Err != nil {
		return "stats publisher error in " + e.Operation + ": " + e.Err.Error()
	}
	return "stats publisher error in " + e.Operation
}

func (e *StatsPublisherError) Unwrap() error {
	return e.Err
}

// NewStatsPublisherError creates a new stats publisher error
func NewStatsPublisherError(operation string, err error) error {
	return &StatsPublisherError{
		Operation: operation,
		Err:       err,
	}
}

// Common error types
var (
	// ErrPublishConnectionFailed is returned when connection to the backend fails
	ErrPublishConnectionFailed = &StatsPublisherError{Operation: "connect", Err: nil}

	// ErrPublishSendFailed is returned when sending series fails
	ErrPublishSendFailed = &StatsPublisherError{Operation: "send", Err: nil}

	// ErrPublishTimeout is returned when a publish operation times out
	ErrPublishTimeout = &StatsPublisherError{Operation: "timeout", Err: nil}
)
