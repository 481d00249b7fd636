package usecase

import (
	"time"
)

// StatusInfo represents the current status of the application
type StatusInfo struct {
	// IsRunning indicates whether the daemon is currently running
	IsRunning bool

	// LastReportAt is the timestamp of the last successful report save
	LastReportAt *time.Time

	// NextReportAt is when the next periodic report is scheduled
	NextReportAt *time.Time

	// BufferedCalls is the number of call records awaiting aggregation
	BufferedCalls int

	// TotalCallsTracked is the number of calls recorded since start
	TotalCallsTracked int64

	// LastError is the last error that occurred (if any)
	LastError error

	// LastErrorAt is the timestamp of the last error
	LastErrorAt *time.Time

	// DaemonStartedAt is the timestamp when the daemon was started
	DaemonStartedAt *time.Time
}

// StatusService provides status information about the application
type StatusService interface {
	// GetStatus returns the current status information
	GetStatus() (*StatusInfo, error)

	// UpdateLastReport updates the last report timestamp
	UpdateLastReport(sentAt time.Time) error

	// UpdateNextReport updates the next scheduled report timestamp
	UpdateNextReport(nextAt time.Time) error

	// UpdateBufferedCalls updates the buffered call count
	UpdateBufferedCalls(count int) error

	// IncrementTrackedCalls adds to the lifetime tracked call counter
	IncrementTrackedCalls(delta int64) error

	// RecordError records an error that occurred
	RecordError(err error) error

	// ClearError clears the last error
	ClearError() error

	// SetDaemonStarted sets the daemon started timestamp
	SetDaemonStarted(startedAt time.Time) error

	// SetDaemonStopped clears the daemon runtime information
	SetDaemonStopped() error
}
