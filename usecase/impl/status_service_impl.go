package impl

import (
	"sync"
	"time"

	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// StatusServiceImpl implements StatusService
type StatusServiceImpl struct {
	mu     sync.RWMutex
	status *usecase.StatusInfo
}

// NewStatusService creates a new instance of StatusService
func NewStatusService() usecase.StatusService {
	return &StatusServiceImpl{
		status: &usecase.StatusInfo{
			IsRunning: false,
		},
	}
}

// GetStatus returns the current status information
func (s *StatusServiceImpl) GetStatus() (*usecase.StatusInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Create a copy to avoid concurrent modification
	statusCopy := &usecase.StatusInfo{
		IsRunning:         s.status.IsRunning,
		LastReportAt:      s.status.LastReportAt,
		NextReportAt:      s.status.NextReportAt,
		BufferedCalls:     s.status.BufferedCalls,
		TotalCallsTracked: s.status.TotalCallsTracked,
		LastError:         s.status.LastError,
		LastErrorAt:       s.status.LastErrorAt,
		DaemonStartedAt:   s.status.DaemonStartedAt,
	}

	return statusCopy, nil
}

// UpdateLastReport updates the last report timestamp
func (s *StatusServiceImpl) UpdateLastReport(sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.LastReportAt = &sentAt
	return nil
}

// UpdateNextReport updates the next scheduled report timestamp
func (s *StatusServiceImpl) UpdateNextReport(nextAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.NextReportAt = &nextAt
	return nil
}

// UpdateBufferedCalls updates the buffered call count
func (s *StatusServiceImpl) UpdateBufferedCalls(count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.BufferedCalls = count
	return nil
}

// IncrementTrackedCalls adds to the lifetime tracked call counter
func (s *StatusServiceImpl) IncrementTrackedCalls(delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.TotalCallsTracked += delta
	return nil
}

// RecordError records an error that occurred
func (s *StatusServiceImpl) RecordError(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.status.LastError = err
	s.status.LastErrorAt = &now
	return nil
}

// ClearError clears the last error
func (s *StatusServiceImpl) ClearError() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.LastError = nil
	s.status.LastErrorAt = nil
	return nil
}

// SetDaemonStarted sets the daemon started timestamp
func (s *StatusServiceImpl) SetDaemonStarted(startedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.IsRunning = true
	s.status.DaemonStartedAt = &startedAt
	return nil
}

// SetDaemonStopped clears the daemon runtime information
func (s *StatusServiceImpl) SetDaemonStopped() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.IsRunning = false
	s.status.DaemonStartedAt = nil
	s.status.NextReportAt = nil
	return nil
}
