package repository

import (
	"time"

	"github.com/linkmatch/apitrack/domain/entity"
)

// RecordArchiveRepository defines the interface for the durable raw
// call-record archive. Archival is best effort; callers treat failures
// as non-fatal.
type RecordArchiveRepository interface {
	// SaveAll persists a batch of call records
	SaveAll(records []*entity.CallRecord) error

	// FindByAPI returns archived records for an API within a time range.
	// An empty apiName matches all APIs.
	FindByAPI(apiName string, start, end time.Time) ([]*entity.CallRecord, error)

	// CountAll returns the total number of archived records
	CountAll() (int, error)

	// DeleteBefore removes records started before the cutoff
	DeleteBefore(cutoff time.Time) (int, error)

	// Close releases the underlying storage
	Close() error
}

// ArchiveRepositoryError represents errors from the record archive
type ArchiveRepositoryError struct {
	Operation string
	Err       error
}

func (e *ArchiveRepositoryError) Error() string {
	if e.Err != nil {
		return "archive repository error in " + e.Operation + ": " + e.Err.Error()
	}
	return "archive repository error in " + e.Operation
}

func (e *ArchiveRepositoryError) Unwrap() error {
	return e.Err
}

// NewArchiveRepositoryError creates a new archive repository error
func NewArchiveRepositoryError(operation string, err error) error {
	return &ArchiveRepositoryError{
		Operation: operation,
		Err:       err,
	}
}
