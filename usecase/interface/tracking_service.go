package usecase

import (
	"context"

	"github.com/linkmatch/apitrack/domain/entity"
)

// TrackingService defines the interface for recording API call timings
type TrackingService interface {
	// RecordCall appends one completed call to the in-memory buffer.
	// It never returns an error; tracking must not disturb callers.
	RecordCall(record *entity.CallRecord)

	// Instrument runs fn, times it, classifies its error, records the
	// call, and returns fn's result untouched
	Instrument(ctx context.Context, apiName string, fn func(ctx context.Context) error) error

	// InstrumentWithMetadata is Instrument with caller-supplied metadata
	// attached to the record
	InstrumentWithMetadata(ctx context.Context, apiName string, metadata map[string]interface{}, fn func(ctx context.Context) error) error

	// Drain atomically removes and returns all buffered records
	Drain() []*entity.CallRecord

	// Restore puts records back at the front of the buffer. Used when a
	// downstream consumer could not process a drained batch.
	Restore(records []*entity.CallRecord)

	// BufferedCount returns the number of records currently buffered
	BufferedCount() int

	// Subscribe registers a live feed for completed calls. Slow
	// subscribers lose records rather than block recording.
	Subscribe(buffer int) (<-chan *entity.CallRecord, func())
}

// TrackingServiceError represents an error from tracking service operations
type TrackingServiceError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *TrackingServiceError) Error() string {
	return e.Message
}

// NewTrackingServiceError creates a new tracking service error
func NewTrackingServiceError(code, message string) *TrackingServiceError {
	return &TrackingServiceError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *TrackingServiceError) WithDetail(key string, value interface{}) *TrackingServiceError {
	e.Details[key] = value
	return e
}
