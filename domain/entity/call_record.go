package entity

import (
	"fmt"
	"time"
)

// CallOutcome represents the terminal state of an instrumented API call
type CallOutcome string

const (
	// OutcomeSuccess indicates the wrapped call returned without error
	OutcomeSuccess CallOutcome = "success"

	// OutcomeFailure indicates the wrapped call returned an error
	OutcomeFailure CallOutcome = "failure"
)

// Error classification labels recorded for failed calls
const (
	ErrorClassTimeout     = "timeout"
	ErrorClassRateLimited = "rate_limited"
	ErrorClassAuth        = "auth_error"
	ErrorClassCanceled    = "canceled"
	ErrorClassUnknown     = "unknown"
)

// CallRecord is one timed observation of a single outbound API invocation.
// Records are immutable once created; the tracker only ever appends them.
type CallRecord struct {
	APIName    string            `json:"api_name"`
	StartedAt  time.Time         `json:"started_at"`
	Duration   time.Duration     `json:"duration"`
	Outcome    CallOutcome       `json:"outcome"`
	ErrorClass string            `json:"error_class,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// NewCallRecord creates a new CallRecord. The api name must be non-empty and
// the duration non-negative; zero is permitted for degenerate no-op calls.
func NewCallRecord(apiName string, startedAt time.Time, duration time.Duration, outcome CallOutcome) (*CallRecord, error) {
	if apiName == "" {
		return nil, fmt.Errorf("api name must not be empty")
	}
	if duration < 0 {
		return nil, fmt.Errorf("duration must not be negative: %v", duration)
	}
	if outcome != OutcomeSuccess && outcome != OutcomeFailure {
		return nil, fmt.Errorf("invalid outcome: %q", outcome)
	}
	return &CallRecord{
		APIName:   apiName,
		StartedAt: startedAt,
		Duration:  duration,
		Outcome:   outcome,
	}, nil
}

// WithErrorClass sets the error classification label. Only meaningful for
// failure records; ignored for success records.
func (r *CallRecord) WithErrorClass(class string) *CallRecord {
	if r.Outcome == OutcomeFailure {
		r.ErrorClass = class
	}
	return r
}

// WithMetadata attaches display metadata to the record. Values are kept
// verbatim; aggregation never depends on them.
func (r *CallRecord) WithMetadata(metadata map[string]string) *CallRecord {
	if len(metadata) > 0 {
		r.Metadata = metadata
	}
	return r
}

// GetMetadata retrieves a metadata value
func (r *CallRecord) GetMetadata(key string) (string, bool) {
	if r.Metadata == nil {
		return "", false
	}
	value, exists := r.Metadata[key]
	return value, exists
}

// IsFailure reports whether the call ended in failure
func (r *CallRecord) IsFailure() bool {
	return r.Outcome == OutcomeFailure
}

// Seconds returns the call duration in seconds
func (r *CallRecord) Seconds() float64 {
	return r.Duration.Seconds()
}

// SanitizeMetadata converts arbitrary metadata values into strings suitable
// for a CallRecord. Non-stringable values are rendered with %v so that a
// malformed metadata map can never fail the recording path.
func SanitizeMetadata(raw map[string]interface{}) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if k == "" {
			continue
		}
		switch val := v.(type) {
		case string:
			out[k] = val
		case fmt.Stringer:
			out[k] = val.String()
		default:
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
