package domain

import (
	"fmt"
)

// ErrorCode represents the type of domain error
type ErrorCode string

const (
	// ErrCodeNotFound indicates that a requested resource was not found
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidInput indicates that the input provided is invalid
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeTracking indicates a failure inside the call tracker's own
	// bookkeeping; never propagated to instrumented callers
	ErrCodeTracking ErrorCode = "TRACKING_ERROR"

	// ErrCodeAggregation indicates an error while computing statistics
	ErrCodeAggregation ErrorCode = "AGGREGATION_ERROR"

	// ErrCodeReportPersistence indicates a report write/read failure
	ErrCodeReportPersistence ErrorCode = "REPORT_PERSISTENCE_ERROR"

	// ErrCodeReportUnavailable indicates that a requested report is missing
	// or malformed; consumers degrade to "no data yet"
	ErrCodeReportUnavailable ErrorCode = "REPORT_UNAVAILABLE"

	// ErrCodeAnalysis indicates malformed input to the analyzer
	ErrCodeAnalysis ErrorCode = "ANALYSIS_ERROR"

	// ErrCodeArchive indicates a call-record archive access error
	ErrCodeArchive ErrorCode = "ARCHIVE_ERROR"

	// ErrCodeCSVExport indicates a CSV export-related error
	ErrCodeCSVExport ErrorCode = "CSV_EXPORT_ERROR"

	// ErrCodeFileOperation indicates a file operation error
	ErrCodeFileOperation ErrorCode = "FILE_OPERATION_ERROR"

	// ErrCodePublish indicates a stats publishing error
	ErrCodePublish ErrorCode = "PUBLISH_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e *DomainError) WithDetails(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// NewDomainErrorWithCause creates a new domain error with an underlying cause
func NewDomainErrorWithCause(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code
	}
	return ""
}

// Common domain errors

// ErrNotFound creates a not found error
func ErrNotFound(resource string, id string) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetails("resource", resource).
		WithDetails("id", id)
}

// ErrInvalidInput creates an invalid input error
func ErrInvalidInput(field string, reason string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetails("field", field).
		WithDetails("reason", reason)
}

// Tracking errors

// ErrTracking creates a tracking bookkeeping error
func ErrTracking(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeTracking, fmt.Sprintf("tracking error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrAggregation creates an aggregation error
func ErrAggregation(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeAggregation, fmt.Sprintf("aggregation error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// Report errors

// ErrReportPersistence creates a report persistence error with cause
func ErrReportPersistence(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeReportPersistence, fmt.Sprintf("report persistence error in %s", operation), err).
		WithDetails("operation", operation)
}

// ErrReportUnavailable creates a report unavailable error
func ErrReportUnavailable(reason string) *DomainError {
	return NewDomainError(ErrCodeReportUnavailable, fmt.Sprintf("report unavailable: %s", reason)).
		WithDetails("reason", reason)
}

// ErrReportUnavailableWithCause creates a report unavailable error with cause
func ErrReportUnavailableWithCause(reason string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeReportUnavailable, fmt.Sprintf("report unavailable: %s", reason), err).
		WithDetails("reason", reason)
}

// ErrAnalysis creates an analysis error
func ErrAnalysis(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeAnalysis, fmt.Sprintf("analysis error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrArchive creates an archive error with cause
func ErrArchive(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeArchive, fmt.Sprintf("archive error in %s", operation), err).
		WithDetails("operation", operation)
}

// CSV Export errors

// ErrCSVExport creates a CSV export error
func ErrCSVExport(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeCSVExport, fmt.Sprintf("CSV export error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrCSVExportWithCause creates a CSV export error with cause
func ErrCSVExportWithCause(operation string, reason string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeCSVExport, fmt.Sprintf("CSV export error in %s: %s", operation, reason), err).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// File operation errors

// ErrFileOperationWithCause creates a file operation error with cause
func ErrFileOperationWithCause(operation string, path string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeFileOperation, fmt.Sprintf("file operation error in %s", operation), err).
		WithDetails("operation", operation).
		WithDetails("path", path)
}

// ErrPathTraversal creates a path traversal error
func ErrPathTraversal(path string) *DomainError {
	return NewDomainError(ErrCodeFileOperation, "path contains directory traversal").
		WithDetails("path", path).
		WithDetails("securityViolation", "directory_traversal")
}

// Publishing errors

// ErrPublish creates a stats publishing error with cause
func ErrPublish(backend string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodePublish, fmt.Sprintf("failed to publish stats to %s", backend), err).
		WithDetails("backend", backend)
}
