package usecase

import (
	"time"
)

// CSVExportService defines the interface for CSV export use cases
type CSVExportService interface {
	// Export exports archived call records to a CSV file
	Export(options CSVExportOptions) error
}

// CSVExportOptions represents options for CSV export
type CSVExportOptions struct {
	OutputPath string
	StartTime  *time.Time
	EndTime    *time.Time
	APINames   []string // empty means all APIs
}
