package repository

import (
	"time"

	"github.com/linkmatch/apitrack/domain/entity"
)

// CSVWriterRepository defines the interface for writing CSV files
type CSVWriterRepository interface {
	Write(records []*entity.CallRecord, outputPath string) error
}

// CSVExportOptions represents options for CSV export
type CSVExportOptions struct {
	OutputPath string
	StartTime  time.Time
	EndTime    time.Time
	APINames   []string // empty means all APIs
}

// CSVExportServiceRepository defines the interface for CSV export service
type CSVExportServiceRepository interface {
	Export(options CSVExportOptions) error
}
