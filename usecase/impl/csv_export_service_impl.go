package impl

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/linkmatch/apitrack/domain"
	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/repository"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// CSVExportServiceImpl implements CSVExportService
type CSVExportServiceImpl struct {
	archiveRepo repository.RecordArchiveRepository
	csvWriter   repository.CSVWriterRepository
	logger      domain.Logger
}

// NewCSVExportService creates a new CSV export service
func NewCSVExportService(
	archiveRepo repository.RecordArchiveRepository,
	csvWriter repository.CSVWriterRepository,
	logger domain.Logger,
) usecase.CSVExportService {
	return &CSVExportServiceImpl{
		archiveRepo: archiveRepo,
		csvWriter:   csvWriter,
		logger:      logger,
	}
}

// Export exports archived call records to a CSV file
func (s *CSVExportServiceImpl) Export(options usecase.CSVExportOptions) error {
	if s.archiveRepo == nil {
		return domain.ErrCSVExport("archive", "record archive is not enabled")
	}

	s.logger.Info(context.TODO(), "Starting CSV export",
		domain.NewField("outputPath", options.OutputPath),
		domain.NewField("startTime", options.StartTime),
		domain.NewField("endTime", options.EndTime),
		domain.NewField("apiNames", options.APINames))

	// Set default values
	now := time.Now()
	startTime := s.getStartTime(options.StartTime, now)
	endTime := s.getEndTime(options.EndTime, now)
	outputPath := s.getOutputPath(options.OutputPath, now)

	if endTime.Before(startTime) {
		return domain.ErrInvalidInput("time range", "end time must be after start time")
	}

	records, err := s.collectRecords(startTime, endTime, options.APINames)
	if err != nil {
		return domain.ErrCSVExportWithCause("collect records", "failed to read call records", err)
	}

	if len(records) == 0 {
		s.logger.Warn(context.TODO(), "No call records found for the specified criteria",
			domain.NewField("startTime", startTime),
			domain.NewField("endTime", endTime),
			domain.NewField("apiNames", options.APINames))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})

	if err := s.csvWriter.Write(records, outputPath); err != nil {
		return domain.ErrCSVExportWithCause("write CSV", "failed to write CSV file", err)
	}

	s.logger.Info(context.TODO(), "CSV export completed successfully",
		domain.NewField("outputPath", outputPath),
		domain.NewField("recordCount", len(records)))

	return nil
}

// collectRecords reads records for the requested APIs. An empty API
// list means all archived APIs.
func (s *CSVExportServiceImpl) collectRecords(startTime, endTime time.Time, apiNames []string) ([]*entity.CallRecord, error) {
	if len(apiNames) == 0 {
		return s.archiveRepo.FindByAPI("", startTime, endTime)
	}
	var all []*entity.CallRecord
	for _, apiName := range apiNames {
		records, err := s.archiveRepo.FindByAPI(apiName, startTime, endTime)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

// getStartTime returns start time with defaults
func (s *CSVExportServiceImpl) getStartTime(optionTime *time.Time, now time.Time) time.Time {
	if optionTime != nil {
		return *optionTime
	}
	// Default: 30 days ago from start of day
	return now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
}

// getEndTime returns end time with defaults
func (s *CSVExportServiceImpl) getEndTime(optionTime *time.Time, now time.Time) time.Time {
	if optionTime != nil {
		return *optionTime
	}
	// Default: end of current day
	return now.Truncate(24 * time.Hour).Add(24*time.Hour - time.Nanosecond)
}

// getOutputPath returns output path with defaults
func (s *CSVExportServiceImpl) getOutputPath(optionPath string, now time.Time) string {
	if optionPath != "" {
		return optionPath
	}
	// Default: api_calls_YYYYMMDD_HHMMSS.csv in current directory
	return fmt.Sprintf("api_calls_%s.csv", now.Format("20060102_150405"))
}

// GenerateExportOptions creates export options with validation
func GenerateExportOptions(outputPath string, startTimeStr, endTimeStr string, apiNames []string) (*usecase.CSVExportOptions, error) {
	options := &usecase.CSVExportOptions{
		OutputPath: outputPath,
		APINames:   apiNames,
	}

	if startTimeStr != "" {
		startTime, err := parseTimeString(startTimeStr)
		if err != nil {
			return nil, domain.ErrInvalidInput("start time", fmt.Sprintf("invalid time format: %v", err))
		}
		options.StartTime = &startTime
	}

	if endTimeStr != "" {
		endTime, err := parseTimeString(endTimeStr)
		if err != nil {
			return nil, domain.ErrInvalidInput("end time", fmt.Sprintf("invalid time format: %v", err))
		}
		options.EndTime = &endTime
	}

	if outputPath != "" && filepath.Ext(outputPath) != ".csv" {
		return nil, domain.ErrInvalidInput("output path", "file must have .csv extension")
	}

	return options, nil
}

// parseTimeString parses a time string in several common formats
func parseTimeString(value string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s", value)
}
