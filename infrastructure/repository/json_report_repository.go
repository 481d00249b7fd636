package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/repository"
)

// JSONReportRepository persists reports as indented JSON files, one file
// per report, named after the report itself.
type JSONReportRepository struct {
	directory   string
	retainCount int
}

// NewJSONReportRepository creates a new JSON report repository.
// retainCount limits how many report files are kept; zero keeps all.
func NewJSONReportRepository(directory string, retainCount int) (repository.ReportRepository, error) {
	if directory == "" {
		return nil, fmt.Errorf("report directory is required")
	}
	if strings.Contains(directory, "..") {
		return nil, fmt.Errorf("report directory must not contain path traversal: %s", directory)
	}
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &JSONReportRepository{
		directory:   directory,
		retainCount: retainCount,
	}, nil
}

// Save writes the report atomically and prunes old files past the
// retention limit. Returns the file path written.
func (r *JSONReportRepository) Save(report *entity.Report) (string, error) {
	if report == nil {
		return "", repository.NewReportRepositoryError("save", fmt.Errorf("report is nil"))
	}
	if err := validateReportName(report.Name); err != nil {
		return "", repository.NewReportRepositoryError("save", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", repository.NewReportRepositoryError("save", fmt.Errorf("failed to marshal report: %w", err))
	}

	path := filepath.Join(r.directory, report.Name+".json")

	// Write to a temp file first, then rename atomically
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return "", repository.NewReportRepositoryError("save", fmt.Errorf("failed to write temp report file: %w", err))
	}
	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return "", repository.NewReportRepositoryError("save", fmt.Errorf("failed to save report file: %w", err))
	}

	if r.retainCount > 0 {
		if err := r.prune(); err != nil {
			// Pruning failure must not fail the save that just succeeded
			fmt.Fprintf(os.Stderr, "Warning: failed to prune old reports: %v\n", err)
		}
	}

	return path, nil
}

// Latest loads the most recent report, or ErrReportNotFound when none exist
func (r *JSONReportRepository) Latest() (*entity.Report, error) {
	names, err := r.List(1)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, repository.ErrReportNotFound
	}
	return r.Load(names[0])
}

// List returns report names newest first. A limit of zero or less
// returns all.
func (r *JSONReportRepository) List(limit int) ([]string, error) {
	entries, err := os.ReadDir(r.directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, repository.NewReportRepositoryError("list", fmt.Errorf("failed to read report directory: %w", err))
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}

	// Report names embed their generation timestamp, so lexicographic
	// descending order is newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

// Load reads one report by name
func (r *JSONReportRepository) Load(name string) (*entity.Report, error) {
	if err := validateReportName(name); err != nil {
		return nil, repository.NewReportRepositoryError("load", err)
	}

	path := filepath.Join(r.directory, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, repository.ErrReportNotFound
		}
		return nil, repository.NewReportRepositoryError("load", fmt.Errorf("failed to read report file: %w", err))
	}

	var report entity.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, repository.ErrReportMalformed
	}
	return &report, nil
}

// LoadLatest loads up to count reports, newest first
func (r *JSONReportRepository) LoadLatest(count int) ([]*entity.Report, error) {
	if count <= 0 {
		return nil, nil
	}
	names, err := r.List(count)
	if err != nil {
		return nil, err
	}
	reports := make([]*entity.Report, 0, len(names))
	for _, name := range names {
		report, err := r.Load(name)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// prune removes the oldest report files beyond the retention limit
func (r *JSONReportRepository) prune() error {
	names, err := r.List(0)
	if err != nil {
		return err
	}
	if len(names) <= r.retainCount {
		return nil
	}
	for _, name := range names[r.retainCount:] {
		path := filepath.Join(r.directory, name+".json")
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove old report %s: %w", name, err)
		}
	}
	return nil
}

// validateReportName rejects names that could escape the report directory
func validateReportName(name string) error {
	if name == "" {
		return fmt.Errorf("report name must not be empty")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("report name must not contain path separators: %s", name)
	}
	return nil
}
