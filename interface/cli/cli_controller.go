package cli

import (
	"fmt"

	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/interface/presenter"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// RunOptions carries the parsed command-line flags for one CLI invocation
type RunOptions struct {
	// Latest prints the most recent persisted report
	Latest bool

	// List prints the newest N report names; zero means not requested
	List int

	// Analyze runs the analyzer over the latest report
	Analyze bool

	// Compare computes trends over the latest N reports; zero means not requested
	Compare int

	// APIName narrows report output to a single API
	APIName string

	// Chart renders ASCII charts: trend charts alongside comparisons,
	// the percentile distribution alongside a single-API report
	Chart bool

	// ExportCSV writes archived call records to the given CSV path
	ExportCSV string

	// ReportNow generates and persists a report immediately
	ReportNow bool

	// Status prints the daemon status block
	Status bool

	// JSON switches output to the JSON presenter
	JSON bool
}

// CLIController handles command-line query operations against persisted
// reports and the record archive
type CLIController struct {
	reportService    usecase.ReportService
	analysisService  usecase.AnalysisService
	csvExportService usecase.CSVExportService
	statusService    usecase.StatusService
	consolePresenter presenter.ConsolePresenter
	jsonPresenter    presenter.JSONPresenter
}

// NewCLIController creates a new CLI controller
func NewCLIController(
	reportService usecase.ReportService,
	analysisService usecase.AnalysisService,
	csvExportService usecase.CSVExportService,
	statusService usecase.StatusService,
	consolePresenter presenter.ConsolePresenter,
	jsonPresenter presenter.JSONPresenter,
) *CLIController {
	return &CLIController{
		reportService:    reportService,
		analysisService:  analysisService,
		csvExportService: csvExportService,
		statusService:    statusService,
		consolePresenter: consolePresenter,
		jsonPresenter:    jsonPresenter,
	}
}

// Run executes one CLI operation. Flags are checked in a fixed order and
// the first requested operation wins; with no flags the latest report is
// printed.
func (c *CLIController) Run(opts RunOptions) error {
	switch {
	case opts.ReportNow:
		return c.reportNow(opts)
	case opts.List > 0:
		return c.list(opts)
	case opts.Analyze:
		return c.analyze(opts)
	case opts.Compare > 0:
		return c.compare(opts)
	case opts.ExportCSV != "":
		return c.exportCSV(opts)
	case opts.Status:
		return c.status(opts)
	default:
		return c.latest(opts)
	}
}

func (c *CLIController) reportNow(opts RunOptions) error {
	report, err := c.reportService.GenerateReportNow()
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	return c.printReport(opts, report)
}

func (c *CLIController) latest(opts RunOptions) error {
	report, err := c.reportService.LatestReport()
	if err != nil {
		return fmt.Errorf("failed to load latest report: %w", err)
	}
	return c.printReport(opts, report)
}

func (c *CLIController) list(opts RunOptions) error {
	names, err := c.reportService.ListReports(opts.List)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if opts.JSON {
		return c.jsonPresenter.PrintStringList("reports", names)
	}
	return c.consolePresenter.PrintStringList("Reports (newest first)", names)
}

func (c *CLIController) analyze(opts RunOptions) error {
	result, err := c.analysisService.AnalyzeLatest()
	if err != nil {
		return fmt.Errorf("failed to analyze latest report: %w", err)
	}
	if opts.JSON {
		return c.jsonPresenter.PrintAnalysis(result)
	}
	return c.consolePresenter.PrintAnalysis(result)
}

func (c *CLIController) compare(opts RunOptions) error {
	result, err := c.analysisService.Compare(opts.Compare)
	if err != nil {
		return fmt.Errorf("failed to compare reports: %w", err)
	}
	if opts.JSON {
		return c.jsonPresenter.PrintComparison(result)
	}
	return c.consolePresenter.PrintComparison(result, opts.Chart)
}

func (c *CLIController) exportCSV(opts RunOptions) error {
	exportOpts := usecase.CSVExportOptions{
		OutputPath: opts.ExportCSV,
	}
	if opts.APIName != "" {
		exportOpts.APINames = []string{opts.APIName}
	}
	if err := c.csvExportService.Export(exportOpts); err != nil {
		return fmt.Errorf("failed to export CSV: %w", err)
	}
	return nil
}

func (c *CLIController) status(opts RunOptions) error {
	info, err := c.statusService.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	if opts.JSON {
		return c.jsonPresenter.PrintStatus(info)
	}
	return c.consolePresenter.PrintStatus(info)
}

// printReport prints a full report, narrowed to one API when requested
func (c *CLIController) printReport(opts RunOptions, report *entity.Report) error {
	if opts.APIName != "" {
		stats, err := c.analysisService.FilterByAPI(report, opts.APIName)
		if err != nil {
			return fmt.Errorf("failed to filter report by API: %w", err)
		}
		if opts.JSON {
			return c.jsonPresenter.PrintAPIStats(stats)
		}
		if err := c.consolePresenter.PrintAPIStats(stats); err != nil {
			return err
		}
		if opts.Chart {
			return c.consolePresenter.PrintPercentileChart(stats)
		}
		return nil
	}
	if opts.JSON {
		return c.jsonPresenter.PrintReport(report)
	}
	return c.consolePresenter.PrintReport(report)
}
