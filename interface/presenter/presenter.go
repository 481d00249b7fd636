package presenter

import (
	"github.com/linkmatch/apitrack/domain/entity"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// ConsolePresenter handles console output formatting
type ConsolePresenter interface {
	// Version and basic output
	PrintVersion()
	PrintError(err error)
	PrintStringList(title string, items []string) error

	// Report output
	PrintReport(report *entity.Report) error
	PrintAPIStats(stats *entity.APIStats) error
	PrintPercentileChart(stats *entity.APIStats) error

	// Analysis output
	PrintAnalysis(result *usecase.AnalysisResult) error
	PrintComparison(result *usecase.ComparisonResult, withChart bool) error

	// Live tracking output
	PrintLiveCall(record *entity.CallRecord) error

	// Daemon status
	PrintStatus(status *usecase.StatusInfo) error
}

// JSONPresenter handles JSON output formatting
type JSONPresenter interface {
	PrintReport(report *entity.Report) error
	PrintAPIStats(stats *entity.APIStats) error
	PrintAnalysis(result *usecase.AnalysisResult) error
	PrintComparison(result *usecase.ComparisonResult) error
	PrintStringList(title string, items []string) error
	PrintStatus(status *usecase.StatusInfo) error
}
