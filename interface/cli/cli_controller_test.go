package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmatch/apitrack/domain/entity"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// recordingConsole implements presenter.ConsolePresenter and remembers
// which methods were called
type recordingConsole struct {
	calls []string
}

func (r *recordingConsole) PrintVersion()       { r.calls = append(r.calls, "version") }
func (r *recordingConsole) PrintError(err error) { r.calls = append(r.calls, "error") }
func (r *recordingConsole) PrintStringList(title string, items []string) error {
	r.calls = append(r.calls, "stringList")
	return nil
}
func (r *recordingConsole) PrintReport(report *entity.Report) error {
	r.calls = append(r.calls, "report")
	return nil
}
func (r *recordingConsole) PrintAPIStats(stats *entity.APIStats) error {
	r.calls = append(r.calls, "apiStats")
	return nil
}
func (r *recordingConsole) PrintPercentileChart(stats *entity.APIStats) error {
	r.calls = append(r.calls, "percentileChart")
	return nil
}
func (r *recordingConsole) PrintAnalysis(result *usecase.AnalysisResult) error {
	r.calls = append(r.calls, "analysis")
	return nil
}
func (r *recordingConsole) PrintComparison(result *usecase.ComparisonResult, withChart bool) error {
	if withChart {
		r.calls = append(r.calls, "comparisonChart")
	} else {
		r.calls = append(r.calls, "comparison")
	}
	return nil
}
func (r *recordingConsole) PrintLiveCall(record *entity.CallRecord) error {
	r.calls = append(r.calls, "liveCall")
	return nil
}
func (r *recordingConsole) PrintStatus(status *usecase.StatusInfo) error {
	r.calls = append(r.calls, "status")
	return nil
}

// recordingJSON implements presenter.JSONPresenter
type recordingJSON struct {
	calls []string
}

func (r *recordingJSON) PrintReport(report *entity.Report) error {
	r.calls = append(r.calls, "report")
	return nil
}
func (r *recordingJSON) PrintAPIStats(stats *entity.APIStats) error {
	r.calls = append(r.calls, "apiStats")
	return nil
}
func (r *recordingJSON) PrintAnalysis(result *usecase.AnalysisResult) error {
	r.calls = append(r.calls, "analysis")
	return nil
}
func (r *recordingJSON) PrintComparison(result *usecase.ComparisonResult) error {
	r.calls = append(r.calls, "comparison")
	return nil
}
func (r *recordingJSON) PrintStringList(title string, items []string) error {
	r.calls = append(r.calls, "stringList")
	return nil
}
func (r *recordingJSON) PrintStatus(status *usecase.StatusInfo) error {
	r.calls = append(r.calls, "status")
	return nil
}

type stubReportService struct {
	report   *entity.Report
	names    []string
	err      error
	nowCalls int
}

func (s *stubReportService) StartPeriodicReports() error { return nil }
func (s *stubReportService) StopPeriodicReports() error  { return nil }
func (s *stubReportService) GenerateReportNow() (*entity.Report, error) {
	s.nowCalls++
	return s.report, s.err
}
func (s *stubReportService) LatestReport() (*entity.Report, error) { return s.report, s.err }
func (s *stubReportService) ListReports(limit int) ([]string, error) {
	return s.names, s.err
}
func (s *stubReportService) LoadReport(name string) (*entity.Report, error) { return s.report, s.err }
func (s *stubReportService) LoadLatestReports(count int) ([]*entity.Report, error) {
	return nil, s.err
}

type stubAnalysisService struct {
	analysis   *usecase.AnalysisResult
	comparison *usecase.ComparisonResult
	stats      *entity.APIStats
	err        error
}

func (s *stubAnalysisService) Analyze(report *entity.Report) (*usecase.AnalysisResult, error) {
	return s.analysis, s.err
}
func (s *stubAnalysisService) AnalyzeLatest() (*usecase.AnalysisResult, error) {
	return s.analysis, s.err
}
func (s *stubAnalysisService) Compare(count int) (*usecase.ComparisonResult, error) {
	return s.comparison, s.err
}
func (s *stubAnalysisService) FilterByAPI(report *entity.Report, apiName string) (*entity.APIStats, error) {
	return s.stats, s.err
}

type stubCSVExportService struct {
	options *usecase.CSVExportOptions
	err     error
}

func (s *stubCSVExportService) Export(options usecase.CSVExportOptions) error {
	s.options = &options
	return s.err
}

type stubStatusService struct {
	usecase.StatusService
	info *usecase.StatusInfo
}

func (s *stubStatusService) GetStatus() (*usecase.StatusInfo, error) { return s.info, nil }

type cliFixture struct {
	controller *CLIController
	reports    *stubReportService
	analysis   *stubAnalysisService
	export     *stubCSVExportService
	console    *recordingConsole
	json       *recordingJSON
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	report, err := entity.NewReport("api_performance_20260829_120000", now, now.Add(-time.Hour), now, nil)
	require.NoError(t, err)

	f := &cliFixture{
		reports: &stubReportService{
			report: report,
			names:  []string{"api_performance_20260829_120000"},
		},
		analysis: &stubAnalysisService{
			analysis:   &usecase.AnalysisResult{ReportName: report.Name},
			comparison: &usecase.ComparisonResult{},
			stats:      &entity.APIStats{APIName: "search_profiles", Count: 1},
		},
		export:  &stubCSVExportService{},
		console: &recordingConsole{},
		json:    &recordingJSON{},
	}
	f.controller = NewCLIController(f.reports, f.analysis, f.export, &stubStatusService{info: &usecase.StatusInfo{}}, f.console, f.json)
	return f
}

func TestCLIController_DefaultPrintsLatestReport(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.controller.Run(RunOptions{}))
	assert.Equal(t, []string{"report"}, f.console.calls)
	assert.Empty(t, f.json.calls)
}

func TestCLIController_JSONSelectsJSONPresenter(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.controller.Run(RunOptions{JSON: true}))
	assert.Equal(t, []string{"report"}, f.json.calls)
	assert.Empty(t, f.console.calls)
}

func TestCLIController_APINameNarrowsReport(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.controller.Run(RunOptions{APIName: "search_profiles"}))
	assert.Equal(t, []string{"apiStats"}, f.console.calls)
}

func TestCLIController_APIWithChartRendersPercentiles(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.controller.Run(RunOptions{APIName: "search_profiles", Chart: true}))
	assert.Equal(t, []string{"apiStats", "percentileChart"}, f.console.calls)

	f = newCLIFixture(t)
	require.NoError(t, f.controller.Run(RunOptions{APIName: "search_profiles", Chart: true, JSON: true}))
	assert.Equal(t, []string{"apiStats"}, f.json.calls)
	assert.Empty(t, f.console.calls)
}

func TestCLIController_ReportNow(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.controller.Run(RunOptions{ReportNow: true}))
	assert.Equal(t, 1, f.reports.nowCalls)
	assert.Equal(t, []string{"report"}, f.console.calls)
}

func TestCLIController_List(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.controller.Run(RunOptions{List: 5}))
	assert.Equal(t, []string{"stringList"}, f.console.calls)

	require.NoError(t, f.controller.Run(RunOptions{List: 5, JSON: true}))
	assert.Equal(t, []string{"stringList"}, f.json.calls)
}

func TestCLIController_Analyze(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.controller.Run(RunOptions{Analyze: true}))
	assert.Equal(t, []string{"analysis"}, f.console.calls)
}

func TestCLIController_CompareWithChart(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.controller.Run(RunOptions{Compare: 3}))
	assert.Equal(t, []string{"comparison"}, f.console.calls)

	require.NoError(t, f.controller.Run(RunOptions{Compare: 3, Chart: true}))
	assert.Equal(t, []string{"comparison", "comparisonChart"}, f.console.calls)
}

func TestCLIController_ExportCSV(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.controller.Run(RunOptions{ExportCSV: "out.csv", APIName: "send_message"}))
	require.NotNil(t, f.export.options)
	assert.Equal(t, "out.csv", f.export.options.OutputPath)
	assert.Equal(t, []string{"send_message"}, f.export.options.APINames)
	assert.Empty(t, f.console.calls)
}

func TestCLIController_Status(t *testing.T) {
	f := newCLIFixture(t)

	require.NoError(t, f.controller.Run(RunOptions{Status: true}))
	assert.Equal(t, []string{"status"}, f.console.calls)
}

func TestCLIController_OperationPrecedence(t *testing.T) {
	f := newCLIFixture(t)

	// ReportNow wins over everything else requested at once
	require.NoError(t, f.controller.Run(RunOptions{ReportNow: true, List: 3, Analyze: true}))
	assert.Equal(t, 1, f.reports.nowCalls)
	assert.Equal(t, []string{"report"}, f.console.calls)
}

func TestCLIController_ErrorsPropagate(t *testing.T) {
	f := newCLIFixture(t)
	f.reports.err = errors.New("storage down")

	err := f.controller.Run(RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load latest report")
	assert.Empty(t, f.console.calls)
}
