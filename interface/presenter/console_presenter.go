package presenter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/linkmatch/apitrack/domain/entity"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// ConsolePresenterImpl implements ConsolePresenter for terminal output
type ConsolePresenterImpl struct {
	writer io.Writer
}

// NewConsolePresenter creates a new console presenter
func NewConsolePresenter() *ConsolePresenterImpl {
	return &ConsolePresenterImpl{
		writer: os.Stdout,
	}
}

// PrintVersion prints version information
func (p *ConsolePresenterImpl) PrintVersion() {
	_, _ = fmt.Fprintln(p.writer, "apitrack version 1.0.0")
}

// PrintError prints an error message
func (p *ConsolePresenterImpl) PrintError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// PrintStringList prints a list of strings with a title
func (p *ConsolePresenterImpl) PrintStringList(title string, items []string) error {
	_, _ = fmt.Fprintf(p.writer, "%s:\n", title)
	for _, item := range items {
		_, _ = fmt.Fprintf(p.writer, "  - %s\n", item)
	}
	return nil
}

// PrintReport prints a full report with summary and per-API table
func (p *ConsolePresenterImpl) PrintReport(report *entity.Report) error {
	_, _ = fmt.Fprintf(p.writer, "API Performance Report: %s\n", report.Name)
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", 100))

	_, _ = fmt.Fprintf(p.writer, "Window: %s to %s\n",
		report.WindowStart.Format("2006-01-02 15:04:05"),
		report.WindowEnd.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(p.writer, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintln(p.writer)

	if report.IsEmpty() {
		_, _ = fmt.Fprintln(p.writer, "No API calls recorded in this window.")
		return nil
	}

	summary := report.Summary
	_, _ = fmt.Fprintln(p.writer, "Summary:")
	_, _ = fmt.Fprintf(p.writer, "  Total Calls:        %s\n", p.formatNumber(summary.TotalCalls))
	_, _ = fmt.Fprintf(p.writer, "  Total Duration:     %.3fs\n", summary.TotalSeconds)
	_, _ = fmt.Fprintf(p.writer, "  Slowest API:        %s (avg %.3fs)\n", summary.SlowestAPI, summary.SlowestMean)
	_, _ = fmt.Fprintf(p.writer, "  Fastest API:        %s (avg %.3fs)\n", summary.FastestAPI, summary.FastestMean)
	_, _ = fmt.Fprintln(p.writer)

	// Per-API table
	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "API\tCalls\tFail\tMean\tMedian\tP90\tP95\tP99\tMin\tMax\tOutliers\n")
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 25),
		strings.Repeat("-", 6),
		strings.Repeat("-", 5),
		strings.Repeat("-", 8),
		strings.Repeat("-", 8),
		strings.Repeat("-", 8),
		strings.Repeat("-", 8),
		strings.Repeat("-", 8),
		strings.Repeat("-", 8),
		strings.Repeat("-", 8),
		strings.Repeat("-", 8))

	for _, apiName := range report.APINames() {
		stats := report.PerAPIStats[apiName]
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%.3fs\t%.3fs\t%.3fs\t%.3fs\t%.3fs\t%.3fs\t%.3fs\t%d\n",
			p.truncateString(apiName, 25),
			stats.Count,
			stats.FailureCount,
			stats.MeanSeconds,
			stats.MedianSeconds,
			stats.P90Seconds,
			stats.P95Seconds,
			stats.P99Seconds,
			stats.MinSeconds,
			stats.MaxSeconds,
			len(stats.Outliers))
	}
	_ = w.Flush()

	return nil
}

// PrintAPIStats prints the drill-down view for one API
func (p *ConsolePresenterImpl) PrintAPIStats(stats *entity.APIStats) error {
	_, _ = fmt.Fprintf(p.writer, "API: %s\n", stats.APIName)
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", 60))

	if stats.IsEmpty() {
		_, _ = fmt.Fprintln(p.writer, "No calls recorded.")
		return nil
	}

	_, _ = fmt.Fprintf(p.writer, "  Calls:              %s (%d failed)\n", p.formatNumber(stats.Count), stats.FailureCount)
	_, _ = fmt.Fprintf(p.writer, "  Failure Rate:       %.1f%%\n", stats.FailureRate()*100)
	_, _ = fmt.Fprintf(p.writer, "  Mean:               %.3fs\n", stats.MeanSeconds)
	_, _ = fmt.Fprintf(p.writer, "  Median:             %.3fs\n", stats.MedianSeconds)
	_, _ = fmt.Fprintf(p.writer, "  P90 / P95 / P99:    %.3fs / %.3fs / %.3fs\n", stats.P90Seconds, stats.P95Seconds, stats.P99Seconds)
	_, _ = fmt.Fprintf(p.writer, "  Min / Max:          %.3fs / %.3fs\n", stats.MinSeconds, stats.MaxSeconds)
	_, _ = fmt.Fprintf(p.writer, "  Total Duration:     %.3fs\n", stats.TotalSeconds)

	if len(stats.Outliers) > 0 {
		_, _ = fmt.Fprintln(p.writer)
		_, _ = fmt.Fprintf(p.writer, "Outliers (%d):\n", len(stats.Outliers))
		for _, record := range stats.Outliers {
			p.printRecordLine(record)
		}
	}

	if len(stats.RawSample) > 0 {
		_, _ = fmt.Fprintln(p.writer)
		_, _ = fmt.Fprintf(p.writer, "Recent Calls (%d):\n", len(stats.RawSample))
		for _, record := range stats.RawSample {
			p.printRecordLine(record)
		}
	}

	return nil
}

func (p *ConsolePresenterImpl) printRecordLine(record *entity.CallRecord) {
	line := fmt.Sprintf("  %s  %.3fs  %s",
		record.StartedAt.Format("2006-01-02 15:04:05"),
		record.Duration.Seconds(),
		record.Outcome)
	if record.ErrorClass != "" {
		line += fmt.Sprintf(" (%s)", record.ErrorClass)
	}
	_, _ = fmt.Fprintln(p.writer, line)
}

// PrintPercentileChart prints one API's duration distribution chart
func (p *ConsolePresenterImpl) PrintPercentileChart(stats *entity.APIStats) error {
	chart := RenderPercentileChart(stats, 60, 10)
	if chart == "" {
		return nil
	}
	_, _ = fmt.Fprintln(p.writer)
	_, _ = fmt.Fprintln(p.writer, chart)
	return nil
}

// PrintAnalysis prints findings and recommendations
func (p *ConsolePresenterImpl) PrintAnalysis(result *usecase.AnalysisResult) error {
	_, _ = fmt.Fprintf(p.writer, "Performance Analysis: %s\n", result.ReportName)
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", 80))

	if len(result.Findings) == 0 {
		_, _ = fmt.Fprintln(p.writer, "No performance issues found.")
	}

	for _, finding := range result.Findings {
		_, _ = fmt.Fprintf(p.writer, "[%s] %s: %s\n",
			strings.ToUpper(finding.Severity), finding.APIName, finding.Detail)
		if finding.Recommendation != "" {
			_, _ = fmt.Fprintf(p.writer, "  -> %s\n", finding.Recommendation)
		}
	}

	if len(result.Healthy) > 0 {
		_, _ = fmt.Fprintln(p.writer)
		_, _ = fmt.Fprintf(p.writer, "Healthy APIs: %s\n", strings.Join(result.Healthy, ", "))
	}

	return nil
}

// PrintComparison prints per-API trends across reports
func (p *ConsolePresenterImpl) PrintComparison(result *usecase.ComparisonResult, withChart bool) error {
	_, _ = fmt.Fprintf(p.writer, "Trend Comparison (%d reports)\n", len(result.ReportNames))
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", 80))

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "API\tFirst Avg\tLast Avg\tChange\tP95 Change\tDirection\n")
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 25),
		strings.Repeat("-", 10),
		strings.Repeat("-", 10),
		strings.Repeat("-", 8),
		strings.Repeat("-", 10),
		strings.Repeat("-", 9))

	for _, trend := range result.Trends {
		first, last := trendEndpoints(trend)
		_, _ = fmt.Fprintf(w, "%s\t%.3fs\t%.3fs\t%+.1f%%\t%+.1f%%\t%s\n",
			p.truncateString(trend.APIName, 25),
			first,
			last,
			trend.DeltaPct,
			trend.P95DeltaPct,
			trend.Direction)
	}
	_ = w.Flush()

	if len(result.Findings) > 0 {
		_, _ = fmt.Fprintln(p.writer)
		for _, finding := range result.Findings {
			_, _ = fmt.Fprintf(p.writer, "[%s] %s: %s\n",
				strings.ToUpper(finding.Severity), finding.APIName, finding.Detail)
		}
	}

	if withChart {
		for _, trend := range result.Trends {
			chart := RenderTrendChart(trend, 60, 10)
			if chart == "" {
				continue
			}
			_, _ = fmt.Fprintln(p.writer)
			_, _ = fmt.Fprintln(p.writer, chart)
		}
	}

	return nil
}

// trendEndpoints returns the first and last mean duration of a trend
func trendEndpoints(trend usecase.APITrend) (float64, float64) {
	if len(trend.Points) == 0 {
		return 0, 0
	}
	return trend.Points[0].MeanSeconds, trend.Points[len(trend.Points)-1].MeanSeconds
}

// PrintLiveCall prints a single instrumented call as it happens
func (p *ConsolePresenterImpl) PrintLiveCall(record *entity.CallRecord) error {
	line := fmt.Sprintf("[API TIMING] %s: %.3fs (%s)",
		record.APIName, record.Duration.Seconds(), record.Outcome)
	if record.ErrorClass != "" {
		line += " " + record.ErrorClass
	}
	if len(record.Metadata) > 0 {
		keys := make([]string, 0, len(record.Metadata))
		for key := range record.Metadata {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, key+"="+record.Metadata[key])
		}
		line += " (" + strings.Join(pairs, ", ") + ")"
	}
	_, _ = fmt.Fprintln(p.writer, line)
	return nil
}

// PrintStatus prints daemon status information
func (p *ConsolePresenterImpl) PrintStatus(status *usecase.StatusInfo) error {
	_, _ = fmt.Fprintln(p.writer, "Daemon Status")
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", 40))

	running := "stopped"
	if status.IsRunning {
		running = "running"
	}
	_, _ = fmt.Fprintf(p.writer, "  State:              %s\n", running)
	if status.DaemonStartedAt != nil {
		_, _ = fmt.Fprintf(p.writer, "  Started At:         %s\n", status.DaemonStartedAt.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(p.writer, "  Buffered Calls:     %d\n", status.BufferedCalls)
	_, _ = fmt.Fprintf(p.writer, "  Total Tracked:      %d\n", status.TotalCallsTracked)
	if status.LastReportAt != nil {
		_, _ = fmt.Fprintf(p.writer, "  Last Report:        %s\n", status.LastReportAt.Format(time.RFC3339))
	}
	if status.NextReportAt != nil {
		_, _ = fmt.Fprintf(p.writer, "  Next Report:        %s\n", status.NextReportAt.Format(time.RFC3339))
	}
	if status.LastError != nil {
		_, _ = fmt.Fprintf(p.writer, "  Last Error:         %v\n", status.LastError)
		if status.LastErrorAt != nil {
			_, _ = fmt.Fprintf(p.writer, "  Last Error At:      %s\n", status.LastErrorAt.Format(time.RFC3339))
		}
	}

	return nil
}

// Helper methods

func (p *ConsolePresenterImpl) formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Format with commas
	str := fmt.Sprintf("%d", n)
	result := ""
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(digit)
	}
	return result
}

func (p *ConsolePresenterImpl) truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
