package presenter

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/linkmatch/apitrack/domain/entity"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// JSONPresenterImpl implements JSONPresenter for JSON output
type JSONPresenterImpl struct {
	writer  io.Writer
	encoder *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter() *JSONPresenterImpl {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return &JSONPresenterImpl{
		writer:  os.Stdout,
		encoder: encoder,
	}
}

// PrintReport prints a full report as JSON. Reports serialize themselves;
// the presenter only controls indentation.
func (p *JSONPresenterImpl) PrintReport(report *entity.Report) error {
	return p.encoder.Encode(report)
}

// PrintAPIStats prints one API's statistics as JSON
func (p *JSONPresenterImpl) PrintAPIStats(stats *entity.APIStats) error {
	return p.encoder.Encode(stats)
}

// PrintAnalysis prints analysis findings as JSON
func (p *JSONPresenterImpl) PrintAnalysis(result *usecase.AnalysisResult) error {
	return p.encoder.Encode(result)
}

// PrintComparison prints trend comparison as JSON
func (p *JSONPresenterImpl) PrintComparison(result *usecase.ComparisonResult) error {
	return p.encoder.Encode(result)
}

// PrintStringList prints a titled list as JSON
func (p *JSONPresenterImpl) PrintStringList(title string, items []string) error {
	data := map[string]interface{}{
		"title": title,
		"items": items,
	}
	return p.encoder.Encode(data)
}

// PrintStatus prints daemon status as JSON
func (p *JSONPresenterImpl) PrintStatus(status *usecase.StatusInfo) error {
	data := map[string]interface{}{
		"running":           status.IsRunning,
		"bufferedCalls":     status.BufferedCalls,
		"totalCallsTracked": status.TotalCallsTracked,
	}

	if status.DaemonStartedAt != nil {
		data["daemonStartedAt"] = status.DaemonStartedAt.Format(time.RFC3339)
	}
	if status.LastReportAt != nil {
		data["lastReportAt"] = status.LastReportAt.Format(time.RFC3339)
	}
	if status.NextReportAt != nil {
		data["nextReportAt"] = status.NextReportAt.Format(time.RFC3339)
	}
	if status.LastError != nil {
		errInfo := map[string]interface{}{
			"message": status.LastError.Error(),
		}
		if status.LastErrorAt != nil {
			errInfo["at"] = status.LastErrorAt.Format(time.RFC3339)
		}
		data["lastError"] = errInfo
	}

	return p.encoder.Encode(data)
}

// PrintError prints an error as JSON
func (p *JSONPresenterImpl) PrintError(err error) error {
	data := map[string]interface{}{
		"error": map[string]string{
			"message": err.Error(),
		},
	}

	// Use stderr for errors
	encoder := json.NewEncoder(os.Stderr)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}

// SetWriter sets the output writer (mainly for testing)
func (p *JSONPresenterImpl) SetWriter(w io.Writer) {
	p.writer = w
	p.encoder = json.NewEncoder(w)
	p.encoder.SetIndent("", "  ")
}
