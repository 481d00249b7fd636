package presenter

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

func newBufferedJSON() (*JSONPresenterImpl, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	p := NewJSONPresenter()
	p.SetWriter(buf)
	return p, buf
}

func TestJSONPresenter_PrintReport(t *testing.T) {
	p, buf := newBufferedJSON()

	require.NoError(t, p.PrintReport(sampleReport(t)))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "api_performance_20260829_120000", decoded["name"])

	stats, ok := decoded["per_api_stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, stats, "search_profiles")
	assert.Contains(t, stats, "send_message")

	summary, ok := decoded["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(14), summary["total_api_calls"])
}

func TestJSONPresenter_PrintAnalysis(t *testing.T) {
	p, buf := newBufferedJSON()

	result := &usecase.AnalysisResult{
		ReportName: "r",
		Findings: []usecase.Finding{
			{Kind: usecase.FindingSlowAPI, Severity: usecase.SeverityWarning, APIName: "search_profiles", Detail: "slow"},
		},
		Healthy: []string{"send_message"},
	}
	require.NoError(t, p.PrintAnalysis(result))

	var decoded usecase.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Findings, 1)
	assert.Equal(t, usecase.FindingSlowAPI, decoded.Findings[0].Kind)
	assert.Equal(t, []string{"send_message"}, decoded.Healthy)
}

func TestJSONPresenter_PrintStringList(t *testing.T) {
	p, buf := newBufferedJSON()

	require.NoError(t, p.PrintStringList("reports", []string{"a", "b"}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "reports", decoded["title"])
	assert.Equal(t, []interface{}{"a", "b"}, decoded["items"])
}

func TestJSONPresenter_PrintStatus(t *testing.T) {
	p, buf := newBufferedJSON()

	started := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	errorAt := started.Add(time.Minute)
	status := &usecase.StatusInfo{
		IsRunning:         true,
		DaemonStartedAt:   &started,
		BufferedCalls:     3,
		TotalCallsTracked: 42,
		LastError:         errors.New("remote write failed"),
		LastErrorAt:       &errorAt,
	}
	require.NoError(t, p.PrintStatus(status))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["running"])
	assert.Equal(t, float64(3), decoded["bufferedCalls"])
	assert.Equal(t, float64(42), decoded["totalCallsTracked"])
	assert.Equal(t, "2026-08-29T08:00:00Z", decoded["daemonStartedAt"])

	lastError, ok := decoded["lastError"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "remote write failed", lastError["message"])
	assert.Equal(t, "2026-08-29T08:01:00Z", lastError["at"])
}

func TestJSONPresenter_PrintStatusOmitsUnsetFields(t *testing.T) {
	p, buf := newBufferedJSON()

	require.NoError(t, p.PrintStatus(&usecase.StatusInfo{}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.NotContains(t, decoded, "lastError")
	assert.NotContains(t, decoded, "daemonStartedAt")
	assert.NotContains(t, decoded, "lastReportAt")
}
