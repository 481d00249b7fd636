package presenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkmatch/apitrack/domain/entity"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

func trendWithMeans(api string, means ...float64) usecase.APITrend {
	trend := usecase.APITrend{APIName: api}
	for _, mean := range means {
		trend.Points = append(trend.Points, usecase.TrendPoint{MeanSeconds: mean})
	}
	return trend
}

func TestRenderTrendChart(t *testing.T) {
	chart := RenderTrendChart(trendWithMeans("search_profiles", 1.0, 1.5, 2.0, 1.2), 60, 10)

	assert.NotEmpty(t, chart)
	assert.Contains(t, chart, "search_profiles mean duration (s), oldest to newest")
	// An ascii line chart always carries axis separators
	assert.Contains(t, chart, "┤")
}

func TestRenderTrendChart_TooFewPoints(t *testing.T) {
	assert.Empty(t, RenderTrendChart(trendWithMeans("search_profiles"), 60, 10))
	assert.Empty(t, RenderTrendChart(trendWithMeans("search_profiles", 1.0), 60, 10))
}

func TestRenderPercentileChart(t *testing.T) {
	stats := &entity.APIStats{
		APIName:       "enrich_contact",
		Count:         20,
		MinSeconds:    0.2,
		MedianSeconds: 0.6,
		P90Seconds:    1.1,
		P95Seconds:    1.4,
		P99Seconds:    2.2,
		MaxSeconds:    3.0,
	}
	chart := RenderPercentileChart(stats, 60, 10)

	assert.NotEmpty(t, chart)
	assert.Contains(t, chart, "enrich_contact duration (s): min, p50, p90, p95, p99, max")
	assert.Contains(t, chart, "┤")
}

func TestRenderPercentileChart_EmptyStats(t *testing.T) {
	assert.Empty(t, RenderPercentileChart(nil, 60, 10))
	assert.Empty(t, RenderPercentileChart(&entity.APIStats{APIName: "idle_api"}, 60, 10))
}

func TestRenderTrendChart_MinimumDimensions(t *testing.T) {
	chart := RenderTrendChart(trendWithMeans("send_message", 0.5, 0.7), 1, 1)

	assert.NotEmpty(t, chart)
	// Height clamps to 3 rows plus the caption
	lines := strings.Split(strings.TrimRight(chart, "\n"), "\n")
	assert.GreaterOrEqual(t, len(lines), 4)
}
