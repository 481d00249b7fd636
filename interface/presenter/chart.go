package presenter

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/linkmatch/apitrack/domain/entity"
	usecase "github.com/linkmatch/apitrack/usecase/interface"
)

// RenderTrendChart draws an ASCII line chart of one API's mean duration
// across compared reports, oldest on the left. Returns "" when the trend
// has fewer than two points, since a single value plots nothing useful.
func RenderTrendChart(trend usecase.APITrend, width, height int) string {
	if len(trend.Points) < 2 {
		return ""
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	data := make([]float64, len(trend.Points))
	for i, point := range trend.Points {
		data[i] = point.MeanSeconds
	}

	caption := fmt.Sprintf("%s mean duration (s), oldest to newest", trend.APIName)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderPercentileChart draws one API's duration distribution as an
// ascending series from min through the percentile set to max. Returns ""
// for empty stats.
func RenderPercentileChart(stats *entity.APIStats, width, height int) string {
	if stats == nil || stats.IsEmpty() {
		return ""
	}

	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	data := []float64{
		stats.MinSeconds,
		stats.MedianSeconds,
		stats.P90Seconds,
		stats.P95Seconds,
		stats.P99Seconds,
		stats.MaxSeconds,
	}

	caption := fmt.Sprintf("%s duration (s): min, p50, p90, p95, p99, max", stats.APIName)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
