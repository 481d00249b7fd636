package entity

import (
	"fmt"
	"sort"
	"time"
)

// Report is an immutable aggregation snapshot over a window of call records.
// Regeneration always produces a new Report; nothing mutates one in place.
type Report struct {
	Name        string               `json:"name"`
	GeneratedAt time.Time            `json:"generated_at"`
	WindowStart time.Time            `json:"window_start"`
	WindowEnd   time.Time            `json:"window_end"`
	PerAPIStats map[string]*APIStats `json:"per_api_stats"`
	Summary     *ReportSummary       `json:"summary"`
}

// APIRanking is one entry of a summary ranking
type APIRanking struct {
	APIName string  `json:"api"`
	Calls   int     `json:"calls,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
}

// ReportSummary carries the cross-API totals and rankings for a report
type ReportSummary struct {
	TotalCalls       int          `json:"total_api_calls"`
	TotalSeconds     float64      `json:"total_duration_seconds"`
	SlowestAPI       string       `json:"slowest_api"`
	SlowestMean      float64      `json:"slowest_avg_duration"`
	FastestAPI       string       `json:"fastest_api"`
	FastestMean      float64      `json:"fastest_avg_duration"`
	APIsByVolume     []APIRanking `json:"apis_by_volume"`
	APIsByMeanSecond []APIRanking `json:"apis_by_avg_duration"`
}

// NewReport builds a report from aggregated stats. The window must be
// ordered; the summary is derived here so reports are self-contained.
func NewReport(name string, generatedAt, windowStart, windowEnd time.Time, stats map[string]*APIStats) (*Report, error) {
	if name == "" {
		return nil, fmt.Errorf("report name must not be empty")
	}
	if windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("report window end %v precedes start %v", windowEnd, windowStart)
	}
	if stats == nil {
		stats = map[string]*APIStats{}
	}
	return &Report{
		Name:        name,
		GeneratedAt: generatedAt,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		PerAPIStats: stats,
		Summary:     summarize(stats),
	}, nil
}

// APINames returns the api names present in the report, sorted
func (r *Report) APINames() []string {
	names := make([]string, 0, len(r.PerAPIStats))
	for name := range r.PerAPIStats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StatsFor returns the stats for one api name
func (r *Report) StatsFor(apiName string) (*APIStats, bool) {
	stats, ok := r.PerAPIStats[apiName]
	return stats, ok
}

// IsEmpty reports whether the report covers no calls at all
func (r *Report) IsEmpty() bool {
	return r.Summary == nil || r.Summary.TotalCalls == 0
}

func summarize(stats map[string]*APIStats) *ReportSummary {
	summary := &ReportSummary{}

	// Iterate in name order so ties on mean resolve the same way on
	// every regeneration.
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, apiName := range names {
		s := stats[apiName]
		if s.Count == 0 {
			continue
		}
		summary.TotalCalls += s.Count
		summary.TotalSeconds += s.TotalSeconds

		if summary.SlowestAPI == "" || s.MeanSeconds > summary.SlowestMean {
			summary.SlowestAPI = apiName
			summary.SlowestMean = s.MeanSeconds
		}
		if summary.FastestAPI == "" || s.MeanSeconds < summary.FastestMean {
			summary.FastestAPI = apiName
			summary.FastestMean = s.MeanSeconds
		}

		summary.APIsByVolume = append(summary.APIsByVolume, APIRanking{APIName: apiName, Calls: s.Count})
		summary.APIsByMeanSecond = append(summary.APIsByMeanSecond, APIRanking{APIName: apiName, Seconds: s.MeanSeconds})
	}

	sort.Slice(summary.APIsByVolume, func(i, j int) bool {
		if summary.APIsByVolume[i].Calls != summary.APIsByVolume[j].Calls {
			return summary.APIsByVolume[i].Calls > summary.APIsByVolume[j].Calls
		}
		return summary.APIsByVolume[i].APIName < summary.APIsByVolume[j].APIName
	})
	sort.Slice(summary.APIsByMeanSecond, func(i, j int) bool {
		if summary.APIsByMeanSecond[i].Seconds != summary.APIsByMeanSecond[j].Seconds {
			return summary.APIsByMeanSecond[i].Seconds > summary.APIsByMeanSecond[j].Seconds
		}
		return summary.APIsByMeanSecond[i].APIName < summary.APIsByMeanSecond[j].APIName
	})

	return summary
}
