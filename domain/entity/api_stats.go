package entity

// APIStats holds the aggregated duration metrics for one api name within a
// report window. All fields are derived by the aggregation service; a zero
// APIStats (count 0) is valid and means "no observations".
type APIStats struct {
	APIName      string  `json:"api_name"`
	Count        int     `json:"count"`
	SuccessCount int     `json:"success_count"`
	FailureCount int     `json:"failure_count"`

	TotalSeconds  float64 `json:"total_duration_seconds"`
	MeanSeconds   float64 `json:"mean_seconds"`
	MedianSeconds float64 `json:"median_seconds"`
	P90Seconds    float64 `json:"p90_seconds"`
	P95Seconds    float64 `json:"p95_seconds"`
	P99Seconds    float64 `json:"p99_seconds"`
	MinSeconds    float64 `json:"min_seconds"`
	MaxSeconds    float64 `json:"max_seconds"`

	// Outliers are the records whose duration exceeded the MAD threshold,
	// ordered by observation time.
	Outliers []*CallRecord `json:"outliers,omitempty"`

	// RawSample is a bounded subset of the most recent records, retained for
	// drill-down display only.
	RawSample []*CallRecord `json:"raw_sample,omitempty"`
}

// IsEmpty reports whether the stats carry no observations
func (s *APIStats) IsEmpty() bool {
	return s.Count == 0
}

// FailureRate returns the fraction of failed calls, 0 when empty
func (s *APIStats) FailureRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.FailureCount) / float64(s.Count)
}

// OutlierRate returns the fraction of calls flagged as outliers, 0 when empty
func (s *APIStats) OutlierRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(len(s.Outliers)) / float64(s.Count)
}
