package valueobject

import (
	"math"
	"sort"
)

// DefaultOutlierMultiplier is the default k in the median + k*MAD outlier rule
const DefaultOutlierMultiplier = 3.0

// DurationStats is an immutable statistical summary of a duration sample,
// expressed in seconds. Percentiles use linear interpolation between order
// statistics; a single-value sample reports every percentile as that value.
type DurationStats struct {
	sorted []float64
	total  float64
}

// NewDurationStats creates a DurationStats from a sample of durations in
// seconds. The input slice is not retained.
func NewDurationStats(seconds []float64) DurationStats {
	sorted := make([]float64, len(seconds))
	copy(sorted, seconds)
	sort.Float64s(sorted)

	total := 0.0
	for _, v := range sorted {
		total += v
	}
	return DurationStats{sorted: sorted, total: total}
}

// NewEmptyDurationStats creates a DurationStats with no observations
func NewEmptyDurationStats() DurationStats {
	return DurationStats{}
}

// Count returns the number of observations
func (ds DurationStats) Count() int {
	return len(ds.sorted)
}

// IsEmpty reports whether the sample has no observations
func (ds DurationStats) IsEmpty() bool {
	return len(ds.sorted) == 0
}

// Total returns the sum of all observations
func (ds DurationStats) Total() float64 {
	return ds.total
}

// Mean returns the arithmetic mean, 0 when empty
func (ds DurationStats) Mean() float64 {
	if len(ds.sorted) == 0 {
		return 0
	}
	return ds.total / float64(len(ds.sorted))
}

// Min returns the smallest observation, 0 when empty
func (ds DurationStats) Min() float64 {
	if len(ds.sorted) == 0 {
		return 0
	}
	return ds.sorted[0]
}

// Max returns the largest observation, 0 when empty
func (ds DurationStats) Max() float64 {
	if len(ds.sorted) == 0 {
		return 0
	}
	return ds.sorted[len(ds.sorted)-1]
}

// Median returns the 50th percentile
func (ds DurationStats) Median() float64 {
	return ds.Percentile(50)
}

// Percentile returns the p-th percentile (0-100) using linear interpolation
// between order statistics: rank = p/100 * (n-1), interpolated between the
// neighbouring sorted values. Returns 0 for an empty sample.
func (ds DurationStats) Percentile(p float64) float64 {
	n := len(ds.sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return ds.sorted[0]
	}
	if p <= 0 {
		return ds.sorted[0]
	}
	if p >= 100 {
		return ds.sorted[n-1]
	}

	rank := p / 100 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return ds.sorted[lower]
	}
	frac := rank - float64(lower)
	return ds.sorted[lower] + frac*(ds.sorted[upper]-ds.sorted[lower])
}

// MAD returns the median absolute deviation of the sample, unscaled
func (ds DurationStats) MAD() float64 {
	if len(ds.sorted) == 0 {
		return 0
	}
	median := ds.Median()
	deviations := make([]float64, len(ds.sorted))
	for i, v := range ds.sorted {
		deviations[i] = math.Abs(v - median)
	}
	return NewDurationStats(deviations).Median()
}

// OutlierThreshold returns median + k*MAD, the boundary above which an
// observation counts as an outlier. A value is an outlier only when it
// strictly exceeds the threshold, so an all-equal sample never flags.
func (ds DurationStats) OutlierThreshold(k float64) float64 {
	return ds.Median() + k*ds.MAD()
}

// IsOutlier reports whether one observation exceeds the threshold. Samples
// with fewer than two observations never produce outliers.
func (ds DurationStats) IsOutlier(seconds, k float64) bool {
	if len(ds.sorted) < 2 {
		return false
	}
	return seconds > ds.OutlierThreshold(k)
}
