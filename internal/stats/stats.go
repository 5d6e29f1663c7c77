// Package stats computes aggregate metrics over a set of test records.
package stats

import (
	"math"
	"sort"

	"ttc/internal/domain"
)

// MinRecords is the smallest set Summarize accepts; the sample standard
// deviation is undefined below it.
const MinRecords = 2

// Summarize computes the statistics report for a set of records. The input
// order does not matter: the per-record deviation list is always sorted by
// CreatedAt ascending, with path as tiebreaker. Fewer than MinRecords
// records yield an *domain.InsufficientSamplesError.
//
// The standard deviation uses the sample form (N-1 denominator), and the
// 3-sigma bounds derive from it.
func Summarize(records []domain.TestRecord) (domain.StatisticsReport, error) {
	n := len(records)
	if n < MinRecords {
		return domain.StatisticsReport{}, &domain.InsufficientSamplesError{Got: n}
	}

	ordered := make([]domain.TestRecord, n)
	copy(ordered, records)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.Path < b.Path
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	peaks := make([]float64, n)
	var sum float64
	for i, rec := range ordered {
		peaks[i] = rec.PeakForce
		sum += rec.PeakForce
	}
	mean := sum / float64(n)

	var sqSum float64
	min, max := peaks[0], peaks[0]
	for _, p := range peaks {
		d := p - mean
		sqSum += d * d
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	stdev := math.Sqrt(sqSum / float64(n-1))

	perRecord := make([]domain.RecordDeviation, n)
	for i, rec := range ordered {
		perRecord[i] = domain.RecordDeviation{Record: rec, Deviation: rec.PeakForce - mean}
	}

	return domain.StatisticsReport{
		Count:       n,
		Mean:        mean,
		StdDev:      stdev,
		Min:         min,
		Max:         max,
		Median:      median(peaks),
		Sigma3Lower: mean - 3*stdev,
		Sigma3Upper: mean + 3*stdev,
		PerRecord:   perRecord,
	}, nil
}

// median returns the standard median of the values: the middle value for odd
// counts, the mean of the two middle values for even counts.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
