package domain

// RecordDeviation pairs a record with its peak-force deviation from the
// aggregate mean.
type RecordDeviation struct {
	Record    TestRecord
	Deviation float64
}

// StatisticsReport is an immutable snapshot of aggregate metrics over a set
// of records. PerRecord is ordered by CreatedAt ascending.
type StatisticsReport struct {
	Count       int
	Mean        float64
	StdDev      float64 // Sample standard deviation (N-1 denominator)
	Min         float64
	Max         float64
	Median      float64
	Sigma3Lower float64
	Sigma3Upper float64
	PerRecord   []RecordDeviation
}

// Summary returns a copy of the report with the per-record list stripped,
// suitable for embedding in each page.
func (r StatisticsReport) Summary() StatisticsReport {
	s := r
	s.PerRecord = nil
	return s
}

// ReportPage is one printable page of a statistics report: a slice of the
// per-record deviation list plus a copy of the summary metrics.
type ReportPage struct {
	Number  int // 1-based page number
	Total   int // Total number of pages
	Summary StatisticsReport
	Rows    []RecordDeviation
}
