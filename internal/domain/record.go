package domain

import "time"

// Sample is a single measurement taken during a test: elapsed seconds since
// the test started, the force currently applied and the running peak, both in kN.
type Sample struct {
	Elapsed float64
	Current float64
	Peak    float64
}

// TestRecord represents one completed tensile test with its metadata and
// sample table. Path is the record's identity once it has been persisted.
type TestRecord struct {
	Path       string    // Full path to the record file, empty until saved
	Name       string    // Test name, required
	Technician string    // Technician name, required
	CreatedAt  time.Time // Immutable once written
	Notes      string    // Optional, may span multiple lines
	PeakForce  float64   // Peak force in kN, immutable once written
	Samples    []Sample
}

// MaxSamplePeak returns the highest running-peak value in the sample table,
// or 0 when the record has no samples.
func (r TestRecord) MaxSamplePeak() float64 {
	var max float64
	for _, s := range r.Samples {
		if s.Peak > max {
			max = s.Peak
		}
	}
	return max
}

// DateGroup is one date folder's worth of records, reconstructed on every scan.
type DateGroup struct {
	Date    string // Folder name, YYYY-MM-DD
	Records []TestRecord
}

// ScanDiagnostic reports a file that was skipped during a scan and why.
type ScanDiagnostic struct {
	Path string
	Err  error
}

// ScanResult is the full outcome of scanning a tests directory: the date
// groups that decoded cleanly plus a diagnostic entry per skipped file.
type ScanResult struct {
	Groups      []DateGroup
	Diagnostics []ScanDiagnostic
}

// RecordCount returns the total number of records across all groups.
func (sr ScanResult) RecordCount() int {
	var n int
	for _, g := range sr.Groups {
		n += len(g.Records)
	}
	return n
}
