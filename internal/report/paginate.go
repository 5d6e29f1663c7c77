// Package report lays a statistics report into fixed-capacity printable
// pages and exports it as CSV or a page-structured text document.
package report

import (
	"ttc/internal/domain"
)

const (
	// DefaultMinRows is the pagination floor: no rendered page carries fewer
	// rows unless the whole report is smaller than this.
	DefaultMinRows = 5
	// DefaultPageRows is the nominal page capacity.
	DefaultPageRows = 25
)

// Paginate splits the report's per-record rows into pages of at most
// DefaultPageRows rows, each carrying at least minRows rows. When the naive
// split would leave a short last page, rows are pulled back from the
// penultimate page if it can spare them without dropping below the floor
// itself; otherwise the last two pages are merged. A single page may hold
// fewer than minRows only when the total row count is below the floor.
func Paginate(rep domain.StatisticsReport, minRows int) []domain.ReportPage {
	return PaginateWithCapacity(rep, minRows, DefaultPageRows)
}

// PaginateWithCapacity is Paginate with an explicit page capacity.
func PaginateWithCapacity(rep domain.StatisticsReport, minRows, capacity int) []domain.ReportPage {
	if minRows <= 0 {
		minRows = DefaultMinRows
	}
	if capacity < minRows {
		capacity = minRows
	}

	rows := rep.PerRecord
	summary := rep.Summary()

	var chunks [][]domain.RecordDeviation
	for start := 0; start < len(rows); start += capacity {
		end := start + capacity
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	if len(chunks) == 0 {
		chunks = [][]domain.RecordDeviation{nil}
	}

	if last := len(chunks) - 1; last > 0 && len(chunks[last]) < minRows {
		deficit := minRows - len(chunks[last])
		if len(chunks[last-1])-deficit >= minRows {
			// Redistribute backward: the tail of the penultimate page moves
			// to the front of the last one.
			split := len(chunks[last-1]) - deficit
			moved := chunks[last-1][split:]
			chunks[last] = append(append([]domain.RecordDeviation{}, moved...), chunks[last]...)
			chunks[last-1] = chunks[last-1][:split]
		} else {
			// The penultimate page cannot spare enough rows; merge.
			merged := append(append([]domain.RecordDeviation{}, chunks[last-1]...), chunks[last]...)
			chunks = append(chunks[:last-1], merged)
		}
	}

	pages := make([]domain.ReportPage, len(chunks))
	for i, chunk := range chunks {
		pages[i] = domain.ReportPage{
			Number:  i + 1,
			Total:   len(chunks),
			Summary: summary,
			Rows:    chunk,
		}
	}
	return pages
}
