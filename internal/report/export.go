package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"ttc/internal/codec"
	"ttc/internal/domain"
)

const (
	nameColWidth = 30
	techColWidth = 16
)

// WriteCSV writes the report as a flat CSV document: a summary block of
// metric,value pairs, a blank row, then one row per test.
func WriteCSV(w io.Writer, rep domain.StatisticsReport) error {
	cw := csv.NewWriter(w)

	summary := [][]string{
		{"metric", "value"},
		{"count", strconv.Itoa(rep.Count)},
		{"mean_kN", fmt.Sprintf("%.3f", rep.Mean)},
		{"stdev_kN", fmt.Sprintf("%.3f", rep.StdDev)},
		{"min_kN", fmt.Sprintf("%.3f", rep.Min)},
		{"max_kN", fmt.Sprintf("%.3f", rep.Max)},
		{"median_kN", fmt.Sprintf("%.3f", rep.Median)},
		{"sigma3_lower_kN", fmt.Sprintf("%.3f", rep.Sigma3Lower)},
		{"sigma3_upper_kN", fmt.Sprintf("%.3f", rep.Sigma3Upper)},
	}
	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return fmt.Errorf("write separator row: %w", err)
	}

	if err := cw.Write([]string{"test_name", "technician", "datetime", "peak_kN", "deviation_kN"}); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	for _, rd := range rep.PerRecord {
		row := []string{
			rd.Record.Name,
			rd.Record.Technician,
			rd.Record.CreatedAt.Format(codec.TimeLayout),
			fmt.Sprintf("%.3f", rd.Record.PeakForce),
			fmt.Sprintf("%+.3f", rd.Deviation),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// RenderPage renders one page as fixed-width text for a printable document.
func RenderPage(page domain.ReportPage) string {
	var b strings.Builder

	s := page.Summary
	fmt.Fprintf(&b, "Tensile Test Report — Page %d of %d\n", page.Number, page.Total)
	b.WriteString(strings.Repeat("=", 78) + "\n")
	fmt.Fprintf(&b, "Tests: %d    Mean: %.3f kN    StdDev: %.3f kN    Median: %.3f kN\n",
		s.Count, s.Mean, s.StdDev, s.Median)
	fmt.Fprintf(&b, "Min: %.3f kN    Max: %.3f kN    3-sigma range: %.3f … %.3f kN\n",
		s.Min, s.Max, s.Sigma3Lower, s.Sigma3Upper)
	b.WriteString(strings.Repeat("-", 78) + "\n")

	fmt.Fprintf(&b, "%s %s %-19s %10s %12s\n",
		pad("Test", nameColWidth), pad("Technician", techColWidth),
		"Date", "Peak kN", "Deviation")
	for _, rd := range page.Rows {
		fmt.Fprintf(&b, "%s %s %-19s %10.3f %+12.3f\n",
			pad(rd.Record.Name, nameColWidth),
			pad(rd.Record.Technician, techColWidth),
			rd.Record.CreatedAt.Format(codec.TimeLayout),
			rd.Record.PeakForce,
			rd.Deviation)
	}

	return b.String()
}

// WriteDocument writes every page separated by form feeds, the way a plain
// text spooler expects a paginated document.
func WriteDocument(w io.Writer, pages []domain.ReportPage) error {
	for i, page := range pages {
		if i > 0 {
			if _, err := io.WriteString(w, "\f"); err != nil {
				return fmt.Errorf("write page break: %w", err)
			}
		}
		if _, err := io.WriteString(w, RenderPage(page)); err != nil {
			return fmt.Errorf("write page %d: %w", page.Number, err)
		}
	}
	return nil
}

// pad truncates or right-pads a cell to the given display width. Width is
// measured in terminal cells, not bytes, so wide runes line up.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
