package ui

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ttc/internal/codec"
	"ttc/internal/config"
	"ttc/internal/domain"
)

// Formatter formats and displays console output
type Formatter struct {
	config *config.Config
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg}
}

// PrintScan prints the scanned tree: one block per date folder with its
// records, then the skipped-files section if any file failed to decode.
func (f *Formatter) PrintScan(result domain.ScanResult, showCounts bool) {
	if result.RecordCount() == 0 {
		color.Yellow("No tests found")
	} else {
		color.Green("Found %d test(s) in %d folder(s):\n", result.RecordCount(), len(result.Groups))

		for _, group := range result.Groups {
			if showCounts {
				color.Cyan("%s (%d)", group.Date, len(group.Records))
			} else {
				color.Cyan("%s", group.Date)
			}
			for i, rec := range group.Records {
				connector := "├──"
				if i == len(group.Records)-1 {
					connector = "└──"
				}
				fmt.Printf("%s %s — %s, %s, %s\n",
					connector,
					color.WhiteString("%s", rec.Name),
					rec.Technician,
					rec.CreatedAt.Format("15:04:05"),
					color.YellowString("%.3f kN", rec.PeakForce),
				)
			}
			fmt.Println()
		}
	}

	f.PrintDiagnostics(result.Diagnostics)
}

// PrintDiagnostics lists every file skipped during a scan with its reason.
func (f *Formatter) PrintDiagnostics(diags []domain.ScanDiagnostic) {
	if len(diags) == 0 {
		return
	}
	color.Yellow("Skipped %d file(s):", len(diags))
	for _, d := range diags {
		color.Red("  ✗ %s: %v", d.Path, d.Err)
	}
}

// PrintStatistics displays the summary metrics box followed by the
// per-record deviation table.
func (f *Formatter) PrintStatistics(rep domain.StatisticsReport) {
	fmt.Print("\n")
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                    Peak Force Statistics                      ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	rows := []struct {
		label string
		value string
		paint func(format string, a ...interface{}) string
	}{
		{"Tests", fmt.Sprintf("%d", rep.Count), color.WhiteString},
		{"Mean", fmt.Sprintf("%.3f kN", rep.Mean), color.WhiteString},
		{"Std Deviation", fmt.Sprintf("%.3f kN", rep.StdDev), color.WhiteString},
		{"Median", fmt.Sprintf("%.3f kN", rep.Median), color.WhiteString},
		{"Minimum", fmt.Sprintf("%.3f kN", rep.Min), color.GreenString},
		{"Maximum", fmt.Sprintf("%.3f kN", rep.Max), color.GreenString},
		{"3σ Lower Bound", fmt.Sprintf("%.3f kN", rep.Sigma3Lower), color.YellowString},
		{"3σ Upper Bound", fmt.Sprintf("%.3f kN", rep.Sigma3Upper), color.YellowString},
	}

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Printf("│ %-31s │ %s │\n", row.label, row.paint("%-27s", row.value))
		if i < len(rows)-1 {
			fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")
}

// PrintDeviationTable lists every record with its deviation from the mean,
// chronologically. Records outside the 3-sigma range are flagged in red.
func (f *Formatter) PrintDeviationTable(rep domain.StatisticsReport) {
	fmt.Println()
	color.Cyan("%s %s %-19s %10s %12s",
		cell("Test", 30), cell("Technician", 16), "Date", "Peak kN", "Deviation")

	for _, rd := range rep.PerRecord {
		line := fmt.Sprintf("%s %s %-19s %10.3f %+12.3f",
			cell(rd.Record.Name, 30),
			cell(rd.Record.Technician, 16),
			rd.Record.CreatedAt.Format(codec.TimeLayout),
			rd.Record.PeakForce,
			rd.Deviation,
		)
		if rd.Record.PeakForce < rep.Sigma3Lower || rd.Record.PeakForce > rep.Sigma3Upper {
			color.Red("%s  ← outside 3σ", line)
		} else {
			fmt.Println(line)
		}
	}
}

// WarnInsufficient prints the user-facing warning for a statistics request
// over too few tests.
func (f *Formatter) WarnInsufficient(got int) {
	color.Yellow("Need at least 2 selected tests for statistics (have %d)", got)
}

// cell truncates or pads a value to the given display width; widths are in
// terminal cells so names with wide runes still line up.
func cell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
