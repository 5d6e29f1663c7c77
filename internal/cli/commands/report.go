package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ttc/internal/config"
	"ttc/internal/domain"
	"ttc/internal/report"
	"ttc/internal/stats"
	"ttc/internal/store"
	"ttc/internal/ui"
)

// ReportCommand handles the report command
type ReportCommand struct {
	config    *config.Config
	store     *store.Store
	formatter *ui.Formatter
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(cfg *config.Config, st *store.Store, formatter *ui.Formatter) *ReportCommand {
	return &ReportCommand{
		config:    cfg,
		store:     st,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	format := rc.config.Flags.Format
	if format != "csv" && format != "text" {
		return fmt.Errorf("unknown report format %q (want csv or text)", format)
	}

	result, err := rc.store.Scan()
	if err != nil {
		return err
	}

	records, err := selectRecords(result, rc.config.Flags)
	if err != nil {
		return err
	}

	rep, err := stats.Summarize(records)
	if err != nil {
		var ierr *domain.InsufficientSamplesError
		if errors.As(err, &ierr) {
			rc.formatter.WarnInsufficient(ierr.Got)
			return nil
		}
		return err
	}

	out := rc.config.Flags.Out
	if out == "" {
		ext := ".csv"
		if format == "text" {
			ext = ".txt"
		}
		out = filepath.Join(rc.config.GetExportDir(),
			fmt.Sprintf("report_%s%s", time.Now().Format("20060102_150405"), ext))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	switch format {
	case "csv":
		err = report.WriteCSV(f, rep)
	case "text":
		pages := report.Paginate(rep, rc.config.GetMinRows())
		err = report.WriteDocument(f, pages)
	}
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}

	color.Green("Report for %d test(s) written to %s", rep.Count, out)
	rc.formatter.PrintDiagnostics(result.Diagnostics)
	return nil
}
