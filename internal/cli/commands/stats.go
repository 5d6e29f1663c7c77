package commands

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ttc/internal/config"
	"ttc/internal/domain"
	"ttc/internal/stats"
	"ttc/internal/store"
	"ttc/internal/ui"
)

// StatsCommand handles the stats command
type StatsCommand struct {
	config    *config.Config
	store     *store.Store
	formatter *ui.Formatter
}

// NewStatsCommand creates a new StatsCommand
func NewStatsCommand(cfg *config.Config, st *store.Store, formatter *ui.Formatter) *StatsCommand {
	return &StatsCommand{
		config:    cfg,
		store:     st,
		formatter: formatter,
	}
}

// Execute runs the command
func (sc *StatsCommand) Execute(cmd *cobra.Command, args []string) error {
	result, err := sc.store.Scan()
	if err != nil {
		return err
	}

	records, err := selectRecords(result, sc.config.Flags)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		color.Yellow("No tests match the selection")
		sc.formatter.PrintDiagnostics(result.Diagnostics)
		return nil
	}

	rep, err := stats.Summarize(records)
	if err != nil {
		var ierr *domain.InsufficientSamplesError
		if errors.As(err, &ierr) {
			sc.formatter.WarnInsufficient(ierr.Got)
			return nil
		}
		return err
	}

	sc.formatter.PrintStatistics(rep)
	sc.formatter.PrintDeviationTable(rep)
	sc.formatter.PrintDiagnostics(result.Diagnostics)
	return nil
}
