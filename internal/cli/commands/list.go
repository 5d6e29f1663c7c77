package commands

import (
	"github.com/spf13/cobra"

	"ttc/internal/config"
	"ttc/internal/store"
	"ttc/internal/ui"
)

// progressThreshold is the tree size above which list shows a progress bar
// while decoding.
const progressThreshold = 50

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	store     *store.Store
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, st *store.Store, formatter *ui.Formatter) *ListCommand {
	return &ListCommand{
		config:    cfg,
		store:     st,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	var onFile func(string)
	if count := lc.store.CountFiles(); count > progressThreshold {
		bar := ui.NewScanProgress(count)
		defer bar.Finish()
		onFile = func(string) { bar.Add() }
	}

	result, err := lc.store.ScanWithProgress(onFile)
	if err != nil {
		return err
	}

	result.Groups = store.FilterGroups(result.Groups, lc.config.Flags.NameFilter)

	lc.formatter.PrintScan(result, lc.config.Flags.ShowCounts)
	return nil
}
