package commands

import (
	"ttc/internal/cli"
	"ttc/internal/config"
	"ttc/internal/importer"
	"ttc/internal/store"
	"ttc/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	List    *ListCommand
	Browse  *BrowseCommand
	Stats   *StatsCommand
	Report  *ReportCommand
	Edit    *EditCommand
	Capture *CaptureCommand
	Import  *ImportCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	st := store.New(cfg.GetTestsDir())
	formatter := ui.NewFormatter(cfg)
	browser := ui.NewBrowser(cfg, st)
	imp := importer.NewImporter(st)

	return &Commands{
		List:    NewListCommand(cfg, st, formatter),
		Browse:  NewBrowseCommand(cfg, browser),
		Stats:   NewStatsCommand(cfg, st, formatter),
		Report:  NewReportCommand(cfg, st, formatter),
		Edit:    NewEditCommand(cfg, st),
		Capture: NewCaptureCommand(cfg, st),
		Import:  NewImportCommand(cfg, imp),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	applyFlags := func(cmd *cobra.Command, args []string) error {
		cfg.Flags = flags.ToConfigFlags()
		// The store is created before flags parse; rebind its root.
		c.rebindStore(cfg)
		return nil
	}

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List stored tests by date folder",
		Long:    "Scan the tests directory and list every stored test grouped by date, reporting any files that could not be decoded",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g. 'Steel*' or '*rod*')")
	listCmd.Flags().StringVarP(&flags.TestsDir, "tests-dir", "t", "", "Tests directory root")
	listCmd.Flags().BoolVarP(&flags.ShowCounts, "stats", "c", false, "Show per-folder test counts")
	rootCmd.AddCommand(listCmd)

	// Browse command
	browseCmd := &cobra.Command{
		Use:     "browse",
		Short:   "Browse and select tests interactively",
		Long:    "Open the interactive tri-state selection tree over the tests directory with statistics and metadata editing",
		RunE:    c.Browse.Execute,
		PreRunE: applyFlags,
	}
	browseCmd.Flags().StringVarP(&flags.TestsDir, "tests-dir", "t", "", "Tests directory root")
	browseCmd.Flags().BoolVarP(&flags.Watch, "watch", "w", false, "Rescan automatically when record files change on disk")
	rootCmd.AddCommand(browseCmd)

	// Stats command
	statsCmd := &cobra.Command{
		Use:     "stats",
		Short:   "Compute statistics over stored tests",
		Long:    "Compute mean, standard deviation, median and 3-sigma bounds over the selected tests and print a deviation table",
		RunE:    c.Stats.Execute,
		PreRunE: applyFlags,
	}
	statsCmd.Flags().StringVarP(&flags.TestsDir, "tests-dir", "t", "", "Tests directory root")
	statsCmd.Flags().BoolVarP(&flags.All, "all", "a", false, "Use every stored test")
	statsCmd.Flags().StringArrayVarP(&flags.Dates, "date", "d", nil, "Restrict to a date folder (YYYY-MM-DD, repeatable)")
	statsCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern")
	rootCmd.AddCommand(statsCmd)

	// Report command
	reportCmd := &cobra.Command{
		Use:     "report",
		Short:   "Export a paginated statistics report",
		Long:    "Aggregate the selected tests and export the report as CSV or a page-structured text document",
		RunE:    c.Report.Execute,
		PreRunE: applyFlags,
	}
	reportCmd.Flags().StringVarP(&flags.TestsDir, "tests-dir", "t", "", "Tests directory root")
	reportCmd.Flags().BoolVarP(&flags.All, "all", "a", false, "Use every stored test")
	reportCmd.Flags().StringArrayVarP(&flags.Dates, "date", "d", nil, "Restrict to a date folder (YYYY-MM-DD, repeatable)")
	reportCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern")
	reportCmd.Flags().StringVar(&flags.Format, "format", "csv", "Output format: csv or text")
	reportCmd.Flags().StringVarP(&flags.Out, "out", "o", "", "Output file (default: timestamped file in the export directory)")
	reportCmd.Flags().IntVar(&flags.MinRows, "min-rows", 0, "Minimum rows per rendered page")
	rootCmd.AddCommand(reportCmd)

	// Edit command
	editCmd := &cobra.Command{
		Use:     "edit FILE",
		Short:   "Edit a stored test's metadata",
		Long:    "Rewrite the name, technician or notes of a stored test in place; the test's datetime, peak force and sample table never change",
		Args:    cobra.ExactArgs(1),
		RunE:    c.Edit.Execute,
		PreRunE: applyFlags,
	}
	editCmd.Flags().StringVarP(&flags.Name, "name", "n", "", "New test name")
	editCmd.Flags().StringVar(&flags.Technician, "technician", "", "New technician")
	editCmd.Flags().StringVar(&flags.Notes, "notes", "", "New notes")
	rootCmd.AddCommand(editCmd)

	// Capture command
	captureCmd := &cobra.Command{
		Use:     "capture",
		Short:   "Capture a live test from a measurement source",
		Long:    "Read measurement lines (JSON or CSV wire format) from a file or stdin, buffer the samples, and save the finished test into the store",
		RunE:    c.Capture.Execute,
		PreRunE: applyFlags,
	}
	captureCmd.Flags().StringVarP(&flags.TestsDir, "tests-dir", "t", "", "Tests directory root")
	captureCmd.Flags().StringVarP(&flags.Input, "input", "i", "", "Input file (default: stdin)")
	captureCmd.Flags().StringVarP(&flags.Name, "name", "n", "", "Test name for the saved record")
	captureCmd.Flags().StringVar(&flags.Technician, "technician", "", "Technician for the saved record")
	captureCmd.Flags().StringVar(&flags.Notes, "notes", "", "Notes for the saved record")
	captureCmd.Flags().BoolVar(&flags.Discard, "discard", false, "Abandon the buffered samples instead of saving")
	captureCmd.Flags().BoolVar(&flags.RawLog, "raw-log", false, "Dump the tail of the raw line log on exit")
	rootCmd.AddCommand(captureCmd)

	// Import command
	importCmd := &cobra.Command{
		Use:     "import",
		Short:   "Import legacy export files into the store",
		Long:    "Convert headerless test_YYYYMMDD_HHMMSS.csv export files from the export directory into proper test records",
		RunE:    c.Import.Execute,
		PreRunE: applyFlags,
	}
	importCmd.Flags().StringVarP(&flags.TestsDir, "tests-dir", "t", "", "Tests directory root")
	importCmd.Flags().StringVarP(&flags.ExportDir, "export-dir", "e", "", "Directory holding the legacy export files")
	importCmd.Flags().StringVarP(&flags.Name, "name", "n", "", "Test name for imported records (default: derived from the filename)")
	importCmd.Flags().StringVar(&flags.Technician, "technician", "", "Technician for imported records")
	rootCmd.AddCommand(importCmd)
}

// rebindStore points every command's store at the tests directory resolved
// after flag parsing.
func (c *Commands) rebindStore(cfg *config.Config) {
	st := store.New(cfg.GetTestsDir())
	c.List.store = st
	c.Stats.store = st
	c.Report.store = st
	c.Edit.store = st
	c.Capture.store = st
	c.Import.importer = importer.NewImporter(st)
	c.Browse.browser = ui.NewBrowser(c.Browse.config, st)
}
