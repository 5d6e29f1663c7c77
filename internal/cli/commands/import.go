package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ttc/internal/config"
	"ttc/internal/importer"
	"ttc/internal/ui"
)

// ImportCommand handles the import command
type ImportCommand struct {
	config   *config.Config
	importer *importer.Importer
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(cfg *config.Config, imp *importer.Importer) *ImportCommand {
	return &ImportCommand{
		config:   cfg,
		importer: imp,
	}
}

// Execute runs the command
func (ic *ImportCommand) Execute(cmd *cobra.Command, args []string) error {
	dir := ic.config.GetExportDir()

	files, err := ic.importer.FindLegacyFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No legacy export files found in %s", dir)
		return nil
	}

	bar := ui.NewImportProgress(len(files))
	var imported, skipped int

	results, err := ic.importer.ImportAll(dir, ic.config.Flags.Name, ic.config.Flags.Technician,
		func(res importer.Result) {
			if res.Err != nil {
				skipped++
			} else {
				imported++
			}
			bar.UpdateImport(imported, skipped)
		})
	bar.Finish()
	if err != nil {
		return err
	}

	color.Green("Imported %d of %d file(s)", imported, len(results))
	for _, res := range results {
		if res.Err != nil {
			color.Red("  ✗ %s: %v", res.Path, res.Err)
		}
	}
	return nil
}
