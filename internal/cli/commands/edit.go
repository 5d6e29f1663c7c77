package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ttc/internal/codec"
	"ttc/internal/config"
	"ttc/internal/store"
)

// EditCommand handles the edit command
type EditCommand struct {
	config *config.Config
	store  *store.Store
}

// NewEditCommand creates a new EditCommand
func NewEditCommand(cfg *config.Config, st *store.Store) *EditCommand {
	return &EditCommand{
		config: cfg,
		store:  st,
	}
}

// Execute runs the command
func (ec *EditCommand) Execute(cmd *cobra.Command, args []string) error {
	path := args[0]

	rec, err := ec.store.ReadRecord(path)
	if err != nil {
		return err
	}

	// Only the flags the user actually set change; everything else keeps
	// its current value, including clearing notes with --notes "".
	name := rec.Name
	technician := rec.Technician
	notes := rec.Notes
	if cmd.Flags().Changed("name") {
		name = ec.config.Flags.Name
	}
	if cmd.Flags().Changed("technician") {
		technician = ec.config.Flags.Technician
	}
	if cmd.Flags().Changed("notes") {
		notes = ec.config.Flags.Notes
	}

	if err := codec.UpdateMetadata(path, name, technician, notes); err != nil {
		return err
	}

	if cmd.Flags().Changed("technician") {
		if settings, err := ec.config.LoadSettings(); err == nil {
			settings.TouchTechnician(technician)
			_ = settings.Save()
		}
	}

	color.Green("Updated %s", path)
	return nil
}
