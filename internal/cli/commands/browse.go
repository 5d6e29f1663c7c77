package commands

import (
	"github.com/spf13/cobra"

	"ttc/internal/config"
	"ttc/internal/ui"
)

// BrowseCommand handles the browse command
type BrowseCommand struct {
	config  *config.Config
	browser *ui.Browser
}

// NewBrowseCommand creates a new BrowseCommand
func NewBrowseCommand(cfg *config.Config, browser *ui.Browser) *BrowseCommand {
	return &BrowseCommand{
		config:  cfg,
		browser: browser,
	}
}

// Execute runs the command
func (bc *BrowseCommand) Execute(cmd *cobra.Command, args []string) error {
	return bc.browser.Run(bc.config.Flags.Watch)
}
