package main

import (
	"fmt"
	"os"

	"ttc/internal/cli"
	"ttc/internal/cli/commands"
	"ttc/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "ttc",
		Short:   "Tensile test companion",
		Long:    `Manage tensile test records: capture live measurements, browse and select stored tests, compute peak-force statistics, and export paginated reports.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
