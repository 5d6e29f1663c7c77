package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ttc/internal/acquire"
	"ttc/internal/config"
	"ttc/internal/domain"
	"ttc/internal/store"
	"ttc/internal/ui"
)

// CaptureCommand handles the capture command
type CaptureCommand struct {
	config *config.Config
	store  *store.Store
}

// NewCaptureCommand creates a new CaptureCommand
func NewCaptureCommand(cfg *config.Config, st *store.Store) *CaptureCommand {
	return &CaptureCommand{
		config: cfg,
		store:  st,
	}
}

// Execute runs the command
func (cc *CaptureCommand) Execute(cmd *cobra.Command, args []string) error {
	var src io.Reader = os.Stdin
	if path := cc.config.Flags.Input; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		src = f
	}

	session := acquire.NewSession()
	raw := acquire.NewRawLog(cc.config.RawLogLines)
	spinner := ui.NewCaptureSpinner()

	reader := acquire.NewReader(src, raw, func(s domain.Sample) {
		session.Add(s)
		spinner.Update(session.Count(), session.Peak())
	}, func(err error) {
		color.Red("Read error: %v", err)
	})

	// Interrupt ends the capture; the buffered samples survive and are
	// saved (or discarded) below.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := reader.Run(ctx)
	spinner.Finish()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if cc.config.Flags.RawLog {
		for _, line := range raw.Lines() {
			fmt.Println(line)
		}
	}

	if cc.config.Flags.Discard {
		session.Discard()
		color.Yellow("Capture discarded, nothing written")
		return nil
	}

	if session.Count() == 0 {
		color.Yellow("No samples captured, nothing written")
		return nil
	}

	name := cc.config.Flags.Name
	if name == "" {
		name = "test"
	}

	rec := session.Record(name, cc.config.Flags.Technician, cc.config.Flags.Notes)
	path, err := cc.store.Save(&rec)
	if err != nil {
		return err
	}

	if cc.config.Flags.Technician != "" {
		if settings, err := cc.config.LoadSettings(); err == nil {
			settings.TouchTechnician(cc.config.Flags.Technician)
			_ = settings.Save()
		}
	}

	color.Green("Saved %d sample(s), peak %.3f kN → %s", len(rec.Samples), rec.PeakForce, path)
	return nil
}
