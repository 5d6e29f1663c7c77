package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

func newBar(count int, description string) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &ProgressBar{bar: bar}
}

// NewScanProgress creates a progress bar for decoding count record files.
func NewScanProgress(count int) *ProgressBar {
	return newBar(count, color.CyanString("Reading tests"))
}

// NewImportProgress creates a progress bar sized to count legacy files.
func NewImportProgress(count int) *ProgressBar {
	return newBar(count, color.CyanString("Importing: ")+
		color.GreenString("[imported: 0")+" | "+color.RedString("skipped: 0]"))
}

// Add advances the bar by one.
func (p *ProgressBar) Add() {
	p.bar.Add(1)
}

// UpdateImport advances the bar and refreshes the imported/skipped counts.
func (p *ProgressBar) UpdateImport(imported, skipped int) {
	p.bar.Set(imported + skipped)
	p.bar.Describe(
		color.CyanString("Importing: ") +
			color.GreenString("[imported: %d", imported) +
			" | " +
			color.RedString("skipped: %d]", skipped),
	)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}

// CaptureSpinner shows live capture activity: sample count and running peak.
type CaptureSpinner struct {
	bar *progressbar.ProgressBar
}

// NewCaptureSpinner creates an indeterminate spinner for live capture.
func NewCaptureSpinner() *CaptureSpinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString("Capturing: ")+"[samples: 0 | peak: 0.000 kN]"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
	)
	return &CaptureSpinner{bar: bar}
}

// Update refreshes the spinner with the current sample count and peak.
func (c *CaptureSpinner) Update(samples int, peak float64) {
	c.bar.Add(1)
	c.bar.Describe(
		color.CyanString("Capturing: ") +
			fmt.Sprintf("[samples: %d | peak: %s]", samples, color.YellowString("%.3f kN", peak)),
	)
}

// Finish clears the spinner line.
func (c *CaptureSpinner) Finish() {
	c.bar.Finish()
	fmt.Fprint(os.Stderr, "\n")
}
