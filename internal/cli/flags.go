package cli

import "ttc/internal/config"

// Flags holds command-line flags
type Flags struct {
	TestsDir   string
	ExportDir  string
	NameFilter string
	Dates      []string
	All        bool
	MinRows    int
	Watch      bool

	// list
	ShowCounts bool

	// report
	Format string
	Out    string

	// edit / capture / import
	Name       string
	Technician string
	Notes      string

	// capture
	Input   string
	Discard bool
	RawLog  bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		TestsDir:   f.TestsDir,
		ExportDir:  f.ExportDir,
		NameFilter: f.NameFilter,
		Dates:      f.Dates,
		All:        f.All,
		MinRows:    f.MinRows,
		Watch:      f.Watch,
		ShowCounts: f.ShowCounts,
		Format:     f.Format,
		Out:        f.Out,
		Name:       f.Name,
		Technician: f.Technician,
		Notes:      f.Notes,
		Input:      f.Input,
		Discard:    f.Discard,
		RawLog:     f.RawLog,
	}
}
