package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Directory settings
	TestsDir  string
	ExportDir string

	// Persisted settings file
	SettingsPath string

	// Report settings
	MinRowsPerPage int

	// Live capture settings
	RawLogLines int

	// Command flags
	Flags Flags

	// Persisted user settings, loaded lazily by commands that need them
	Settings *Settings
}

// Flags holds command-line flags
type Flags struct {
	TestsDir   string
	ExportDir  string
	NameFilter string
	Dates      []string
	All        bool
	MinRows    int
	Watch      bool
	ShowCounts bool
	Format     string
	Out        string
	Name       string
	Technician string
	Notes      string
	Input      string
	Discard    bool
	RawLog     bool
}

// New creates a new Config with defaults. A .env file in the working
// directory and TTC_* environment variables override them.
func New() *Config {
	// Best effort; running without a .env file is the normal case.
	_ = godotenv.Load()

	cfg := &Config{
		TestsDir:       DefaultTestsDir,
		ExportDir:      DefaultExportDir,
		MinRowsPerPage: DefaultMinRowsPerPage,
		RawLogLines:    DefaultRawLogLines,
	}

	if v := os.Getenv("TTC_TESTS_DIR"); v != "" {
		cfg.TestsDir = v
	}
	if v := os.Getenv("TTC_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("TTC_SETTINGS"); v != "" {
		cfg.SettingsPath = v
	}
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = filepath.Join(filepath.Dir(cfg.TestsDir), DefaultSettingsFile)
	}

	return cfg
}

// Load creates a config and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Flags = flags

	if flags.TestsDir != "" {
		cfg.TestsDir = flags.TestsDir
	}
	if flags.ExportDir != "" {
		cfg.ExportDir = flags.ExportDir
	}
	if flags.MinRows > 0 {
		cfg.MinRowsPerPage = flags.MinRows
	}

	return cfg
}

// GetTestsDir returns the tests root, using the flag if provided.
func (c *Config) GetTestsDir() string {
	if c.Flags.TestsDir != "" {
		return c.Flags.TestsDir
	}
	return c.TestsDir
}

// GetExportDir returns the export directory, using the flag if provided.
func (c *Config) GetExportDir() string {
	if c.Flags.ExportDir != "" {
		return c.Flags.ExportDir
	}
	return c.ExportDir
}

// GetMinRows returns the pagination floor, using the flag if provided.
func (c *Config) GetMinRows() int {
	if c.Flags.MinRows > 0 {
		return c.Flags.MinRows
	}
	return c.MinRowsPerPage
}

// LoadSettings loads (or re-loads) the persisted settings file and caches it
// on the config. A missing file yields defaults, not an error.
func (c *Config) LoadSettings() (*Settings, error) {
	settings, err := LoadSettings(c.SettingsPath)
	if err != nil {
		return nil, err
	}
	c.Settings = settings
	return settings, nil
}
