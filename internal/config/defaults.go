package config

const (
	// DefaultTestsDir is the default tests root directory.
	DefaultTestsDir = "tests"
	// DefaultExportDir is the default directory for exported reports.
	DefaultExportDir = "exports"
	// DefaultSettingsFile is the default persisted settings file name.
	DefaultSettingsFile = "ttc.toml"
	// DefaultMinRowsPerPage is the pagination floor for printed reports.
	DefaultMinRowsPerPage = 5
	// DefaultRawLogLines bounds the raw serial-line log.
	DefaultRawLogLines = 1000
	// RecentTechniciansMax bounds the most-recent-first technician history.
	RecentTechniciansMax = 10
)
