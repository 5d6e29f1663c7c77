package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings is the persisted user state, stored as a TOML file next to the
// tests directory. It is owned by whoever loaded it and passed by reference;
// there is no ambient global copy.
type Settings struct {
	TestsDirectory    string   `toml:"tests_directory"`
	ExportDirectory   string   `toml:"export_directory"`
	LastTechnician    string   `toml:"last_technician"`
	RecentTechnicians []string `toml:"recent_technicians"`
	DevicePort        string   `toml:"device_port"`
	RawLogLines       int      `toml:"raw_log_lines"`

	path string
}

// LoadSettings reads the settings file at path. A missing file is not an
// error; defaults are returned instead.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{
		TestsDirectory:  DefaultTestsDir,
		ExportDirectory: DefaultExportDir,
		RawLogLines:     DefaultRawLogLines,
		path:            path,
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("stat settings: %w", err)
	}

	if _, err := toml.DecodeFile(path, s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Save writes the settings atomically: encode to a temp file in the same
// directory, then rename over the original.
func (s *Settings) Save() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// TouchTechnician records a technician as the most recently used: inserted
// at the front of the history, de-duplicated, capped at RecentTechniciansMax
// entries. Empty names are ignored.
func (s *Settings) TouchTechnician(name string) {
	if name == "" {
		return
	}
	s.LastTechnician = name

	recent := []string{name}
	for _, t := range s.RecentTechnicians {
		if t != name {
			recent = append(recent, t)
		}
	}
	if len(recent) > RecentTechniciansMax {
		recent = recent[:RecentTechniciansMax]
	}
	s.RecentTechnicians = recent
}
