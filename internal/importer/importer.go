// Package importer converts legacy export files — headerless
// test_YYYYMMDD_HHMMSS.csv dumps predating the metadata header — into
// proper store records.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ttc/internal/domain"
	"ttc/internal/store"
)

var legacyNamePattern = regexp.MustCompile(`^test_(\d{8})_(\d{6})\.csv$`)

// Result reports one legacy file's fate.
type Result struct {
	Path string
	Dest string // Path of the imported record, empty when skipped
	Err  error
}

// Importer moves legacy export files into a store.
type Importer struct {
	store *store.Store
}

// NewImporter creates a new Importer
func NewImporter(st *store.Store) *Importer {
	return &Importer{store: st}
}

// FindLegacyFiles lists the legacy export files in dir, sorted by name.
func (im *Importer) FindLegacyFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read export directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && legacyNamePattern.MatchString(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Import converts one legacy file into a store record. The test's datetime
// comes from the filename, the peak force from the sample table, and name
// and technician from the caller.
func (im *Importer) Import(path, name, technician string) Result {
	base := filepath.Base(path)
	m := legacyNamePattern.FindStringSubmatch(base)
	if m == nil {
		return Result{Path: path, Err: fmt.Errorf("not a legacy export name: %s", base)}
	}

	createdAt, err := time.ParseInLocation("20060102_150405", m[1]+"_"+m[2], time.Local)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("bad timestamp in name: %w", err)}
	}

	samples, err := readLegacySamples(path)
	if err != nil {
		return Result{Path: path, Err: err}
	}

	if name == "" {
		name = strings.TrimSuffix(base, ".csv")
	}

	rec := domain.TestRecord{
		Name:       name,
		Technician: technician,
		CreatedAt:  createdAt,
		Notes:      fmt.Sprintf("imported from %s", base),
		Samples:    samples,
	}
	rec.PeakForce = rec.MaxSamplePeak()

	dest, err := im.store.Save(&rec)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	return Result{Path: path, Dest: dest}
}

// ImportAll imports every legacy file in dir. onResult is called per file;
// it may be nil.
func (im *Importer) ImportAll(dir, name, technician string, onResult func(Result)) ([]Result, error) {
	files, err := im.FindLegacyFiles(dir)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	for _, path := range files {
		res := im.Import(path, name, technician)
		results = append(results, res)
		if onResult != nil {
			onResult(res)
		}
	}
	return results, nil
}

// readLegacySamples parses the bare CSV table: an optional header line, then
// timestamp,current,peak rows.
func readLegacySamples(path string) ([]domain.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read legacy file: %w", err)
	}

	var samples []domain.Sample
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", i+1, len(fields))
		}

		elapsed, err1 := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		current, err2 := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		peak, err3 := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			if i == 0 {
				continue // header line
			}
			return nil, fmt.Errorf("line %d: unparseable values", i+1)
		}
		samples = append(samples, domain.Sample{Elapsed: elapsed, Current: current, Peak: peak})
	}
	return samples, nil
}
