// Package codec serializes and deserializes single test records to and from
// the flat text file format: a comment-marker metadata header followed by a
// CSV sample table.
package codec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ttc/internal/domain"
)

const (
	// TimeLayout is the on-disk format of the datetime header value.
	TimeLayout = "2006-01-02 15:04:05"

	headerMarker = "# "
	separator    = "#"
	columnHeader = "timestamp_s,current_kN,peak_kN"

	keyName       = "test_name"
	keyTechnician = "technician"
	keyDatetime   = "datetime"
	keyNotes      = "notes"
	keyPeakForce  = "peak_force"
)

// Encode renders a record into its file representation: header lines in
// fixed key order, a bare separator line, the CSV column header, then one
// data line per sample. Forces and timestamps use 3 decimal places.
func Encode(rec domain.TestRecord) []byte {
	var b strings.Builder

	writeHeader := func(key, value string) {
		b.WriteString(headerMarker)
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}

	writeHeader(keyName, rec.Name)
	writeHeader(keyTechnician, rec.Technician)
	writeHeader(keyDatetime, rec.CreatedAt.Format(TimeLayout))
	// Multi-line notes become one header line per line so the file stays
	// line-oriented; an empty notes field still emits its line.
	for _, line := range strings.Split(rec.Notes, "\n") {
		writeHeader(keyNotes, line)
	}
	writeHeader(keyPeakForce, fmt.Sprintf("%.3f kN", rec.PeakForce))

	b.WriteString(separator)
	b.WriteByte('\n')
	b.WriteString(columnHeader)
	b.WriteByte('\n')

	for _, s := range rec.Samples {
		fmt.Fprintf(&b, "%.3f,%.3f,%.3f\n", s.Elapsed, s.Current, s.Peak)
	}

	return []byte(b.String())
}

// Decode parses a record file. Header lines may appear in any order and the
// notes key is optional; a missing peak_force header is derived from the
// sample table. A missing required key, an unparseable value, a bad data row
// or decreasing timestamps yield a *domain.MalformedRecordError.
func Decode(data []byte) (domain.TestRecord, error) {
	var rec domain.TestRecord

	var (
		notesLines   []string
		sawName      bool
		sawTech      bool
		sawDatetime  bool
		sawPeakForce bool
		lastElapsed  float64
	)

	malformed := func(reason string, err error) (domain.TestRecord, error) {
		return domain.TestRecord{}, &domain.MalformedRecordError{Reason: reason, Err: err}
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			body := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
			if body == "" {
				continue // separator line
			}
			key, value, found := strings.Cut(body, ":")
			if !found {
				continue // stray comment, not a key-value header
			}
			key = strings.ToLower(strings.TrimSpace(key))
			value = strings.TrimSpace(value)

			switch key {
			case keyName:
				rec.Name = value
				sawName = true
			case keyTechnician:
				rec.Technician = value
				sawTech = true
			case keyDatetime:
				t, err := time.ParseInLocation(TimeLayout, value, time.Local)
				if err != nil {
					return malformed(fmt.Sprintf("bad datetime %q", value), err)
				}
				rec.CreatedAt = t
				sawDatetime = true
			case keyNotes:
				notesLines = append(notesLines, value)
			case keyPeakForce:
				value = strings.TrimSpace(strings.TrimSuffix(value, "kN"))
				f, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return malformed(fmt.Sprintf("bad peak_force %q", value), err)
				}
				rec.PeakForce = f
				sawPeakForce = true
			}
			continue
		}

		if trimmed == columnHeader {
			continue
		}

		sample, err := parseDataRow(trimmed)
		if err != nil {
			return malformed(fmt.Sprintf("bad data row %q", trimmed), err)
		}
		if len(rec.Samples) > 0 && sample.Elapsed < lastElapsed {
			return malformed(fmt.Sprintf("timestamps decrease at %.3f", sample.Elapsed), nil)
		}
		lastElapsed = sample.Elapsed
		rec.Samples = append(rec.Samples, sample)
	}

	switch {
	case !sawName:
		return malformed("missing test_name", nil)
	case !sawTech:
		return malformed("missing technician", nil)
	case !sawDatetime:
		return malformed("missing datetime", nil)
	}

	rec.Notes = strings.Join(notesLines, "\n")
	if !sawPeakForce {
		rec.PeakForce = rec.MaxSamplePeak()
	}

	return rec, nil
}

func parseDataRow(line string) (domain.Sample, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return domain.Sample{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	var values [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return domain.Sample{}, err
		}
		values[i] = v
	}
	return domain.Sample{Elapsed: values[0], Current: values[1], Peak: values[2]}, nil
}

// UpdateMetadata rewrites only the mutable header fields of the record at
// path, preserving datetime, peak_force and the data section. The file is
// replaced atomically so a crash mid-write never leaves a truncated record.
func UpdateMetadata(path, name, technician, notes string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read record: %w", err)
	}

	rec, err := Decode(data)
	if err != nil {
		var merr *domain.MalformedRecordError
		if errors.As(err, &merr) {
			merr.Path = path
		}
		return err
	}

	rec.Name = name
	rec.Technician = technician
	rec.Notes = notes

	return WriteAtomic(path, Encode(rec))
}

// WriteAtomic writes data to a temp file in the target's directory and
// renames it over path. Rename within one directory is atomic on POSIX
// systems, so readers see either the old or the new file, never a torn one.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
