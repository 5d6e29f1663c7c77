// Package store maps a root directory to a tree of date folders containing
// test record files, built on the codec package.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"ttc/internal/codec"
	"ttc/internal/domain"
)

// RecordExt is the file extension of persisted records.
const RecordExt = ".csv"

const maxNameRunes = 100

var (
	dateFolderPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	illegalNameChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// Store organizes test records under a root directory, one subdirectory per
// calendar day. It is safe for a single logical owner only; no internal
// locking is done.
type Store struct {
	root string
}

// New creates a Store rooted at the given tests directory.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// SanitizeName maps a test name to a string legal in file names: illegal
// characters and spaces become underscores, leading/trailing dots and spaces
// are trimmed, and the result is capped at 100 runes. An empty result falls
// back to "test".
func SanitizeName(name string) string {
	name = illegalNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, ". ")
	name = strings.ReplaceAll(name, " ", "_")
	if runes := []rune(name); len(runes) > maxNameRunes {
		name = string(runes[:maxNameRunes])
	}
	if name == "" {
		name = "test"
	}
	return name
}

// GeneratePath returns the deterministic path for a new record:
// <root>/YYYY-MM-DD/<sanitized>_<HHMMSS>.csv. Two tests saved in the same
// second are disambiguated with a numeric suffix.
func (s *Store) GeneratePath(name string, when time.Time) string {
	dir := filepath.Join(s.root, when.Format("2006-01-02"))
	base := fmt.Sprintf("%s_%s", SanitizeName(name), when.Format("150405"))

	path := filepath.Join(dir, base+RecordExt)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, RecordExt))
	}
}

// Save encodes the record and writes it atomically under the generated path,
// creating the date folder as needed. The stored path is returned and set on
// the record.
func (s *Store) Save(rec *domain.TestRecord) (string, error) {
	path := s.GeneratePath(rec.Name, rec.CreatedAt)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create date folder: %w", err)
	}
	if err := codec.WriteAtomic(path, codec.Encode(*rec)); err != nil {
		return "", err
	}
	rec.Path = path
	return path, nil
}

// ReadRecord reads and decodes a single record file, attaching its path.
func (s *Store) ReadRecord(path string) (domain.TestRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.TestRecord{}, fmt.Errorf("read record: %w", err)
	}
	rec, err := codec.Decode(data)
	if err != nil {
		var merr *domain.MalformedRecordError
		if errors.As(err, &merr) {
			merr.Path = path
		}
		return domain.TestRecord{}, err
	}
	rec.Path = path
	return rec, nil
}

// Scan walks the immediate subdirectories of the root that match the date
// folder pattern and decodes every record file inside. Files that fail to
// decode never abort the scan; they are collected as diagnostics instead.
// Records within a group and groups themselves are sorted ascending.
func (s *Store) Scan() (domain.ScanResult, error) {
	return s.ScanWithProgress(nil)
}

// ScanWithProgress is Scan with a per-file callback, used to drive a
// progress bar over large trees. onFile may be nil.
func (s *Store) ScanWithProgress(onFile func(path string)) (domain.ScanResult, error) {
	var result domain.ScanResult

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return result, fmt.Errorf("read tests directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || !dateFolderPattern.MatchString(entry.Name()) {
			continue
		}

		group := domain.DateGroup{Date: entry.Name()}
		dir := filepath.Join(s.root, entry.Name())

		files, err := os.ReadDir(dir)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, domain.ScanDiagnostic{Path: dir, Err: err})
			continue
		}

		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), RecordExt) {
				continue
			}
			path := filepath.Join(dir, file.Name())
			if onFile != nil {
				onFile(path)
			}
			rec, err := s.ReadRecord(path)
			if err != nil {
				result.Diagnostics = append(result.Diagnostics, domain.ScanDiagnostic{Path: path, Err: err})
				continue
			}
			group.Records = append(group.Records, rec)
		}

		sort.Slice(group.Records, func(i, j int) bool {
			a, b := group.Records[i], group.Records[j]
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.Path < b.Path
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})

		if len(group.Records) > 0 {
			result.Groups = append(result.Groups, group)
		}
	}

	sort.Slice(result.Groups, func(i, j int) bool {
		return result.Groups[i].Date < result.Groups[j].Date
	})

	return result, nil
}

// CountFiles returns the number of record files under date folders, without
// decoding them. Used to size progress bars before a scan.
func (s *Store) CountFiles() int {
	var count int
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0
	}
	for _, entry := range entries {
		if !entry.IsDir() || !dateFolderPattern.MatchString(entry.Name()) {
			continue
		}
		files, err := os.ReadDir(filepath.Join(s.root, entry.Name()))
		if err != nil {
			continue
		}
		for _, file := range files {
			if !file.IsDir() && strings.HasSuffix(file.Name(), RecordExt) {
				count++
			}
		}
	}
	return count
}
