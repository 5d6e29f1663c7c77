package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ttc/internal/codec"
	"ttc/internal/domain"
)

func writeRecord(t *testing.T, s *Store, name, technician string, when time.Time, peak float64) string {
	t.Helper()
	rec := domain.TestRecord{
		Name:       name,
		Technician: technician,
		CreatedAt:  when,
		PeakForce:  peak,
		Samples: []domain.Sample{
			{Elapsed: 0, Current: peak / 2, Peak: peak / 2},
			{Elapsed: 0.5, Current: peak, Peak: peak},
		},
	}
	path, err := s.Save(&rec)
	if err != nil {
		t.Fatalf("failed to save record: %v", err)
	}
	return path
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "SteelRod", expected: "SteelRod"},
		{name: "spaces become underscores", input: "Steel rod A", expected: "Steel_rod_A"},
		{name: "illegal characters", input: `a<b>c:"d/e\f|g?h*i`, expected: "a_b_c__d_e_f_g_h_i"},
		{name: "trims dots and spaces", input: " ..rod.. ", expected: "rod"},
		{name: "empty falls back", input: "", expected: "test"},
		{name: "illegal runs kept as underscores", input: "???", expected: "___"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	t.Run("caps at 100 runes", func(t *testing.T) {
		long := strings.Repeat("x", 150)
		if got := SanitizeName(long); len([]rune(got)) != 100 {
			t.Errorf("expected 100 runes, got %d", len([]rune(got)))
		}
	})
}

func TestGeneratePath(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	when := time.Date(2024, 3, 5, 14, 22, 10, 0, time.Local)

	t.Run("deterministic layout", func(t *testing.T) {
		path := s.GeneratePath("Steel rod A", when)
		expected := filepath.Join(dir, "2024-03-05", "Steel_rod_A_142210.csv")
		if path != expected {
			t.Errorf("expected %s, got %s", expected, path)
		}
	})

	t.Run("collisions get numeric suffixes", func(t *testing.T) {
		first := writeRecord(t, s, "Dup", "Kim", when, 10)
		second := writeRecord(t, s, "Dup", "Kim", when, 11)
		third := writeRecord(t, s, "Dup", "Kim", when, 12)

		if !strings.HasSuffix(first, "Dup_142210.csv") {
			t.Errorf("unexpected first path: %s", first)
		}
		if !strings.HasSuffix(second, "Dup_142210_1.csv") {
			t.Errorf("unexpected second path: %s", second)
		}
		if !strings.HasSuffix(third, "Dup_142210_2.csv") {
			t.Errorf("unexpected third path: %s", third)
		}
	})
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	when := time.Date(2024, 3, 5, 9, 15, 0, 0, time.Local)

	path := writeRecord(t, s, "Rod", "Dana", when, 23.4)

	rec, err := s.ReadRecord(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Path != path {
		t.Errorf("expected path %s, got %s", path, rec.Path)
	}
	if rec.Name != "Rod" || rec.Technician != "Dana" || rec.PeakForce != 23.4 {
		t.Errorf("bad record read back: %+v", rec)
	}
	if !rec.CreatedAt.Equal(when) {
		t.Errorf("expected created_at %v, got %v", when, rec.CreatedAt)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	day1 := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 3, 6, 10, 0, 0, 0, time.Local)

	writeRecord(t, s, "B-later", "Kim", day1.Add(2*time.Hour), 22)
	writeRecord(t, s, "A-earlier", "Kim", day1, 20)
	writeRecord(t, s, "NextDay", "Lee", day2, 30)

	// Folders and files that must be ignored.
	if err := os.MkdirAll(filepath.Join(dir, "not-a-date"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2024-03-05", "readme.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	result, err := s.Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Groups) != 2 {
		t.Fatalf("expected 2 date groups, got %d", len(result.Groups))
	}
	if result.Groups[0].Date != "2024-03-05" || result.Groups[1].Date != "2024-03-06" {
		t.Errorf("groups out of order: %s, %s", result.Groups[0].Date, result.Groups[1].Date)
	}

	day1Records := result.Groups[0].Records
	if len(day1Records) != 2 {
		t.Fatalf("expected 2 records on day 1, got %d", len(day1Records))
	}
	if day1Records[0].Name != "A-earlier" || day1Records[1].Name != "B-later" {
		t.Errorf("records not chronological: %s, %s", day1Records[0].Name, day1Records[1].Name)
	}

	if len(result.Diagnostics) != 0 {
		t.Errorf("expected no diagnostics, got %d", len(result.Diagnostics))
	}

	t.Run("returns error for missing root", func(t *testing.T) {
		_, err := New(filepath.Join(dir, "nope")).Scan()
		if err == nil {
			t.Error("expected error for missing root directory")
		}
	})
}

func TestScan_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	when := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)

	writeRecord(t, s, "Good1", "Kim", when, 20)
	writeRecord(t, s, "Good2", "Kim", when.Add(time.Minute), 22)

	// A record missing its technician line must be skipped, not fail the scan.
	broken := filepath.Join(dir, "2024-03-05", "broken_091500.csv")
	text := "# test_name: Broken\n# datetime: 2024-03-05 09:15:00\n# peak_force: 1.000 kN\n"
	if err := os.WriteFile(broken, []byte(text), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	result, err := s.Scan()
	if err != nil {
		t.Fatalf("scan must not fail for malformed files: %v", err)
	}

	if result.RecordCount() != 2 {
		t.Errorf("expected 2 valid records, got %d", result.RecordCount())
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(result.Diagnostics))
	}
	if result.Diagnostics[0].Path != broken {
		t.Errorf("expected diagnostic for %s, got %s", broken, result.Diagnostics[0].Path)
	}
}

func TestScanWithProgress(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	when := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)

	writeRecord(t, s, "One", "Kim", when, 20)
	writeRecord(t, s, "Two", "Kim", when.Add(time.Minute), 22)

	if got := s.CountFiles(); got != 2 {
		t.Errorf("expected CountFiles 2, got %d", got)
	}

	var seen int
	_, err := s.ScanWithProgress(func(string) { seen++ })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != 2 {
		t.Errorf("expected 2 progress callbacks, got %d", seen)
	}
}

func TestReadRecord_AttachesPathToError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("# notes: only\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	_, err := New(dir).ReadRecord(path)
	merr, ok := err.(*domain.MalformedRecordError)
	if !ok {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if merr.Path != path {
		t.Errorf("expected path %s, got %s", path, merr.Path)
	}
}

func TestSave_EncodingMatchesCodec(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	rec := domain.TestRecord{
		Name:       "Rod",
		Technician: "Dana",
		CreatedAt:  time.Date(2024, 3, 5, 9, 15, 0, 0, time.Local),
		PeakForce:  5,
	}

	path, err := s.Save(&rec)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	want := codec.Encode(rec)
	if string(data) != string(want) {
		t.Errorf("file bytes differ from codec output:\ngot:\n%s\nwant:\n%s", data, want)
	}
}
