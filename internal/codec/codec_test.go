package codec

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"ttc/internal/domain"
)

func sampleRecord() domain.TestRecord {
	return domain.TestRecord{
		Name:       "Steel rod A",
		Technician: "Dana",
		CreatedAt:  time.Date(2024, 3, 5, 14, 22, 10, 0, time.Local),
		Notes:      "annealed batch",
		PeakForce:  23.4,
		Samples: []domain.Sample{
			{Elapsed: 0, Current: 0.5, Peak: 0.5},
			{Elapsed: 0.25, Current: 12.1, Peak: 12.1},
			{Elapsed: 0.5, Current: 9.8, Peak: 23.4},
		},
	}
}

func TestEncode_Layout(t *testing.T) {
	out := string(Encode(sampleRecord()))

	expected := strings.Join([]string{
		"# test_name: Steel rod A",
		"# technician: Dana",
		"# datetime: 2024-03-05 14:22:10",
		"# notes: annealed batch",
		"# peak_force: 23.400 kN",
		"#",
		"timestamp_s,current_kN,peak_kN",
		"0.000,0.500,0.500",
		"0.250,12.100,12.100",
		"0.500,9.800,23.400",
		"",
	}, "\n")

	if out != expected {
		t.Errorf("unexpected encoding:\ngot:\n%s\nwant:\n%s", out, expected)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.TestRecord
	}{
		{name: "with samples", rec: sampleRecord()},
		{
			name: "empty sample table",
			rec: domain.TestRecord{
				Name:       "Dry run",
				Technician: "Lee",
				CreatedAt:  time.Date(2023, 11, 1, 9, 0, 0, 0, time.Local),
				PeakForce:  5.75,
			},
		},
		{
			name: "multi-line notes",
			rec: func() domain.TestRecord {
				r := sampleRecord()
				r.Notes = "first line\nsecond line"
				return r
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(Encode(tt.rec))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(decoded, tt.rec) {
				t.Errorf("round trip mismatch:\ngot:  %+v\nwant: %+v", decoded, tt.rec)
			}
		})
	}
}

func TestDecode_Tolerance(t *testing.T) {
	t.Run("headers in any order", func(t *testing.T) {
		text := strings.Join([]string{
			"# peak_force: 10.000 kN",
			"# datetime: 2024-01-02 03:04:05",
			"# technician: Kim",
			"# test_name: Shuffled",
			"timestamp_s,current_kN,peak_kN",
		}, "\n")
		rec, err := Decode([]byte(text))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Name != "Shuffled" || rec.Technician != "Kim" || rec.PeakForce != 10 {
			t.Errorf("bad decode: %+v", rec)
		}
	})

	t.Run("missing notes defaults to empty", func(t *testing.T) {
		text := strings.Join([]string{
			"# test_name: NoNotes",
			"# technician: Kim",
			"# datetime: 2024-01-02 03:04:05",
			"# peak_force: 1.000 kN",
		}, "\n")
		rec, err := Decode([]byte(text))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Notes != "" {
			t.Errorf("expected empty notes, got %q", rec.Notes)
		}
	})

	t.Run("missing peak_force derived from samples", func(t *testing.T) {
		text := strings.Join([]string{
			"# test_name: Derived",
			"# technician: Kim",
			"# datetime: 2024-01-02 03:04:05",
			"timestamp_s,current_kN,peak_kN",
			"0.000,1.000,1.000",
			"0.100,4.000,4.000",
		}, "\n")
		rec, err := Decode([]byte(text))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.PeakForce != 4 {
			t.Errorf("expected derived peak 4, got %v", rec.PeakForce)
		}
	})
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "missing test_name",
			text: "# technician: Kim\n# datetime: 2024-01-02 03:04:05\n",
		},
		{
			name: "missing technician",
			text: "# test_name: X\n# datetime: 2024-01-02 03:04:05\n",
		},
		{
			name: "missing datetime",
			text: "# test_name: X\n# technician: Kim\n",
		},
		{
			name: "unparseable datetime",
			text: "# test_name: X\n# technician: Kim\n# datetime: not-a-date\n",
		},
		{
			name: "unparseable peak_force",
			text: "# test_name: X\n# technician: Kim\n# datetime: 2024-01-02 03:04:05\n# peak_force: heavy\n",
		},
		{
			name: "bad data row arity",
			text: "# test_name: X\n# technician: Kim\n# datetime: 2024-01-02 03:04:05\n1.0,2.0\n",
		},
		{
			name: "decreasing timestamps",
			text: "# test_name: X\n# technician: Kim\n# datetime: 2024-01-02 03:04:05\n1.0,2.0,2.0\n0.5,3.0,3.0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.text))
			var merr *domain.MalformedRecordError
			if !errors.As(err, &merr) {
				t.Fatalf("expected MalformedRecordError, got %v", err)
			}
		})
	}
}

func TestUpdateMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rod.csv")
	rec := sampleRecord()
	if err := os.WriteFile(path, Encode(rec), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if err := UpdateMetadata(path, "Renamed", "Sam", "retest after anneal"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	updated, err := Decode(data)
	if err != nil {
		t.Fatalf("re-decode failed: %v", err)
	}

	if updated.Name != "Renamed" || updated.Technician != "Sam" || updated.Notes != "retest after anneal" {
		t.Errorf("metadata not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("datetime changed: %v != %v", updated.CreatedAt, rec.CreatedAt)
	}
	if updated.PeakForce != rec.PeakForce {
		t.Errorf("peak force changed: %v != %v", updated.PeakForce, rec.PeakForce)
	}
	if !reflect.DeepEqual(updated.Samples, rec.Samples) {
		t.Errorf("data section changed:\ngot:  %+v\nwant: %+v", updated.Samples, rec.Samples)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the record file in %s, found %d entries", dir, len(entries))
	}
}

func TestUpdateMetadata_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.csv")
	if err := os.WriteFile(path, []byte("# technician: Kim\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	err := UpdateMetadata(path, "X", "Y", "")
	var merr *domain.MalformedRecordError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if merr.Path != path {
		t.Errorf("expected path %s on error, got %s", path, merr.Path)
	}
}
