package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ttc/internal/store"
)

func writeLegacy(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestFindLegacyFiles(t *testing.T) {
	dir := t.TempDir()
	writeLegacy(t, dir, "test_20240305_142210.csv", "")
	writeLegacy(t, dir, "test_20240306_090000.csv", "")
	writeLegacy(t, dir, "notes.txt", "")
	writeLegacy(t, dir, "report_2024.csv", "")

	im := NewImporter(store.New(t.TempDir()))
	files, err := im.FindLegacyFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 legacy files, got %d", len(files))
	}
}

func TestImport(t *testing.T) {
	exportDir := t.TempDir()
	testsDir := t.TempDir()
	st := store.New(testsDir)
	im := NewImporter(st)

	content := "Timestamp (s),Current (kN),Peak (kN)\n0.000,1.000,1.000\n0.100,4.500,4.500\n0.200,3.000,4.500\n"
	path := writeLegacy(t, exportDir, "test_20240305_142210.csv", content)

	res := im.Import(path, "Imported rod", "Dana")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	rec, err := st.ReadRecord(res.Dest)
	if err != nil {
		t.Fatalf("read imported record: %v", err)
	}
	if rec.Name != "Imported rod" || rec.Technician != "Dana" {
		t.Errorf("bad metadata: %+v", rec)
	}
	expected := time.Date(2024, 3, 5, 14, 22, 10, 0, time.Local)
	if !rec.CreatedAt.Equal(expected) {
		t.Errorf("expected created_at %v, got %v", expected, rec.CreatedAt)
	}
	if rec.PeakForce != 4.5 {
		t.Errorf("expected peak 4.5 from samples, got %v", rec.PeakForce)
	}
	if len(rec.Samples) != 3 {
		t.Errorf("expected 3 samples, got %d", len(rec.Samples))
	}
}

func TestImport_DefaultsNameFromFile(t *testing.T) {
	exportDir := t.TempDir()
	st := store.New(t.TempDir())
	im := NewImporter(st)

	path := writeLegacy(t, exportDir, "test_20240305_142210.csv", "0.0,1.0,1.0\n")
	res := im.Import(path, "", "Dana")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	rec, err := st.ReadRecord(res.Dest)
	if err != nil {
		t.Fatalf("read imported record: %v", err)
	}
	if rec.Name != "test_20240305_142210" {
		t.Errorf("expected name from filename, got %s", rec.Name)
	}
}

func TestImport_BadRows(t *testing.T) {
	exportDir := t.TempDir()
	im := NewImporter(store.New(t.TempDir()))

	path := writeLegacy(t, exportDir, "test_20240305_142210.csv", "0.0,1.0\n")
	if res := im.Import(path, "", "Dana"); res.Err == nil {
		t.Error("expected error for wrong arity")
	}
}

func TestImportAll(t *testing.T) {
	exportDir := t.TempDir()
	st := store.New(t.TempDir())
	im := NewImporter(st)

	writeLegacy(t, exportDir, "test_20240305_142210.csv", "0.0,1.0,1.0\n")
	writeLegacy(t, exportDir, "test_20240306_090000.csv", "bad\n")

	var seen int
	results, err := im.ImportAll(exportDir, "", "Dana", func(Result) { seen++ })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || seen != 2 {
		t.Fatalf("expected 2 results and 2 callbacks, got %d and %d", len(results), seen)
	}

	var ok, failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	if ok != 1 || failed != 1 {
		t.Errorf("expected 1 imported and 1 failed, got %d and %d", ok, failed)
	}
}
