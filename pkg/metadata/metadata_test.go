package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePart(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestHashFile(t *testing.T) {
	path := writePart(t, t.TempDir(), "a.xlsx", "hello")

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}

	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("HashFile = %s, want %s", got, want)
	}
}

func TestManifest_SaveLoadVerify(t *testing.T) {
	dir := t.TempDir()
	p1 := writePart(t, dir, "output_1.xlsx", "part one")
	p2 := writePart(t, dir, "output_2.xlsx", "part two")

	m := New("run-1", "contacts.txt")
	m.Lines = 12
	m.Skipped = 2

	if err := m.Add(1, p1, 6); err != nil {
		t.Fatal(err)
	}

	if err := m.Add(2, p2, 4); err != nil {
		t.Fatal(err)
	}

	manifestPath := filepath.Join(dir, "output_manifest.yaml")
	if err := m.Save(manifestPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(manifestPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.RunID != "run-1" || loaded.Rows != 10 || len(loaded.Parts) != 2 {
		t.Errorf("loaded = %+v", loaded)
	}

	if loaded.Parts[1].File != "output_2.xlsx" || loaded.Parts[1].Part != 2 {
		t.Errorf("entry = %+v", loaded.Parts[1])
	}

	if err := loaded.Verify(dir); err != nil {
		t.Errorf("Verify failed on untouched parts: %v", err)
	}
}

func TestManifest_Verify_Failures(t *testing.T) {
	dir := t.TempDir()
	p1 := writePart(t, dir, "output_1.xlsx", "original")

	m := New("run-2", "in.txt")
	if err := m.Add(1, p1, 3); err != nil {
		t.Fatal(err)
	}

	writePart(t, dir, "output_1.xlsx", "tampered")

	if err := m.Verify(dir); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("Verify error = %v, want ErrHashMismatch", err)
	}

	if err := os.Remove(p1); err != nil {
		t.Fatal(err)
	}

	if err := m.Verify(dir); !errors.Is(err, ErrMissingPart) {
		t.Errorf("Verify error = %v, want ErrMissingPart", err)
	}
}

func TestManifest_Verify_RowMismatch(t *testing.T) {
	dir := t.TempDir()
	p1 := writePart(t, dir, "output_1.xlsx", "x")

	m := New("run-3", "in.txt")
	if err := m.Add(1, p1, 3); err != nil {
		t.Fatal(err)
	}

	m.Rows = 4

	if err := m.Verify(dir); !errors.Is(err, ErrRowMismatch) {
		t.Errorf("Verify error = %v, want ErrRowMismatch", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for missing manifest")
	}

	bad := writePart(t, t.TempDir(), "bad.yaml", "parts: [}")
	if _, err := Load(bad); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
