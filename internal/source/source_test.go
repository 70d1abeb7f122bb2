package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}

	return path
}

func TestDiscover_Single(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "contacts.txt", "x")
	writeFile(t, dir, "notes.md", "x")

	got, err := Discover(dir, ".txt")
	if err != nil {
		t.Fatalf("Discover returned unexpected error: %v", err)
	}

	if got != want {
		t.Errorf("Discover = %s, want %s", got, want)
	}
}

func TestDiscover_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "a.txt", "x")

	if err := os.Mkdir(filepath.Join(dir, "b.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Discover(dir, ".txt")
	if err != nil || got != want {
		t.Errorf("Discover = %s, %v; want %s", got, err, want)
	}
}

func TestDiscover_None(t *testing.T) {
	_, err := Discover(t.TempDir(), ".txt")
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("Discover error = %v, want ErrNoInput", err)
	}
}

func TestDiscover_Ambiguous(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")
	writeFile(t, dir, "b.txt", "x")

	_, err := Discover(dir, ".txt")
	if !errors.Is(err, ErrAmbiguousInput) {
		t.Fatalf("Discover error = %v, want ErrAmbiguousInput", err)
	}

	if !strings.Contains(err.Error(), "a.txt, b.txt") {
		t.Errorf("error should list candidates: %v", err)
	}
}

func TestDiscover_InvalidExtension(t *testing.T) {
	_, err := Discover(t.TempDir(), "../*.txt")
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("Discover error = %v, want ErrInvalidPattern", err)
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.txt", "x")

	if err := CheckFile(path); err != nil {
		t.Errorf("CheckFile(file) = %v, want nil", err)
	}

	if err := CheckFile(dir); !errors.Is(err, ErrNotRegularFile) {
		t.Errorf("CheckFile(dir) = %v, want ErrNotRegularFile", err)
	}

	missing := filepath.Join(dir, "missing.txt")

	err := CheckFile(missing)
	if !errors.Is(err, ErrNotRegularFile) {
		t.Errorf("CheckFile(missing) = %v, want ErrNotRegularFile", err)
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Path != missing {
		t.Fatalf("CheckFile(missing) = %#v, want *NotFoundError", err)
	}

	if err.Error() != "File not found: "+missing {
		t.Errorf("message = %q", err.Error())
	}
}

func TestOpen_StripsBOMAndSanitizes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.txt", "\ufeff555:1:Zoë\xff\n")

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned unexpected error: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if got := string(data); got != "555:1:Zoë\ufffd\n" {
		t.Errorf("decoded = %q", got)
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrNotRegularFile) {
		t.Errorf("Open error = %v, want ErrNotRegularFile", err)
	}
}
