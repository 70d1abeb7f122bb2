// Package metadata records and verifies checksums of generated workbooks.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest verification errors.
var (
	ErrMissingPart  = errors.New("part file missing")
	ErrHashMismatch = errors.New("hash mismatch")
	ErrRowMismatch  = errors.New("row count mismatch")
)

// Manifest describes one conversion run and the parts it produced.
type Manifest struct {
	CreatedAt time.Time `yaml:"created_at"`
	RunID     string    `yaml:"run_id"`
	Source    string    `yaml:"source"`
	Parts     []Entry   `yaml:"parts"`
	Lines     int       `yaml:"lines"`
	Skipped   int       `yaml:"skipped"`
	Rows      int       `yaml:"rows"`
}

// Entry is one workbook listed in a manifest. File is relative to the manifest.
type Entry struct {
	File   string `yaml:"file"`
	SHA256 string `yaml:"sha256"`
	Part   int    `yaml:"part"`
	Rows   int    `yaml:"rows"`
}

// New creates an empty manifest for a run.
func New(runID, source string) *Manifest {
	return &Manifest{
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		RunID:     runID,
		Source:    source,
	}
}

// HashFile computes the SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Add hashes the part at path and appends it to the manifest.
func (m *Manifest) Add(part int, path string, rows int) error {
	sum, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hash part %d: %w", part, err)
	}

	m.Parts = append(m.Parts, Entry{
		File:   filepath.Base(path),
		SHA256: sum,
		Part:   part,
		Rows:   rows,
	})
	m.Rows += rows

	return nil
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Load reads a manifest from a YAML file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Verify checks every listed part in dir against its recorded checksum.
// It returns the first failure found.
func (m *Manifest) Verify(dir string) error {
	total := 0

	for _, e := range m.Parts {
		path := filepath.Join(dir, e.File)

		sum, err := HashFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: part %d (%s)", ErrMissingPart, e.Part, e.File)
			}

			return fmt.Errorf("hash part %d: %w", e.Part, err)
		}

		if sum != e.SHA256 {
			return fmt.Errorf("%w: part %d (%s): expected %s, got %s", ErrHashMismatch, e.Part, e.File, e.SHA256, sum)
		}

		total += e.Rows
	}

	if total != m.Rows {
		return fmt.Errorf("%w: parts sum to %d, manifest says %d", ErrRowMismatch, total, m.Rows)
	}

	return nil
}
