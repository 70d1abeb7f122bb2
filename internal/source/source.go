// Package source locates and opens the delimited input file.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Input discovery errors.
var (
	ErrNoInput        = errors.New("no input file found")
	ErrAmbiguousInput = errors.New("more than one input file found")
	ErrNotRegularFile = errors.New("input is not a regular file")
	ErrInvalidPattern = errors.New("input extension must not contain path separators")
)

// Discover returns the single regular file in dir whose name ends with ext.
// Matching is case-sensitive.
func Discover(dir, ext string) (string, error) {
	if strings.ContainsAny(ext, `/\`) {
		return "", ErrInvalidPattern
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
	if err != nil {
		return "", fmt.Errorf("search %s: %w", dir, err)
	}

	var files []string

	for _, m := range matches {
		info, statErr := os.Stat(m)
		if statErr != nil || !info.Mode().IsRegular() {
			continue
		}

		files = append(files, m)
	}

	sort.Strings(files)

	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w: no *%s file in %s", ErrNoInput, ext, dir)
	case 1:
		return files[0], nil
	default:
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = filepath.Base(f)
		}

		return "", fmt.Errorf("%w: %s", ErrAmbiguousInput, strings.Join(names, ", "))
	}
}

// NotFoundError reports an input path that is missing or not a regular file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "File not found: " + e.Path
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotRegularFile
}

// CheckFile verifies that path names an existing regular file.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return &NotFoundError{Path: path}
	}

	return nil
}

// File is an opened input decoded as UTF-8.
type File struct {
	io.Reader
	f *os.File
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}

// Open opens path for streaming. A leading UTF-8 BOM is dropped and
// invalid byte sequences are replaced with U+FFFD.
func Open(path string) (*File, error) {
	if err := CheckFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	return &File{
		Reader: NewReader(f),
		f:      f,
	}, nil
}

// NewReader wraps r with BOM removal and UTF-8 sanitizing.
func NewReader(r io.Reader) io.Reader {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(r, dec)
}
