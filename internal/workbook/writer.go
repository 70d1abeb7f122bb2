// Package workbook writes batches of normalized records as .xlsx parts.
package workbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"txt2xlsx/internal/config"
	"txt2xlsx/internal/formatter"
	"txt2xlsx/internal/logger"
	"txt2xlsx/internal/models"
)

// widthSampleRows bounds how many rows are measured for column widths.
const widthSampleRows = 10_000

// Writer errors.
var (
	ErrEmptyChunk  = errors.New("chunk has no records")
	ErrInvalidPart = errors.New("part number must be at least 1")
)

// Writer writes one workbook per chunk into a fixed directory.
type Writer struct {
	logger    *logger.Logger
	dir       string
	baseName  string
	extension string
	sheetName string
	creator   string
}

// NewWriter creates the output directory if needed and returns a writer.
func NewWriter(cfg config.OutputConfig, log *logger.Logger) (*Writer, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	if log == nil {
		log = logger.Discard()
	}

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = config.DefaultSheetName
	}

	return &Writer{
		logger:    log,
		dir:       dir,
		baseName:  cfg.BaseName,
		extension: cfg.Extension,
		sheetName: sheet,
		creator:   "txt2xlsx",
	}, nil
}

// PartPath returns the file path for a 1-based part number.
func (w *Writer) PartPath(part int) string {
	return filepath.Join(w.dir, w.baseName+"_"+strconv.Itoa(part)+w.extension)
}

// WriteChunk writes records as part number part. The header row is
// followed by one row per record in input order.
func (w *Writer) WriteChunk(records []models.Record, part int) (models.Part, error) {
	if len(records) == 0 {
		return models.Part{}, ErrEmptyChunk
	}

	if part < 1 {
		return models.Part{}, fmt.Errorf("%w: %d", ErrInvalidPart, part)
	}

	dest := w.PartPath(part)
	start := time.Now()

	f, err := w.build(records, part)
	if err != nil {
		return models.Part{}, fmt.Errorf("build %s: %w", filepath.Base(dest), err)
	}
	defer f.Close()

	if err := w.save(f, dest); err != nil {
		return models.Part{}, fmt.Errorf("save %s: %w", filepath.Base(dest), err)
	}

	w.logger.Debug("workbook written",
		"part", part,
		"path", dest,
		"rows", len(records),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return models.Part{Number: part, Path: dest, Rows: len(records)}, nil
}

func (w *Writer) build(records []models.Record, part int) (*excelize.File, error) {
	f := excelize.NewFile()

	if w.sheetName != config.DefaultSheetName {
		if err := f.SetSheetName(config.DefaultSheetName, w.sheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(w.sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stream writer: %w", err)
	}

	if err := w.writeRows(f, sw, records); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:     w.creator,
		Title:       fmt.Sprintf("%s part %d", w.baseName, part),
		Description: fmt.Sprintf("%d contact rows", len(records)),
		Created:     time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("set document properties: %w", err)
	}

	return f, nil
}

func (w *Writer) writeRows(f *excelize.File, sw *excelize.StreamWriter, records []models.Record) error {
	// Column widths must be set before the first row
	for i, width := range formatter.ColumnWidths(models.Header, sampleFields(records)) {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	header := make([]interface{}, len(models.Header))
	for i, name := range models.Header {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}

	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := sw.SetRow(cell, rec.Cells()); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}

	return nil
}

// save writes f next to dest and renames it into place.
// f.Path picks the package content type (.xlsm is macro-enabled).
func (w *Writer) save(f *excelize.File, dest string) error {
	f.Path = dest

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, dest); err != nil {
		return err
	}

	committed = true

	return nil
}

func sampleFields(records []models.Record) [][]string {
	n := min(len(records), widthSampleRows)

	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = records[i].Fields()
	}

	return rows
}
