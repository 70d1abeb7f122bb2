// Package pipeline drives the read → normalize → batch → write loop.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"txt2xlsx/internal/logger"
	"txt2xlsx/internal/models"
	"txt2xlsx/internal/normalizer"
	"txt2xlsx/internal/source"
)

// initialBatchCap caps the up-front allocation of a batch.
const initialBatchCap = 64 * 1024

// ErrInvalidRowLimit is returned when the driver is built without a positive row limit.
var ErrInvalidRowLimit = errors.New("row limit must be at least 1")

// ChunkWriter persists one batch as a numbered part.
type ChunkWriter interface {
	WriteChunk(records []models.Record, part int) (models.Part, error)
}

// Summary describes a completed run.
type Summary struct {
	Parts   []models.Part
	Lines   int
	Skipped int
	Rows    int
	Elapsed time.Duration
}

type state int

const (
	stateReading state = iota
	stateFlushing
	stateDone
)

func (s state) String() string {
	switch s {
	case stateReading:
		return "reading"
	case stateFlushing:
		return "flushing"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Driver batches normalized records and hands full batches to a ChunkWriter.
type Driver struct {
	processor *normalizer.Processor
	writer    ChunkWriter
	logger    *logger.Logger
	onFlush   func(models.Part)
	rowLimit  int
}

// NewDriver creates a driver writing at most rowLimit records per part.
func NewDriver(processor *normalizer.Processor, writer ChunkWriter, rowLimit int, log *logger.Logger) (*Driver, error) {
	if rowLimit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRowLimit, rowLimit)
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Driver{
		processor: processor,
		writer:    writer,
		logger:    log,
		rowLimit:  rowLimit,
	}, nil
}

// OnFlush registers a callback invoked after each part is written.
func (d *Driver) OnFlush(fn func(models.Part)) {
	d.onFlush = fn
}

// RunFile opens path and runs the pipeline over it. The file is closed on
// every return path.
func (d *Driver) RunFile(ctx context.Context, path string) (*Summary, error) {
	f, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d.logger.Info("reading input", "path", path)

	return d.Run(ctx, f)
}

// Run consumes r line by line. Parts are numbered from 1 in flush order;
// a non-empty remainder is flushed when the input is exhausted.
func (d *Driver) Run(ctx context.Context, r io.Reader) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	var stats normalizer.Stats

	next, stop := iter.Pull2(d.processor.Records(r, &stats))
	defer stop()

	batch := make([]models.Record, 0, min(d.rowLimit, initialBatchCap))
	part := 1
	exhausted := false
	st := stateReading

	defer func() {
		summary.Lines = stats.Lines
		summary.Skipped = stats.Skipped
		summary.Elapsed = time.Since(start)
	}()

	for st != stateDone {
		switch st {
		case stateReading:
			if err := ctx.Err(); err != nil {
				return summary, fmt.Errorf("interrupted after %d rows: %w", summary.Rows, err)
			}

			rec, err, ok := next()
			if !ok {
				exhausted = true

				if len(batch) > 0 {
					st = stateFlushing
				} else {
					st = stateDone
				}

				continue
			}

			if err != nil {
				return summary, fmt.Errorf("read input: %w", err)
			}

			batch = append(batch, rec)

			if len(batch) == d.rowLimit {
				st = stateFlushing
			}

		case stateFlushing:
			written, err := d.writer.WriteChunk(batch, part)
			if err != nil {
				return summary, fmt.Errorf("write part %d: %w", part, err)
			}

			summary.Parts = append(summary.Parts, written)
			summary.Rows += written.Rows

			d.logger.Info("part written", "part", written.Number, "path", written.Path, "rows", written.Rows)

			if d.onFlush != nil {
				d.onFlush(written)
			}

			part++

			clear(batch)
			batch = batch[:0]

			if exhausted {
				st = stateDone
			} else {
				st = stateReading
			}
		}
	}

	d.logger.Debug("input exhausted", "lines", stats.Lines, "skipped", stats.Skipped)

	return summary, nil
}
