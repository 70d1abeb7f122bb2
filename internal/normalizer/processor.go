// Package normalizer turns raw delimited lines into normalized contact records.
package normalizer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"txt2xlsx/internal/models"
)

const readBufferSize = 256 * 1024

// Stats counts lines consumed by a record stream.
type Stats struct {
	Lines   int
	Skipped int
}

// Processor handles line validation and transformation.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor(opts Options) *Processor {
	return &Processor{
		validator:   NewValidator(opts),
		transformer: NewTransformer(opts),
	}
}

// Process normalizes one raw line. It returns false when the line is
// malformed and should be dropped.
func (p *Processor) Process(line string) (models.Record, bool) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	fields, err := p.validator.Split(line)
	if err != nil {
		return models.Record{}, false
	}

	return p.transformer.Transform(fields), true
}

// Records returns a single-pass stream of normalized records read from r.
// Malformed lines are dropped and counted in stats, which may be nil.
// A read error is yielded once and ends the stream.
func (p *Processor) Records(r io.Reader, stats *Stats) iter.Seq2[models.Record, error] {
	if stats == nil {
		stats = &Stats{}
	}

	return func(yield func(models.Record, error) bool) {
		br := bufio.NewReaderSize(r, readBufferSize)

		for {
			line, err := br.ReadString('\n')

			if line != "" {
				stats.Lines++

				if rec, ok := p.Process(line); ok {
					if !yield(rec, nil) {
						return
					}
				} else {
					stats.Skipped++
				}
			}

			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield(models.Record{}, fmt.Errorf("read line %d: %w", stats.Lines+1, err))
				}

				return
			}
		}
	}
}
