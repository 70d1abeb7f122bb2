package normalizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrTooFewFields is returned when a line cannot cover every configured column.
var ErrTooFewFields = errors.New("too few fields")

// Validator checks field sufficiency and repairs lines with lost leading delimiters.
type Validator struct {
	delimiter string
	maxIndex  int
}

// NewValidator creates a new validator instance.
func NewValidator(opts Options) *Validator {
	return &Validator{
		delimiter: opts.Delimiter,
		maxIndex:  opts.Columns.MaxColumn(),
	}
}

// Validate reports whether fields reach every configured column.
func (v *Validator) Validate(fields []string) error {
	if len(fields) <= v.maxIndex {
		return fmt.Errorf("%w: got %d, need %d", ErrTooFewFields, len(fields), v.maxIndex+1)
	}

	return nil
}

// Split splits a line into fields, repairing it once if the naive split is short.
func (v *Validator) Split(line string) ([]string, error) {
	fields := strings.Split(line, v.delimiter)
	if v.Validate(fields) == nil {
		return fields, nil
	}

	fields = strings.Split(v.Repair(line), v.delimiter)
	if err := v.Validate(fields); err != nil {
		return nil, err
	}

	return fields, nil
}

// Repair replaces the first two runs of whitespace with the delimiter.
// It targets exports where the phone/id separators were lost.
func (v *Validator) Repair(line string) string {
	var sb strings.Builder

	sb.Grow(len(line))

	replaced := 0
	inRun := false

	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])

		if replaced < 2 && isSpace(r) {
			if !inRun {
				sb.WriteString(v.delimiter)

				inRun = true
			}

			i += size

			continue
		}

		if inRun {
			inRun = false
			replaced++
		}

		sb.WriteString(line[i : i+size])
		i += size
	}

	return sb.String()
}

// isSpace reports Unicode whitespace plus the ASCII file, group, record and
// unit separators (0x1C-0x1F), which exports use as field padding.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}
