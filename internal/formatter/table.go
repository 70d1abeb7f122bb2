// Package formatter provides display-width aware layout for records,
// both as aligned text tables and as spreadsheet column widths.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Spreadsheet column width bounds, in character units.
const (
	MinColumnWidth = 10.0
	MaxColumnWidth = 60.0
	columnPadding  = 2.0
)

// Table renders header and rows as a pipe-delimited table with columns
// padded to their display width. Wide (CJK) characters count as two cells.
func Table(header []string, rows [][]string) string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return ""
	}

	widths := displayWidths(colCount, header, rows)

	// Keep separator at least "---"
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, renderRow(header, widths, false))
	lines = append(lines, renderRow(nil, widths, true))

	for _, row := range rows {
		lines = append(lines, renderRow(row, widths, false))
	}

	return strings.Join(lines, "\n") + "\n"
}

// ColumnWidths returns a spreadsheet width per column sized to the widest
// value, clamped to [MinColumnWidth, MaxColumnWidth].
func ColumnWidths(header []string, rows [][]string) []float64 {
	widths := displayWidths(len(header), header, rows)

	out := make([]float64, len(widths))
	for i, w := range widths {
		out[i] = min(max(float64(w)+columnPadding, MinColumnWidth), MaxColumnWidth)
	}

	return out
}

func displayWidths(colCount int, header []string, rows [][]string) []int {
	widths := make([]int, colCount)

	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	measure(header)

	for _, row := range rows {
		measure(row)
	}

	return widths
}

func renderRow(row []string, widths []int, separator bool) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range widths {
		sb.WriteString(" ")

		if separator {
			sb.WriteString(strings.Repeat("-", width))
		} else {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			if padding := width - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
