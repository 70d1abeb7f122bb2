package models

// Part describes one workbook written for a flushed batch.
type Part struct {
	Path   string
	Number int
	Rows   int
}
