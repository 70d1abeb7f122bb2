// Package models defines the data structures shared across the conversion pipeline.
package models

// Header is the header row written at the top of every workbook.
var Header = []string{"Phone", "FirstName", "LastName", "City"}

// Record is one normalized output row.
// Fields are always emitted in the order Phone, FirstName, LastName, City.
type Record struct {
	Phone     string
	FirstName string
	LastName  string
	City      string
}

// Fields returns the record values in header order.
func (r Record) Fields() []string {
	return []string{r.Phone, r.FirstName, r.LastName, r.City}
}

// Cells returns the record values in header order as spreadsheet cell values.
func (r Record) Cells() []interface{} {
	return []interface{}{r.Phone, r.FirstName, r.LastName, r.City}
}
