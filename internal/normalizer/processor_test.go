package normalizer

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"txt2xlsx/internal/models"
)

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(DefaultOptions())

	tests := []struct {
		name   string
		line   string
		want   models.Record
		wantOK bool
	}{
		{
			name:   "Well-formed line",
			line:   "5551234:100:John:Smith:male:Springfield, USA:single\n",
			want:   models.Record{Phone: "5551234", FirstName: "John", LastName: "Smith", City: "USA: Springfield"},
			wantOK: true,
		},
		{
			name:   "CRLF terminator",
			line:   "5551234:100:John:Smith:male:Boston\r\n",
			want:   models.Record{Phone: "5551234", FirstName: "John", LastName: "Smith", City: "Boston"},
			wantOK: true,
		},
		{
			name:   "Repaired line",
			line:   "5551234 100 John:Smith:female:Springfield, USA\n",
			want:   models.Record{Phone: "5551234", FirstName: "John", LastName: "Smith", City: "USA: Springfield"},
			wantOK: true,
		},
		{
			name:   "No location",
			line:   "5551234:100:John:Smith:male:09/01/1971:married\n",
			want:   models.Record{Phone: "5551234", FirstName: "John", LastName: "Smith"},
			wantOK: true,
		},
		{
			name:   "Malformed line",
			line:   "garbage line\n",
			wantOK: false,
		},
		{
			name:   "Empty line",
			line:   "\n",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Process(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("Process ok = %v, want %v", ok, tt.wantOK)
			}

			if got != tt.want {
				t.Errorf("Process = %+v, want %+v", got, tt.want)
			}

			if ok && len(got.Fields()) != len(models.Header) {
				t.Errorf("record has %d fields", len(got.Fields()))
			}
		})
	}
}

func TestProcessor_Records(t *testing.T) {
	p := NewProcessor(DefaultOptions())

	input := strings.Join([]string{
		"1:a:Ann:Lee:female:Paris, France",
		"broken",
		"2:b:Bob:Ray:male:Rome",
		"",
		"3:c:Cid:Fox:male:single:Oslo, Norway",
	}, "\n")

	var stats Stats

	var got []models.Record

	for rec, err := range p.Records(strings.NewReader(input), &stats) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got = append(got, rec)
	}

	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}

	if got[0].City != "France: Paris" || got[1].City != "Rome" || got[2].City != "Norway: Oslo" {
		t.Errorf("records out of order or wrong: %+v", got)
	}

	if stats.Lines != 5 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want Lines=5 Skipped=2", stats)
	}

	if stats.Lines-stats.Skipped != len(got) {
		t.Errorf("output rows %d != lines - skipped", len(got))
	}
}

func TestProcessor_Records_EarlyStop(t *testing.T) {
	p := NewProcessor(DefaultOptions())
	input := "1:a:A:B:m:X\n2:a:A:B:m:Y\n3:a:A:B:m:Z\n"

	var stats Stats

	n := 0
	for range p.Records(strings.NewReader(input), &stats) {
		n++
		if n == 1 {
			break
		}
	}

	if stats.Lines != 1 {
		t.Errorf("stream read %d lines after break, want 1", stats.Lines)
	}
}

func TestProcessor_Records_ReadError(t *testing.T) {
	p := NewProcessor(DefaultOptions())
	errBoom := errors.New("disk gone")

	r := io.MultiReader(strings.NewReader("1:a:A:B:m:X\n"), iotest.ErrReader(errBoom))

	var records int

	var gotErr error

	for _, err := range p.Records(r, nil) {
		if err != nil {
			gotErr = err
			break
		}

		records++
	}

	if records != 1 {
		t.Errorf("records = %d, want 1", records)
	}

	if !errors.Is(gotErr, errBoom) {
		t.Errorf("error = %v, want %v", gotErr, errBoom)
	}
}
