package normalizer

import (
	"strings"

	"txt2xlsx/internal/models"
)

// Transformer extracts the kept columns from a sufficient field vector.
type Transformer struct {
	skip      map[string]struct{}
	phone     int
	firstName int
	lastName  int
	cityStart int
}

// NewTransformer creates a new transformer instance.
func NewTransformer(opts Options) *Transformer {
	return &Transformer{
		skip:      opts.skipSet(),
		phone:     opts.Columns.Phone,
		firstName: opts.Columns.FirstName,
		lastName:  opts.Columns.LastName,
		cityStart: opts.Columns.CityStart,
	}
}

// Transform builds a record from fields. Fields must already be validated.
func (t *Transformer) Transform(fields []string) models.Record {
	return models.Record{
		Phone:     trimSpace(fields[t.phone]),
		FirstName: trimSpace(fields[t.firstName]),
		LastName:  trimSpace(fields[t.lastName]),
		City:      NormalizeLocation(t.ExtractLocation(fields)),
	}
}

// ExtractLocation returns the first field from the city start index that is
// not blank, not a skip token, not date-like and not numeric-like.
func (t *Transformer) ExtractLocation(fields []string) string {
	if t.cityStart >= len(fields) {
		return ""
	}

	for _, field := range fields[t.cityStart:] {
		value := trimSpace(field)
		if value == "" {
			continue
		}

		if _, ok := t.skip[strings.ToLower(value)]; ok {
			continue
		}

		if isDateLike(value) {
			continue
		}

		if isNumericLike(value) {
			continue
		}

		return value
	}

	return ""
}

// NormalizeLocation turns "City, Country" or "City, Region, Country" into
// "Country: City". Values without a comma are returned unchanged.
func NormalizeLocation(location string) string {
	if !strings.Contains(location, ",") {
		return location
	}

	var segments []string

	for seg := range strings.SplitSeq(location, ",") {
		if seg = trimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}

	if len(segments) == 0 {
		return ""
	}

	return segments[len(segments)-1] + ": " + segments[0]
}

// isDateLike matches values such as 09/01/1971 or 12/25.
func isDateLike(value string) bool {
	return strings.Contains(value, "/")
}

// isNumericLike matches values made only of ASCII digits and hyphens.
func isNumericLike(value string) bool {
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < '0' || c > '9') && c != '-' {
			return false
		}
	}

	return value != ""
}
