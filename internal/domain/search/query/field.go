package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/kinsearch/internal/domain"
)

// Field selects what a search looks at.
type Field string

// Search fields. FieldText is the free-text search across every record
// kind. The others look at a single attribute of deceased records.
const (
	FieldText     Field = "text"
	FieldName     Field = "name"
	FieldLocation Field = "location"
	FieldDate     Field = "date"
)

// DateLayout is the accepted form of a date-of-death query.
const DateLayout = "2006-01-02"

// ParseField parses a field name. Empty means FieldText.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FieldText, nil
	case FieldText, FieldName, FieldLocation, FieldDate:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidField, s)
	}
}

// ParseDate parses a date-of-death query as a UTC calendar day.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be %s", domain.ErrInvalidField, DateLayout)
	}
	return d, nil
}

// SameDay reports whether t falls on the calendar day d, both read in UTC.
func SameDay(t, d time.Time) bool {
	if t.IsZero() {
		return false
	}
	ty, tm, td := t.UTC().Date()
	dy, dm, dd := d.UTC().Date()
	return ty == dy && tm == dm && td == dd
}
