package ledger

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DATE - Calendar day used as the ledger cutoff key
// =============================================================================

// Date is a calendar day in UTC. Its canonical string form (YYYY-MM-DD)
// sorts lexicographically in chronological order, which is what the SQL
// store relies on for "occurred_on <= ?" comparisons.
type Date struct {
	t time.Time
}

const dateLayout = "2006-01-02"

// Accepted inputs for transaction dates and report cutoffs.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar day. The day is taken in the
// timestamp's own location, matching what a caller writing "2025-03-01T23:00"
// means.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate accepts a date-only string or a full timestamp and returns the
// calendar day it falls on.
func ParseDate(s string) (Date, error) {
	d, _, err := parseTimestamp(s)
	return d, err
}

// parseTimestamp returns both the day and the full instant. A date-only input
// yields midnight UTC as its instant.
func parseTimestamp(s string) (Date, time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), t, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), t, nil
		}
	}
	return Date{}, time.Time{}, &DateError{Input: s}
}

// MustParseDate is for tests and static tables.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(fmt.Sprintf("ledger: %v", err))
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) Time() time.Time { return d.t }
func (d Date) IsZero() bool    { return d.t.IsZero() }
func (d Date) String() string  { return d.t.Format(dateLayout) }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
