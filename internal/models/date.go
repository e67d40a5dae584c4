package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates: "2006-01-02".
const DateLayout = "2006-01-02"

// Date is a civil calendar date with day precision — the key type for day
// records. All constructors normalize to midnight UTC so Date values are
// comparable and usable as map keys.
type Date struct {
	time.Time
}

// NewDate builds a Date from year/month/day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date (in the timestamp's
// location) and normalizes to UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("cannot parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// AddDays returns the date n days later (negative n goes back). Uses AddDate
// so month/year boundaries are handled by the calendar, not by hand.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// DaysSince returns the number of whole days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.Time.Sub(other.Time).Hours() / 24)
}

// String returns the date in wire format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// MarshalJSON overrides the embedded time.Time marshaler so Date values
// encode in wire format rather than RFC 3339.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText covers Date-keyed maps, where encoding/json uses the text
// interfaces for keys.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Format(DateLayout)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DatesBetween returns every date in [start, end] ascending. Returns nil when
// end precedes start.
func DatesBetween(start, end Date) []Date {
	if end.Before(start.Time) {
		return nil
	}
	var dates []Date
	for d := start; !d.After(end.Time); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}
