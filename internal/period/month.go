// Package period holds the calendar-month key used by commission snapshots.
package period

import (
	"errors"
	"time"
)

// Month is a calendar-month key in "2006-01" form, always UTC.
type Month string

const layout = "2006-01"

var ErrInvalidMonth = errors.New("invalid_month")

// Parse validates and normalizes a month key.
func Parse(value string) (Month, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return "", ErrInvalidMonth
	}
	return FromTime(t), nil
}

// FromTime truncates a timestamp to its calendar month.
func FromTime(t time.Time) Month {
	return Month(t.UTC().Format(layout))
}

func (m Month) String() string { return string(m) }

func (m Month) Valid() bool {
	_, err := time.Parse(layout, string(m))
	return err == nil
}

// Prev returns the immediately preceding calendar month.
func (m Month) Prev() Month {
	t, err := time.Parse(layout, string(m))
	if err != nil {
		return ""
	}
	return FromTime(t.AddDate(0, -1, 0))
}

// Time returns the first instant of the month.
func (m Month) Time() time.Time {
	t, _ := time.Parse(layout, string(m))
	return t.UTC()
}
