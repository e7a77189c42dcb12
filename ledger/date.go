package ledger

import (
	"fmt"
	"time"
)

// DateFormat is the ISO 8601 layout used for all dates in ledger output.
const DateFormat = "2006-01-02"

// Date represents a calendar date in ISO 8601 format (YYYY-MM-DD). The zero
// Date sorts before every real date and is used as the "keep everything"
// cutoff in incremental mode.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO 8601 date string (YYYY-MM-DD).
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date: %s", value)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateFormat)
}

// Compare returns -1, 0 or 1 depending on whether d is before, equal to or
// after x.
func (d Date) Compare(x Date) int {
	return d.Time.Compare(x.Time)
}
