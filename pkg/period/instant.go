package period

import (
	"fmt"
	"time"
)

// Instant is a single calendar date with day granularity.
// Instants are comparable with == and totally ordered by Compare.
type Instant struct {
	Year  int
	Month int
	Day   int
}

// NewInstant builds an instant from a year, month and day.
// The date is normalized through the calendar, so NewInstant(2024, 2, 30)
// yields 2024-03-01.
func NewInstant(year, month, day int) Instant {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return Instant{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseInstant parses a YYYY-MM-DD date string.
func ParseInstant(s string) (Instant, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Instant{}, &FormatError{Input: s, Reason: "expected an instant formatted YYYY-MM-DD"}
	}
	return Instant{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// String returns the instant formatted as YYYY-MM-DD.
func (i Instant) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", i.Year, i.Month, i.Day)
}

// Compare returns -1, 0 or +1 depending on whether i is before, equal to or
// after other.
func (i Instant) Compare(other Instant) int {
	switch {
	case i.Year != other.Year:
		return sign(i.Year - other.Year)
	case i.Month != other.Month:
		return sign(i.Month - other.Month)
	case i.Day != other.Day:
		return sign(i.Day - other.Day)
	default:
		return 0
	}
}

// Before reports whether i is strictly before other.
func (i Instant) Before(other Instant) bool { return i.Compare(other) < 0 }

// After reports whether i is strictly after other.
func (i Instant) After(other Instant) bool { return i.Compare(other) > 0 }

// AddDays returns the instant n days after i (n may be negative).
func (i Instant) AddDays(n int) Instant {
	t := i.time().AddDate(0, 0, n)
	return Instant{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// AddMonths returns the instant n months after i (n may be negative).
// Dates are normalized through the calendar.
func (i Instant) AddMonths(n int) Instant {
	t := i.time().AddDate(0, n, 0)
	return Instant{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// AddYears returns the instant n years after i (n may be negative).
func (i Instant) AddYears(n int) Instant {
	t := i.time().AddDate(n, 0, 0)
	return Instant{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func (i Instant) time() time.Time {
	return time.Date(i.Year, time.Month(i.Month), i.Day, 0, 0, 0, 0, time.UTC)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
