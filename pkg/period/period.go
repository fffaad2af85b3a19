package period

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the granularity of a period.
type Unit string

const (
	UnitDay      Unit = "day"
	UnitWeek     Unit = "week"
	UnitMonth    Unit = "month"
	UnitYear     Unit = "year"
	UnitEternity Unit = "eternity"
)

// validUnits maps accepted unit strings.
var validUnits = map[Unit]bool{
	UnitDay:      true,
	UnitWeek:     true,
	UnitMonth:    true,
	UnitYear:     true,
	UnitEternity: true,
}

// Period is a typed span of time: a unit, a start instant and a positive
// count of units. Two periods are equal iff all three fields match, so Period
// is usable as a map key.
type Period struct {
	Unit  Unit
	Start Instant
	Size  int
}

// Eternity is the period covering all of time.
var Eternity = Period{Unit: UnitEternity, Size: 1}

// NewPeriod builds a period from its triple. Size must be positive for
// non-eternity units.
func NewPeriod(unit Unit, start Instant, size int) (Period, error) {
	if !validUnits[unit] {
		return Period{}, &FormatError{Input: string(unit), Reason: "unknown period unit"}
	}
	if unit == UnitEternity {
		return Eternity, nil
	}
	if size <= 0 {
		return Period{}, &FormatError{
			Input:  fmt.Sprintf("%s:%s:%d", unit, start, size),
			Reason: "period size must be a positive integer",
		}
	}
	return Period{Unit: unit, Start: start, Size: size}, nil
}

// MonthPeriod is a convenience constructor for a single calendar month.
func MonthPeriod(year, month int) Period {
	return Period{Unit: UnitMonth, Start: NewInstant(year, month, 1), Size: 1}
}

// YearPeriod is a convenience constructor for a single calendar year.
func YearPeriod(year int) Period {
	return Period{Unit: UnitYear, Start: NewInstant(year, 1, 1), Size: 1}
}

// Parse parses a canonical period string. Accepted forms:
//
//   - "YYYY"            a calendar year
//   - "YYYY-MM"         a calendar month
//   - "YYYY-MM-DD"      a single day
//   - "unit:start"      one unit starting at the given instant
//   - "unit:start:size" size units starting at the given instant
//   - "ETERNITY"        all of time
//
// Unit names are case-insensitive. Malformed input fails with *FormatError.
func Parse(s string) (Period, error) {
	if strings.EqualFold(s, string(UnitEternity)) {
		return Eternity, nil
	}

	if strings.Contains(s, ":") {
		return parseComplex(s)
	}

	switch strings.Count(s, "-") {
	case 0:
		year, err := strconv.Atoi(s)
		if err != nil || len(s) != 4 {
			return Period{}, &FormatError{Input: s, Reason: "expected a year formatted YYYY"}
		}
		return YearPeriod(year), nil
	case 1:
		parts := strings.SplitN(s, "-", 2)
		year, errY := strconv.Atoi(parts[0])
		month, errM := strconv.Atoi(parts[1])
		if errY != nil || errM != nil || len(parts[0]) != 4 || len(parts[1]) != 2 || month < 1 || month > 12 {
			return Period{}, &FormatError{Input: s, Reason: "expected a month formatted YYYY-MM"}
		}
		return MonthPeriod(year, month), nil
	case 2:
		start, err := ParseInstant(s)
		if err != nil {
			return Period{}, &FormatError{Input: s, Reason: "expected a day formatted YYYY-MM-DD"}
		}
		return Period{Unit: UnitDay, Start: start, Size: 1}, nil
	default:
		return Period{}, &FormatError{Input: s, Reason: "unrecognized period format"}
	}
}

// parseComplex parses the "unit:start" and "unit:start:size" forms.
func parseComplex(s string) (Period, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Period{}, &FormatError{Input: s, Reason: "expected unit:start or unit:start:size"}
	}

	unit := Unit(strings.ToLower(parts[0]))
	if !validUnits[unit] || unit == UnitEternity {
		return Period{}, &FormatError{Input: s, Reason: fmt.Sprintf("unknown period unit %q", parts[0])}
	}

	start, err := parseStart(parts[1])
	if err != nil {
		return Period{}, &FormatError{Input: s, Reason: fmt.Sprintf("invalid start instant %q", parts[1])}
	}

	size := 1
	if len(parts) == 3 {
		size, err = strconv.Atoi(parts[2])
		if err != nil || size <= 0 {
			return Period{}, &FormatError{Input: s, Reason: fmt.Sprintf("invalid size %q, expected a positive integer", parts[2])}
		}
	}

	return Period{Unit: unit, Start: start, Size: size}, nil
}

// parseStart parses a start instant at year, month or day granularity,
// defaulting omitted components to the first month or day.
func parseStart(s string) (Instant, error) {
	switch strings.Count(s, "-") {
	case 0:
		year, err := strconv.Atoi(s)
		if err != nil || len(s) != 4 {
			return Instant{}, fmt.Errorf("invalid year %q", s)
		}
		return NewInstant(year, 1, 1), nil
	case 1:
		parts := strings.SplitN(s, "-", 2)
		year, errY := strconv.Atoi(parts[0])
		month, errM := strconv.Atoi(parts[1])
		if errY != nil || errM != nil || month < 1 || month > 12 {
			return Instant{}, fmt.Errorf("invalid year-month %q", s)
		}
		return NewInstant(year, month, 1), nil
	default:
		return ParseInstant(s)
	}
}

// String returns the canonical form of the period. Single calendar years,
// months and days use the short date forms; everything else uses
// unit:start:size. Parse(p.String()) always round-trips.
func (p Period) String() string {
	switch {
	case p.Unit == UnitEternity:
		return "ETERNITY"
	case p.Unit == UnitYear && p.Size == 1 && p.Start.Month == 1 && p.Start.Day == 1:
		return fmt.Sprintf("%04d", p.Start.Year)
	case p.Unit == UnitMonth && p.Size == 1 && p.Start.Day == 1:
		return fmt.Sprintf("%04d-%02d", p.Start.Year, p.Start.Month)
	case p.Unit == UnitDay && p.Size == 1:
		return p.Start.String()
	default:
		return fmt.Sprintf("%s:%s:%d", p.Unit, p.startString(), p.Size)
	}
}

// startString renders the start instant at the period's natural granularity.
func (p Period) startString() string {
	switch p.Unit {
	case UnitYear:
		if p.Start.Month == 1 && p.Start.Day == 1 {
			return fmt.Sprintf("%04d", p.Start.Year)
		}
		return p.Start.String()
	case UnitMonth:
		if p.Start.Day == 1 {
			return fmt.Sprintf("%04d-%02d", p.Start.Year, p.Start.Month)
		}
		return p.Start.String()
	default:
		return p.Start.String()
	}
}

// StartInstant returns the first instant covered by the period.
// For eternity periods this is the zero Instant.
func (p Period) StartInstant() Instant {
	return p.Start
}

// StopInstant returns the last instant covered by the period.
func (p Period) StopInstant() Instant {
	switch p.Unit {
	case UnitDay:
		return p.Start.AddDays(p.Size - 1)
	case UnitWeek:
		return p.Start.AddDays(7*p.Size - 1)
	case UnitMonth:
		return p.Start.AddMonths(p.Size).AddDays(-1)
	case UnitYear:
		return p.Start.AddYears(p.Size).AddDays(-1)
	default:
		// Eternity has no last instant; report the far future.
		return Instant{Year: 9999, Month: 12, Day: 31}
	}
}

// Contains reports whether the period's span covers the given instant.
// Eternity periods contain every instant.
func (p Period) Contains(i Instant) bool {
	if p.Unit == UnitEternity {
		return true
	}
	return p.Start.Compare(i) <= 0 && i.Compare(p.StopInstant()) <= 0
}

// ContainsPeriod reports whether the period's span fully covers other.
func (p Period) ContainsPeriod(other Period) bool {
	if p.Unit == UnitEternity {
		return true
	}
	if other.Unit == UnitEternity {
		return false
	}
	return p.Contains(other.StartInstant()) && p.Contains(other.StopInstant())
}
