package period

import (
	"errors"
	"testing"
)

// TestParse_CanonicalForms tests parsing of all accepted period string forms.
func TestParse_CanonicalForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Period
	}{
		{
			name:  "calendar year",
			input: "2024",
			want:  Period{Unit: UnitYear, Start: NewInstant(2024, 1, 1), Size: 1},
		},
		{
			name:  "calendar month",
			input: "2024-01",
			want:  Period{Unit: UnitMonth, Start: NewInstant(2024, 1, 1), Size: 1},
		},
		{
			name:  "single day",
			input: "2024-01-15",
			want:  Period{Unit: UnitDay, Start: NewInstant(2024, 1, 15), Size: 1},
		},
		{
			name:  "three months",
			input: "month:2024-01:3",
			want:  Period{Unit: UnitMonth, Start: NewInstant(2024, 1, 1), Size: 3},
		},
		{
			name:  "unit and start without size",
			input: "month:2024-02",
			want:  Period{Unit: UnitMonth, Start: NewInstant(2024, 2, 1), Size: 1},
		},
		{
			name:  "two years",
			input: "year:2023:2",
			want:  Period{Unit: UnitYear, Start: NewInstant(2023, 1, 1), Size: 2},
		},
		{
			name:  "week",
			input: "week:2024-01-01:2",
			want:  Period{Unit: UnitWeek, Start: NewInstant(2024, 1, 1), Size: 2},
		},
		{
			name:  "eternity literal",
			input: "ETERNITY",
			want:  Eternity,
		},
		{
			name:  "eternity lowercase",
			input: "eternity",
			want:  Eternity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

// TestParse_Malformed tests that malformed period strings fail with a
// FormatError carrying a descriptive message.
func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"24",
		"2024-13",
		"2024-1",
		"2024-01-32",
		"fortnight:2024-01",
		"month:2024-01:0",
		"month:2024-01:-2",
		"month:2024-01:x",
		"month:notadate",
		"eternity:2024:1",
		"month:2024-01:3:4",
		"2024-01-15-16",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", input)
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("Parse(%q) error = %T, want *FormatError", input, err)
			}
		})
	}
}

// TestPeriod_StringRoundTrip tests that String output parses back to the
// identical period.
func TestPeriod_StringRoundTrip(t *testing.T) {
	periods := []Period{
		YearPeriod(2024),
		MonthPeriod(2024, 7),
		{Unit: UnitDay, Start: NewInstant(2024, 2, 29), Size: 1},
		{Unit: UnitMonth, Start: NewInstant(2024, 1, 1), Size: 3},
		{Unit: UnitYear, Start: NewInstant(2020, 1, 1), Size: 5},
		{Unit: UnitWeek, Start: NewInstant(2024, 1, 1), Size: 2},
		{Unit: UnitDay, Start: NewInstant(2024, 1, 1), Size: 14},
		Eternity,
	}

	for _, p := range periods {
		t.Run(p.String(), func(t *testing.T) {
			parsed, err := Parse(p.String())
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", p.String(), err)
			}
			if parsed != p {
				t.Errorf("Parse(String()) = %+v, want %+v", parsed, p)
			}
		})
	}
}

// TestPeriod_StopInstant tests span end computation across units.
func TestPeriod_StopInstant(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		want   Instant
	}{
		{"single month", MonthPeriod(2024, 1), NewInstant(2024, 1, 31)},
		{"leap february", MonthPeriod(2024, 2), NewInstant(2024, 2, 29)},
		{"quarter", Period{Unit: UnitMonth, Start: NewInstant(2024, 1, 1), Size: 3}, NewInstant(2024, 3, 31)},
		{"year", YearPeriod(2024), NewInstant(2024, 12, 31)},
		{"week", Period{Unit: UnitWeek, Start: NewInstant(2024, 1, 1), Size: 1}, NewInstant(2024, 1, 7)},
		{"ten days", Period{Unit: UnitDay, Start: NewInstant(2024, 1, 25), Size: 10}, NewInstant(2024, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.StopInstant(); got != tt.want {
				t.Errorf("StopInstant() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestPeriod_Contains tests instant and period containment, including the
// eternity rules.
func TestPeriod_Contains(t *testing.T) {
	year := YearPeriod(2024)

	if !year.Contains(NewInstant(2024, 1, 1)) {
		t.Error("year should contain its first day")
	}
	if !year.Contains(NewInstant(2024, 12, 31)) {
		t.Error("year should contain its last day")
	}
	if year.Contains(NewInstant(2025, 1, 1)) {
		t.Error("year should not contain the following day")
	}
	if year.Contains(NewInstant(2023, 12, 31)) {
		t.Error("year should not contain the preceding day")
	}

	if !Eternity.Contains(NewInstant(1800, 1, 1)) {
		t.Error("eternity should contain every instant")
	}

	if !year.ContainsPeriod(MonthPeriod(2024, 6)) {
		t.Error("year should contain one of its months")
	}
	if year.ContainsPeriod(Period{Unit: UnitMonth, Start: NewInstant(2024, 12, 1), Size: 2}) {
		t.Error("year should not contain a span crossing its end")
	}
	if !Eternity.ContainsPeriod(year) {
		t.Error("eternity should contain every period")
	}
	if year.ContainsPeriod(Eternity) {
		t.Error("a year should not contain eternity")
	}
}

// TestNewPeriod_Validation tests triple construction errors.
func TestNewPeriod_Validation(t *testing.T) {
	if _, err := NewPeriod("decade", NewInstant(2020, 1, 1), 1); err == nil {
		t.Error("unknown unit should be rejected")
	}
	if _, err := NewPeriod(UnitMonth, NewInstant(2024, 1, 1), 0); err == nil {
		t.Error("zero size should be rejected")
	}
	p, err := NewPeriod(UnitEternity, Instant{}, 0)
	if err != nil {
		t.Fatalf("eternity construction failed: %v", err)
	}
	if p != Eternity {
		t.Errorf("NewPeriod(eternity) = %+v, want %+v", p, Eternity)
	}
}
