// Package period implements the calendar model used by the evaluation engine:
// day-granularity instants and typed time periods (day, week, month, year,
// eternity) with canonical string forms.
//
// Periods identify the span a value is defined over. The cache layer keys
// entries by a period's canonical string, and the parameter and formula
// resolvers select versions by the instant at the start of a period, so both
// parsing and formatting must round-trip exactly.
//
// All functions in this package are pure; nothing here holds state.
package period
