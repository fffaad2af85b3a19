// Package holder implements the per-(variable, population) value cache of
// the evaluation engine.
//
// A Holder owns every cached or input array for one variable on one
// population, keyed by the canonical string of the requested period. Lookups
// hit a primary in-memory tier first; an optional secondary Storage tier
// (SQLite-backed in production, in-memory for tests) takes least-recently-
// used entries once the primary tier crosses its configured byte threshold,
// and secondary hits are promoted back into memory. Writes are all-or-nothing
// per period.
//
// Secondary rows are namespaced by simulation ID, so abandoned simulations
// leave garbage that the cron-driven retention Pruner clears out.
package holder
