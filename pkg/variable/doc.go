// Package variable implements the registry of named computation rules and
// their effective-dated formula dispatch.
//
// A variable declares a value type, an owning entity, a natural definition
// period and a default value, plus an ordered mapping from effective start
// date to a formula. Formula resolution picks the formula with the latest
// effective date at or before the start of the requested period; a variable
// past its end date, or with no qualifying formula, falls back to its
// default value.
//
// Formulas are plain Go closures receiving a FormulaContext, which re-enters
// the simulation orchestrator for dependencies and resolves parameters bound
// to the period's start instant.
package variable
