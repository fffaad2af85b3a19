package variable

import (
	"sort"

	"lexcore-hq/lexcore/pkg/parameter"
	"lexcore-hq/lexcore/pkg/period"
)

// FormulaContext is the window a formula gets onto the running simulation:
// its population, the requested period, dependency computation (which
// re-enters the orchestrator) and parameter resolution bound to the period's
// start instant.
type FormulaContext interface {
	// Count returns the owning population's member count. Result arrays
	// must have exactly this length.
	Count() int

	// Period returns the period the formula is being evaluated for.
	Period() period.Period

	// Compute evaluates another variable, recursing into the orchestrator.
	Compute(name string, p period.Period) (Array, error)

	// Parameter resolves a scalar parameter in force at the start of the
	// evaluation period. Each access is recorded by the tracer.
	Parameter(path string) (any, error)

	// Scale resolves a bracket scale in force at the start of the
	// evaluation period.
	Scale(path string) (parameter.Brackets, error)
}

// Formula computes one array of values for a period.
type Formula func(ctx FormulaContext) (Array, error)

// datedFormula is one effective-dated formula version.
type datedFormula struct {
	from    period.Instant
	formula Formula
}

// Variable is a named computation unit: metadata plus the ordered
// effective-dated formula history.
type Variable struct {
	// Name identifies the variable in situations and formulas.
	Name string

	// Entity is the key of the owning entity kind.
	Entity string

	// ValueType is the declared type of computed values.
	ValueType ValueType

	// DefinitionPeriod is the variable's natural granularity (day, month,
	// year or eternity). The cache still keys by the requested period;
	// granularity-aware aggregation is the formula's business.
	DefinitionPeriod period.Unit

	// Default is the value broadcast when no formula applies.
	Default any

	// End optionally dates the variable out of the legislation: no formula
	// applies to periods starting after it.
	End *period.Instant

	// PossibleValues constrains enum variables.
	PossibleValues []string

	// Label and Reference document the variable for discovery tooling.
	Label     string
	Reference string

	formulas []datedFormula
}

// AddFormula registers the formula in force from the given effective date,
// keeping the version list ordered.
func (v *Variable) AddFormula(from period.Instant, f Formula) {
	v.formulas = append(v.formulas, datedFormula{from: from, formula: f})
	sort.Slice(v.formulas, func(i, j int) bool {
		return v.formulas[i].from.Before(v.formulas[j].from)
	})
}

// FormulaAt returns the formula governing the period: among formulas with an
// effective date at or before the period's start instant, the one with the
// latest date. Returns false when the variable's end date precedes that
// instant or no formula qualifies.
func (v *Variable) FormulaAt(p period.Period) (Formula, bool) {
	at := p.StartInstant()
	if v.End != nil && v.End.Before(at) {
		return nil, false
	}
	for i := len(v.formulas) - 1; i >= 0; i-- {
		if !v.formulas[i].from.After(at) {
			return v.formulas[i].formula, true
		}
	}
	return nil, false
}

// DefaultArray broadcasts the default value to the population size.
func (v *Variable) DefaultArray(n int) Array {
	return Broadcast(v.Default, n)
}

// Cast coerces a raw formula result to the variable's declared value type
// and the fixed population length. Length mismatches fail with
// *InvalidArraySizeError, element type mismatches with *CastError.
func (v *Variable) Cast(values Array, n int, p period.Period) (Array, error) {
	if len(values) != n {
		return nil, &InvalidArraySizeError{
			Variable: v.Name,
			Period:   p.String(),
			Want:     n,
			Got:      len(values),
		}
	}
	out := make(Array, n)
	for i, raw := range values {
		cast, ok := castElement(raw, v.ValueType, v.PossibleValues, v.Default)
		if !ok {
			return nil, &CastError{Variable: v.Name, Index: i, Want: v.ValueType, Value: raw}
		}
		out[i] = cast
	}
	return out, nil
}

// Describe returns a read-only descriptor for discovery tooling.
func (v *Variable) Describe() map[string]any {
	formulas := make([]string, len(v.formulas))
	for i, f := range v.formulas {
		formulas[i] = f.from.String()
	}
	desc := map[string]any{
		"id":                v.Name,
		"description":       v.Label,
		"entity":            v.Entity,
		"value_type":        string(v.ValueType),
		"definition_period": string(v.DefinitionPeriod),
		"default_value":     v.Default,
		"formulas":          formulas,
	}
	if v.End != nil {
		desc["end"] = v.End.String()
	}
	if v.Reference != "" {
		desc["reference"] = v.Reference
	}
	if len(v.PossibleValues) > 0 {
		desc["possible_values"] = v.PossibleValues
	}
	return desc
}
