package simulation

import (
	"sort"

	"lexcore-hq/lexcore/pkg/tracer"
	"lexcore-hq/lexcore/pkg/variable"
)

// Result pairs a requested calculation with its computed array, aligned to
// the owning population's instance order.
type Result struct {
	Calculation
	Values variable.Array
}

// Run evaluates the requested calculations in order. The first error aborts
// the run.
func (s *Simulation) Run(requested []Calculation) ([]Result, error) {
	results := make([]Result, 0, len(requested))
	for _, c := range requested {
		values, err := s.Evaluate(c.Variable, c.Period)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Calculation: c, Values: values})
	}
	return results, nil
}

// TraceOutput is the explainability payload of a fully traced run.
type TraceOutput struct {
	// Calculations maps "name<period>" keys to their flattened trace.
	Calculations map[string]tracer.FlatEntry `json:"calculations"`

	// Requested lists the top-level calculation keys in request order.
	Requested []string `json:"requested"`

	// EntityIDs lists every instance id involved, sorted.
	EntityIDs []string `json:"entity_ids"`
}

// Trace returns the flattened trace of everything evaluated so far. Only
// available when the simulation runs a full tracer.
func (s *Simulation) Trace() (*TraceOutput, bool) {
	full, ok := s.tracer.(*tracer.FullTracer)
	if !ok {
		return nil, false
	}

	requested := make([]string, 0, len(full.Trees()))
	for _, root := range full.Trees() {
		requested = append(requested, root.Key())
	}

	var ids []string
	for _, pop := range s.populations {
		ids = append(ids, pop.IDs...)
	}
	sort.Strings(ids)

	return &TraceOutput{
		Calculations: full.Flatten(),
		Requested:    requested,
		EntityIDs:    ids,
	}, true
}
