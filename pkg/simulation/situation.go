package simulation

import (
	"encoding/json"
	"fmt"
	"sort"

	"lexcore-hq/lexcore/pkg/entity"
	"lexcore-hq/lexcore/pkg/period"
)

// Calculation is one computation requested by a situation's null leaves.
type Calculation struct {
	Variable string
	Period   period.Period
}

// Key returns the calculation's flat identifier, "name<period>".
func (c Calculation) Key() string {
	return fmt.Sprintf("%s<%s>", c.Variable, c.Period)
}

// situationDoc mirrors the situation wire shape: entity plural, then
// instance id, then either a role plural (group membership) or a variable
// name (period-keyed values, null marking "please compute").
type situationDoc map[string]map[string]map[string]json.RawMessage

// FromSituation builds a ready-to-evaluate simulation from a situation
// document. Person entities are populated first, then group entities with
// their role assignments, then explicit variable values are cached as
// inputs. It returns the calculations requested by null-valued leaves,
// sorted by variable then period.
func FromSituation(system *System, doc []byte, config Config) (*Simulation, []Calculation, error) {
	var raw situationDoc
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, nil, &SituationError{Reason: "malformed JSON: " + err.Error()}
	}

	byPlural := make(map[string]*entity.Entity)
	for _, e := range system.Entities() {
		byPlural[e.Plural] = e
	}
	for plural := range raw {
		if _, ok := byPlural[plural]; !ok {
			return nil, nil, &SituationError{Path: plural, Reason: "unknown entity plural"}
		}
	}

	populations := make(map[string]*entity.Population)

	// Person populations first: group role assignments reference them.
	var persons *entity.Population
	for plural, instances := range raw {
		e := byPlural[plural]
		if e.IsGroup {
			continue
		}
		pop := entity.NewPopulation(e, sortedKeys(instances))
		populations[e.Key] = pop
		persons = pop
	}

	for plural, instances := range raw {
		e := byPlural[plural]
		if !e.IsGroup {
			continue
		}
		if persons == nil {
			return nil, nil, &SituationError{Path: plural, Reason: "group entity declared without a person population"}
		}
		ids := sortedKeys(instances)
		assignments := make(map[string]map[string][]string)
		for _, id := range ids {
			roleMembers := make(map[string][]string)
			for key, payload := range instances[id] {
				role, ok := e.RoleByPlural(key)
				if !ok {
					continue
				}
				var members []string
				if err := json.Unmarshal(payload, &members); err != nil {
					return nil, nil, &SituationError{
						Path:   fmt.Sprintf("%s.%s.%s", plural, id, key),
						Reason: "role assignment must be a list of person ids",
					}
				}
				roleMembers[role.Key] = members
			}
			assignments[id] = roleMembers
		}
		pop, err := entity.NewGroupPopulation(e, ids, persons, assignments)
		if err != nil {
			return nil, nil, err
		}
		populations[e.Key] = pop
	}

	sim := New(system, populations, config)

	requested, err := applyVariableLeaves(sim, raw, byPlural)
	if err != nil {
		return nil, nil, err
	}
	return sim, requested, nil
}

// applyVariableLeaves walks the non-role leaves of the document, caching
// explicit values as inputs and collecting null leaves as requested
// calculations. A (variable, period) pair cannot carry values on one
// instance and a null on another.
func applyVariableLeaves(sim *Simulation, raw situationDoc, byPlural map[string]*entity.Entity) ([]Calculation, error) {
	type inputKey struct {
		variable string
		period   period.Period
	}
	inputs := make(map[inputKey]map[int]any)
	requestedSet := make(map[inputKey]struct{})

	for plural, instances := range raw {
		e := byPlural[plural]
		pop := sim.populations[e.Key]
		for _, id := range sortedKeys(instances) {
			idx, _ := pop.IndexOf(id)
			for _, name := range sortedKeys(instances[id]) {
				if _, isRole := e.RoleByPlural(name); isRole {
					continue
				}
				v, err := sim.system.registry.Get(name)
				if err != nil {
					return nil, err
				}
				if v.Entity != e.Key {
					return nil, &SituationError{
						Path:   fmt.Sprintf("%s.%s.%s", plural, id, name),
						Reason: fmt.Sprintf("variable belongs to entity %q", v.Entity),
					}
				}
				var leaves map[string]any
				if err := json.Unmarshal(instances[id][name], &leaves); err != nil {
					return nil, &SituationError{
						Path:   fmt.Sprintf("%s.%s.%s", plural, id, name),
						Reason: "variable values must map period strings to values",
					}
				}
				for periodStr, value := range leaves {
					p, err := period.Parse(periodStr)
					if err != nil {
						return nil, err
					}
					key := inputKey{variable: name, period: p}
					if value == nil {
						requestedSet[key] = struct{}{}
						continue
					}
					if inputs[key] == nil {
						inputs[key] = make(map[int]any)
					}
					inputs[key][idx] = value
				}
			}
		}
	}

	for key := range requestedSet {
		if _, hasValues := inputs[key]; hasValues {
			return nil, &SituationError{
				Path:   key.variable,
				Reason: fmt.Sprintf("period %s both sets values and requests computation", key.period),
			}
		}
	}

	for key, byIndex := range inputs {
		v, err := sim.system.registry.Get(key.variable)
		if err != nil {
			return nil, err
		}
		pop := sim.populations[v.Entity]
		values := v.DefaultArray(pop.Count())
		for idx, value := range byIndex {
			values[idx] = value
		}
		cast, err := v.Cast(values, pop.Count(), key.period)
		if err != nil {
			return nil, err
		}
		sim.holderFor(v, pop).Put(key.period, cast)
	}

	requested := make([]Calculation, 0, len(requestedSet))
	for key := range requestedSet {
		requested = append(requested, Calculation{Variable: key.variable, Period: key.period})
	}
	sort.Slice(requested, func(i, j int) bool {
		if requested[i].Variable != requested[j].Variable {
			return requested[i].Variable < requested[j].Variable
		}
		return requested[i].Period.String() < requested[j].Period.String()
	})
	return requested, nil
}

func sortedKeys[M map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
