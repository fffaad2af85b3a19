package variable

import (
	"sort"
	"strings"

	"lexcore-hq/lexcore/pkg/entity"
)

// Registry maps variable names to their definitions for one rule set.
// Registries are built once and read-only during evaluation.
type Registry struct {
	entities  map[string]*entity.Entity
	variables map[string]*Variable
}

// NewRegistry creates a registry accepting variables owned by the given
// entities.
func NewRegistry(entities []*entity.Entity) *Registry {
	byKey := make(map[string]*entity.Entity, len(entities))
	for _, e := range entities {
		byKey[e.Key] = e
	}
	return &Registry{entities: byKey, variables: make(map[string]*Variable)}
}

// Register adds a variable definition. It rejects duplicate names, unknown
// owning entities and missing value types.
func (r *Registry) Register(v *Variable) error {
	if v.Name == "" {
		return &DefinitionError{Name: v.Name, Reason: "variable name must not be empty"}
	}
	if _, exists := r.variables[v.Name]; exists {
		return &DefinitionError{Name: v.Name, Reason: "variable already registered"}
	}
	if _, ok := r.entities[v.Entity]; !ok {
		return &DefinitionError{Name: v.Name, Reason: "unknown entity " + v.Entity}
	}
	switch v.ValueType {
	case TypeBool, TypeInt, TypeFloat, TypeString, TypeEnum, TypeDate:
	default:
		return &DefinitionError{Name: v.Name, Reason: "unknown value type " + string(v.ValueType)}
	}
	r.variables[v.Name] = v
	return nil
}

// MustRegister registers a variable and panics on definition errors. Rule
// sets use it for their static variable declarations.
func (r *Registry) MustRegister(v *Variable) {
	if err := r.Register(v); err != nil {
		panic(err)
	}
}

// Get returns the variable with the given name, failing with *NotFoundError
// carrying close-match suggestions.
func (r *Registry) Get(name string) (*Variable, error) {
	v, ok := r.variables[name]
	if !ok {
		return nil, &NotFoundError{Name: name, Suggestions: r.suggest(name)}
	}
	return v, nil
}

// Entity returns the entity descriptor with the given key.
func (r *Registry) Entity(key string) (*entity.Entity, bool) {
	e, ok := r.entities[key]
	return e, ok
}

// Entities returns all entity descriptors, sorted by key.
func (r *Registry) Entities() []*entity.Entity {
	out := make([]*entity.Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Names returns all registered variable names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.variables))
	for name := range r.variables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// suggest returns registered names sharing a prefix or substring with the
// unknown name, capped at three.
func (r *Registry) suggest(name string) []string {
	lower := strings.ToLower(name)
	var matches []string
	for _, candidate := range r.Names() {
		c := strings.ToLower(candidate)
		if strings.Contains(c, lower) || strings.Contains(lower, c) {
			matches = append(matches, candidate)
		}
	}
	if len(matches) > 3 {
		matches = matches[:3]
	}
	return matches
}
