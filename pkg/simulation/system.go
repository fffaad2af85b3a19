package simulation

import (
	"sync/atomic"

	"lexcore-hq/lexcore/pkg/entity"
	"lexcore-hq/lexcore/pkg/parameter"
	"lexcore-hq/lexcore/pkg/variable"
)

// System is one rule set: the entity model, the registered variables and
// the parameter tree. Systems are built once at startup and shared across
// simulations. The variable registry never changes; the parameter tree can
// be replaced wholesale through ReloadParameters, so it sits behind an
// atomic pointer and every access observes exactly one tree.
type System struct {
	registry   *variable.Registry
	parameters atomic.Pointer[parameter.Node]
}

// NewSystem bundles a variable registry and a parameter tree into a rule
// set. A nil parameter tree is replaced by an empty one, so rule sets
// without parameters still resolve (to not-found) instead of panicking.
func NewSystem(registry *variable.Registry, parameters *parameter.Node) *System {
	s := &System{registry: registry}
	s.ReloadParameters(parameters)
	return s
}

// Registry returns the rule set's variable registry.
func (s *System) Registry() *variable.Registry { return s.registry }

// Parameters returns the root of the rule set's parameter tree.
func (s *System) Parameters() *parameter.Node { return s.parameters.Load() }

// ReloadParameters swaps in a replacement parameter tree, typically one
// freshly loaded after an on-disk edit. Simulations started afterwards
// resolve against the new tree. A nil tree is replaced by an empty one.
func (s *System) ReloadParameters(root *parameter.Node) {
	if root == nil {
		root = parameter.NewNode("")
	}
	s.parameters.Store(root)
}

// Entities returns the rule set's entity descriptors, sorted by key.
func (s *System) Entities() []*entity.Entity { return s.registry.Entities() }

// Describe returns read-only rule set metadata for discovery tooling:
// variable descriptors by name and the parameter tree layout.
func (s *System) Describe() map[string]any {
	variables := make(map[string]any)
	for _, name := range s.registry.Names() {
		v, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		variables[name] = v.Describe()
	}
	entities := make([]string, 0)
	for _, e := range s.registry.Entities() {
		entities = append(entities, e.Key)
	}
	return map[string]any{
		"entities":   entities,
		"variables":  variables,
		"parameters": s.Parameters().Describe(),
	}
}
