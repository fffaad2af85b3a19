package parameter

import (
	"sort"
	"strings"

	"lexcore-hq/lexcore/pkg/period"
)

// Child is a member of the parameter tree: a *Node, a *Leaf or a *Scale.
type Child interface {
	child()
}

// Node is a named collection of child parameters and sub-nodes.
type Node struct {
	Description string
	children    map[string]Child
	names       []string
}

func (*Node) child() {}

// NewNode creates an empty parameter node.
func NewNode(description string) *Node {
	return &Node{Description: description, children: make(map[string]Child)}
}

// Add attaches a child under the given name, replacing any existing child.
func (n *Node) Add(name string, c Child) {
	if _, exists := n.children[name]; !exists {
		n.names = append(n.names, name)
		sort.Strings(n.names)
	}
	n.children[name] = c
}

// Child returns the direct child with the given name.
func (n *Node) Child(name string) (Child, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Names returns the child names in sorted order.
func (n *Node) Names() []string {
	out := make([]string, len(n.names))
	copy(out, n.names)
	return out
}

// datedValue is one effective-dated version of a leaf value.
type datedValue struct {
	at    period.Instant
	value any
}

// Leaf is a time-versioned scalar parameter.
type Leaf struct {
	Description string
	values      []datedValue
}

func (*Leaf) child() {}

// NewLeaf creates a leaf with no values.
func NewLeaf(description string) *Leaf {
	return &Leaf{Description: description}
}

// Set records the value in force from the given effective date, keeping the
// version list ordered.
func (l *Leaf) Set(at period.Instant, value any) {
	l.values = append(l.values, datedValue{at: at, value: value})
	sort.Slice(l.values, func(i, j int) bool {
		return l.values[i].at.Before(l.values[j].at)
	})
}

// At returns the value in force at the instant: the one with the latest
// effective date at or before it. The second return is false when the instant
// predates the first effective date.
func (l *Leaf) At(at period.Instant) (any, bool) {
	for i := len(l.values) - 1; i >= 0; i-- {
		if !l.values[i].at.After(at) {
			return l.values[i].value, true
		}
	}
	return nil, false
}

// Versions returns the effective-dated value history, oldest first.
func (l *Leaf) Versions() []struct {
	At    period.Instant
	Value any
} {
	out := make([]struct {
		At    period.Instant
		Value any
	}, len(l.values))
	for i, v := range l.values {
		out[i].At = v.at
		out[i].Value = v.value
	}
	return out
}

// datedBrackets is one effective-dated version of a scale.
type datedBrackets struct {
	at       period.Instant
	brackets Brackets
}

// Scale is a time-versioned piecewise bracket scale.
type Scale struct {
	Description string
	versions    []datedBrackets
}

func (*Scale) child() {}

// NewScale creates a scale with no versions.
func NewScale(description string) *Scale {
	return &Scale{Description: description}
}

// Set records the bracket list in force from the given effective date.
// Brackets are kept sorted ascending by threshold.
func (s *Scale) Set(at period.Instant, brackets Brackets) {
	sorted := make(Brackets, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Threshold < sorted[j].Threshold
	})
	s.versions = append(s.versions, datedBrackets{at: at, brackets: sorted})
	sort.Slice(s.versions, func(i, j int) bool {
		return s.versions[i].at.Before(s.versions[j].at)
	})
}

// At returns the bracket list in force at the instant.
func (s *Scale) At(at period.Instant) (Brackets, bool) {
	for i := len(s.versions) - 1; i >= 0; i-- {
		if !s.versions[i].at.After(at) {
			return s.versions[i].brackets, true
		}
	}
	return nil, false
}

// Find descends the dotted path from the node and returns the child it names.
// Fails with *NotFoundError when any path segment is missing or a non-node is
// traversed through.
func (n *Node) Find(path string) (Child, error) {
	var current Child = n
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(*Node)
		if !ok {
			return nil, &NotFoundError{Path: path, Reason: "path descends into a non-node parameter"}
		}
		current, ok = node.Child(segment)
		if !ok {
			return nil, &NotFoundError{Path: path}
		}
	}
	return current, nil
}

// Value resolves a leaf parameter at an instant.
func (n *Node) Value(path string, at period.Instant) (any, error) {
	c, err := n.Find(path)
	if err != nil {
		return nil, err
	}
	leaf, ok := c.(*Leaf)
	if !ok {
		return nil, &NotFoundError{Path: path, At: at, Reason: "not a scalar parameter"}
	}
	value, ok := leaf.At(at)
	if !ok {
		return nil, &NotFoundError{Path: path, At: at, Reason: "no value in force at this date"}
	}
	return value, nil
}

// ScaleAt resolves a bracket scale at an instant.
func (n *Node) ScaleAt(path string, at period.Instant) (Brackets, error) {
	c, err := n.Find(path)
	if err != nil {
		return nil, err
	}
	scale, ok := c.(*Scale)
	if !ok {
		return nil, &NotFoundError{Path: path, At: at, Reason: "not a bracket scale"}
	}
	brackets, ok := scale.At(at)
	if !ok {
		return nil, &NotFoundError{Path: path, At: at, Reason: "no brackets in force at this date"}
	}
	return brackets, nil
}

// Describe returns a read-only nested description of the tree for discovery
// tooling: node children, leaf value histories and scale versions.
func (n *Node) Describe() map[string]any {
	out := make(map[string]any, len(n.names))
	for _, name := range n.names {
		switch c := n.children[name].(type) {
		case *Node:
			out[name] = c.Describe()
		case *Leaf:
			values := make(map[string]any, len(c.values))
			for _, v := range c.values {
				values[v.at.String()] = v.value
			}
			out[name] = map[string]any{
				"description": c.Description,
				"values":      values,
			}
		case *Scale:
			versions := make(map[string]any, len(c.versions))
			for _, v := range c.versions {
				versions[v.at.String()] = v.brackets
			}
			out[name] = map[string]any{
				"description": c.Description,
				"brackets":    versions,
			}
		}
	}
	return out
}
