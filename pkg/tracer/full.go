package tracer

import (
	"fmt"
	"time"

	"lexcore-hq/lexcore/pkg/period"
	"lexcore-hq/lexcore/pkg/variable"
)

// Node is one calculation in the dependency tree built by the full tracer.
// Children are the dependency calculations entered while this one was the
// current frame.
type Node struct {
	Name       string
	Period     period.Period
	Value      variable.Array
	Parameters []ParameterAccess
	Children   []*Node
	Start      time.Time
	End        time.Time
}

// Key returns the node's flat identifier, "name<period>".
func (n *Node) Key() string {
	return fmt.Sprintf("%s<%s>", n.Name, n.Period)
}

// Duration returns the wall time spent inside this calculation, dependencies
// included.
func (n *Node) Duration() time.Duration {
	return n.End.Sub(n.Start)
}

// FlatEntry is the flattened view of one calculation.
type FlatEntry struct {
	Value        variable.Array
	Dependencies []string
	Parameters   map[string]any
	Time         time.Duration
}

// FullTracer records the complete dependency tree of a run: values, parameter
// accesses and timings per calculation. Meant for debugging and
// explainability output, not for hot paths.
type FullTracer struct {
	// trees holds one root per top-level calculation requested on the
	// simulation.
	trees []*Node

	// open is the stack of unfinished nodes; its last element is the
	// current frame.
	open []*Node

	// now is swapped out in tests.
	now func() time.Time
}

// NewFullTracer creates a tree-building tracer.
func NewFullTracer() *FullTracer {
	return &FullTracer{now: time.Now}
}

// RecordCalculationStart opens a node under the current frame, or a new root
// if the stack is empty.
func (t *FullTracer) RecordCalculationStart(name string, p period.Period) {
	node := &Node{Name: name, Period: p, Start: t.now()}
	if len(t.open) == 0 {
		t.trees = append(t.trees, node)
	} else {
		parent := t.open[len(t.open)-1]
		parent.Children = append(parent.Children, node)
	}
	t.open = append(t.open, node)
}

// RecordCalculationResult attaches the computed array to the current frame.
func (t *FullTracer) RecordCalculationResult(values variable.Array) {
	if len(t.open) > 0 {
		t.open[len(t.open)-1].Value = values
	}
}

// RecordParameterAccess attaches a parameter resolution to the current frame.
func (t *FullTracer) RecordParameterAccess(path string, at period.Instant, value any) {
	if len(t.open) == 0 {
		return
	}
	node := t.open[len(t.open)-1]
	node.Parameters = append(node.Parameters, ParameterAccess{Path: path, At: at, Value: value})
}

// RecordCalculationEnd stamps and closes the current frame.
func (t *FullTracer) RecordCalculationEnd() {
	if len(t.open) == 0 {
		return
	}
	node := t.open[len(t.open)-1]
	node.End = t.now()
	t.open = t.open[:len(t.open)-1]
}

// Stack returns the in-flight frames, outermost first.
func (t *FullTracer) Stack() []Frame {
	frames := make([]Frame, len(t.open))
	for i, node := range t.open {
		frames[i] = Frame{Name: node.Name, Period: node.Period}
	}
	return frames
}

// Trees returns the recorded dependency trees, one per top-level
// calculation, in request order.
func (t *FullTracer) Trees() []*Node {
	return t.trees
}

// Flatten collapses the dependency trees into a map keyed by "name<period>".
// A calculation reached through several paths keeps the value and timing of
// its first recording; dependency lists are merged across occurrences.
func (t *FullTracer) Flatten() map[string]FlatEntry {
	flat := make(map[string]FlatEntry)
	for _, root := range t.trees {
		flattenNode(root, flat)
	}
	return flat
}

func flattenNode(n *Node, flat map[string]FlatEntry) {
	key := n.Key()

	entry, seen := flat[key]
	if !seen {
		entry = FlatEntry{
			Value:      n.Value,
			Parameters: make(map[string]any),
			Time:       n.Duration(),
		}
		for _, access := range n.Parameters {
			entry.Parameters[fmt.Sprintf("%s<%s>", access.Path, access.At)] = access.Value
		}
	}
	for _, child := range n.Children {
		childKey := child.Key()
		if !containsString(entry.Dependencies, childKey) {
			entry.Dependencies = append(entry.Dependencies, childKey)
		}
		flattenNode(child, flat)
	}
	flat[key] = entry
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
