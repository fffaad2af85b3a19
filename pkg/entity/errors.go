package entity

import "fmt"

// RoleDefinitionError indicates an entity declaration whose role constraints
// are inconsistent.
type RoleDefinitionError struct {
	Entity string
	Role   string
	Reason string
}

// Error returns the error message.
func (e *RoleDefinitionError) Error() string {
	return fmt.Sprintf("entity %s role %s: %s", e.Entity, e.Role, e.Reason)
}

// RoleCapacityError indicates more persons assigned to a capped role than its
// declared maximum.
type RoleCapacityError struct {
	Entity   string
	Instance string
	Role     string
	Max      int
	Assigned int
}

// Error returns the error message.
func (e *RoleCapacityError) Error() string {
	return fmt.Sprintf("%s %q: role %s accepts at most %d members, got %d",
		e.Entity, e.Instance, e.Role, e.Max, e.Assigned)
}

// UndeclaredMemberError indicates a role assignment referencing a person that
// is not part of the person population.
type UndeclaredMemberError struct {
	Entity   string
	Instance string
	Role     string
	Member   string
}

// Error returns the error message.
func (e *UndeclaredMemberError) Error() string {
	return fmt.Sprintf("%s %q: role %s references undeclared person %q",
		e.Entity, e.Instance, e.Role, e.Member)
}
