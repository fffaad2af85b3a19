package entity

import "fmt"

// Role is a named slot a person occupies within a group entity instance.
type Role struct {
	// Key identifies the role (e.g., "parent").
	Key string

	// Plural is the key used for the role's member list in situation input
	// (e.g., "parents").
	Plural string

	// Max caps the number of occupants per group instance. Zero means
	// unbounded.
	Max int

	// Subroles optionally names each occupant position for indexed access
	// (e.g., "first_parent", "second_parent"). Declaring subroles implies a
	// maximum of len(Subroles) occupants.
	Subroles []string
}

// EffectiveMax returns the occupant cap implied by the role declaration:
// the explicit Max, or the subrole count when only subroles are declared.
// Zero means unbounded.
func (r Role) EffectiveMax() int {
	if r.Max > 0 {
		return r.Max
	}
	return len(r.Subroles)
}

// Entity describes a kind of participant: an atomic person entity, or a group
// entity containing persons under named roles. Descriptors are immutable.
type Entity struct {
	Key     string
	Plural  string
	Label   string
	IsGroup bool
	Roles   []Role
}

// NewPerson builds a person entity descriptor.
func NewPerson(key, plural, label string) *Entity {
	return &Entity{Key: key, Plural: plural, Label: label}
}

// New builds a group entity descriptor. It fails with *RoleDefinitionError
// when a role declares both an explicit maximum and a subrole list of a
// different length, since the two would imply inconsistent caps.
func New(key, plural, label string, roles []Role) (*Entity, error) {
	for _, role := range roles {
		if role.Max > 0 && len(role.Subroles) > 0 && len(role.Subroles) != role.Max {
			return nil, &RoleDefinitionError{
				Entity: key,
				Role:   role.Key,
				Reason: fmt.Sprintf("declared max %d but %d subroles", role.Max, len(role.Subroles)),
			}
		}
	}
	return &Entity{Key: key, Plural: plural, Label: label, IsGroup: true, Roles: roles}, nil
}

// RoleByKey returns the role with the given key.
func (e *Entity) RoleByKey(key string) (Role, bool) {
	for _, role := range e.Roles {
		if role.Key == key {
			return role, true
		}
	}
	return Role{}, false
}

// RoleByPlural returns the role with the given plural key.
func (e *Entity) RoleByPlural(plural string) (Role, bool) {
	for _, role := range e.Roles {
		if role.Plural == plural {
			return role, true
		}
	}
	return Role{}, false
}
