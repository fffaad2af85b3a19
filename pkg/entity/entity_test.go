package entity

import (
	"errors"
	"testing"
)

func householdEntity(t *testing.T) *Entity {
	t.Helper()
	e, err := New("household", "households", "Household", []Role{
		{
			Key:      "parent",
			Plural:   "parents",
			Max:      2,
			Subroles: []string{"first_parent", "second_parent"},
		},
		{Key: "child", Plural: "children"},
	})
	if err != nil {
		t.Fatalf("building household entity: %v", err)
	}
	return e
}

// TestNew_RoleDefinitions tests group entity construction and its
// consistency checks.
func TestNew_RoleDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		roles   []Role
		wantErr bool
	}{
		{
			name:  "max matching subroles",
			roles: []Role{{Key: "parent", Plural: "parents", Max: 2, Subroles: []string{"first", "second"}}},
		},
		{
			name:  "subroles without explicit max",
			roles: []Role{{Key: "parent", Plural: "parents", Subroles: []string{"first", "second"}}},
		},
		{
			name:  "unbounded role",
			roles: []Role{{Key: "child", Plural: "children"}},
		},
		{
			name:    "max inconsistent with subroles",
			roles:   []Role{{Key: "parent", Plural: "parents", Max: 3, Subroles: []string{"first", "second"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("household", "households", "Household", tt.roles)
			if tt.wantErr {
				var defErr *RoleDefinitionError
				if !errors.As(err, &defErr) {
					t.Fatalf("New error = %v, want *RoleDefinitionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
		})
	}
}

// TestRole_EffectiveMax tests the occupant cap implied by a role declaration.
func TestRole_EffectiveMax(t *testing.T) {
	if got := (Role{Max: 2}).EffectiveMax(); got != 2 {
		t.Errorf("explicit max: got %d", got)
	}
	if got := (Role{Subroles: []string{"a", "b"}}).EffectiveMax(); got != 2 {
		t.Errorf("subrole-implied max: got %d", got)
	}
	if got := (Role{}).EffectiveMax(); got != 0 {
		t.Errorf("unbounded role: got %d", got)
	}
}

// TestNewGroupPopulation_Membership tests membership and subrole assignment.
func TestNewGroupPopulation_Membership(t *testing.T) {
	household := householdEntity(t)
	person := NewPerson("person", "persons", "Person")
	persons := NewPopulation(person, []string{"alice", "bob", "carol"})

	pop, err := NewGroupPopulation(household, []string{"h1"}, persons, map[string]map[string][]string{
		"h1": {
			"parent": {"alice", "bob"},
			"child":  {"carol"},
		},
	})
	if err != nil {
		t.Fatalf("NewGroupPopulation returned error: %v", err)
	}

	if pop.Count() != 1 {
		t.Fatalf("Count = %d, want 1", pop.Count())
	}

	wantRoles := []string{"parent", "parent", "child"}
	for i, want := range wantRoles {
		if pop.MemberRoles[i] != want {
			t.Errorf("MemberRoles[%d] = %q, want %q", i, pop.MemberRoles[i], want)
		}
		if pop.Members[i] != 0 {
			t.Errorf("Members[%d] = %d, want 0", i, pop.Members[i])
		}
	}

	// Subroles follow declaration order of the occupants.
	wantSubroles := []string{"first_parent", "second_parent", ""}
	for i, want := range wantSubroles {
		if pop.MemberSubroles[i] != want {
			t.Errorf("MemberSubroles[%d] = %q, want %q", i, pop.MemberSubroles[i], want)
		}
	}

	parents := pop.MembersWithRole(0, "parent")
	if len(parents) != 2 || parents[0] != 0 || parents[1] != 1 {
		t.Errorf("MembersWithRole(parent) = %v", parents)
	}
}

// TestNewGroupPopulation_RoleCapacity tests that overfilling a capped role
// fails with RoleCapacityError.
func TestNewGroupPopulation_RoleCapacity(t *testing.T) {
	household := householdEntity(t)
	person := NewPerson("person", "persons", "Person")
	persons := NewPopulation(person, []string{"a", "b", "c"})

	_, err := NewGroupPopulation(household, []string{"h1"}, persons, map[string]map[string][]string{
		"h1": {"parent": {"a", "b", "c"}},
	})

	var capErr *RoleCapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("error = %v, want *RoleCapacityError", err)
	}
	if capErr.Max != 2 || capErr.Assigned != 3 {
		t.Errorf("RoleCapacityError = %+v", capErr)
	}
}

// TestNewGroupPopulation_UndeclaredMember tests that referencing an unknown
// person fails with UndeclaredMemberError.
func TestNewGroupPopulation_UndeclaredMember(t *testing.T) {
	household := householdEntity(t)
	person := NewPerson("person", "persons", "Person")
	persons := NewPopulation(person, []string{"alice"})

	_, err := NewGroupPopulation(household, []string{"h1"}, persons, map[string]map[string][]string{
		"h1": {"parent": {"alice", "ghost"}},
	})

	var memberErr *UndeclaredMemberError
	if !errors.As(err, &memberErr) {
		t.Fatalf("error = %v, want *UndeclaredMemberError", err)
	}
	if memberErr.Member != "ghost" {
		t.Errorf("Member = %q, want %q", memberErr.Member, "ghost")
	}
}
