package entity

// Population is the runtime instance set of one entity kind: ordered instance
// identifiers plus, for group populations, the membership arrays mapping each
// person to its group and role.
type Population struct {
	Entity *Entity

	// IDs holds the instance identifiers in declaration order. All value
	// arrays for this population align to this order.
	IDs []string

	index map[string]int

	// Persons is the person population group members are drawn from.
	// Nil for person populations.
	Persons *Population

	// Members maps each person index to the index of the group instance it
	// belongs to, or -1 when unassigned.
	Members []int

	// MemberRoles maps each person index to its role key within the group,
	// or "" when unassigned.
	MemberRoles []string

	// MemberSubroles maps each person index to its subrole name, or "" when
	// the role declares none. The Nth listed occupant of a role receives the
	// Nth subrole.
	MemberSubroles []string
}

// NewPopulation builds a person population from ordered instance IDs.
func NewPopulation(e *Entity, ids []string) *Population {
	p := &Population{Entity: e, IDs: ids, index: make(map[string]int, len(ids))}
	for i, id := range ids {
		p.index[id] = i
	}
	return p
}

// NewGroupPopulation builds a group population from ordered group instance
// IDs and the per-instance role assignments (role key to ordered person IDs).
//
// It fails with *RoleCapacityError when a capped role receives more persons
// than its maximum and with *UndeclaredMemberError when an assignment
// references a person absent from the person population.
func NewGroupPopulation(e *Entity, ids []string, persons *Population, assignments map[string]map[string][]string) (*Population, error) {
	p := NewPopulation(e, ids)
	p.Persons = persons
	n := persons.Count()
	p.Members = make([]int, n)
	p.MemberRoles = make([]string, n)
	p.MemberSubroles = make([]string, n)
	for i := range p.Members {
		p.Members[i] = -1
	}

	for groupIdx, groupID := range ids {
		roleMembers := assignments[groupID]
		for _, role := range e.Roles {
			memberIDs := roleMembers[role.Key]
			if max := role.EffectiveMax(); max > 0 && len(memberIDs) > max {
				return nil, &RoleCapacityError{
					Entity:   e.Key,
					Instance: groupID,
					Role:     role.Key,
					Max:      max,
					Assigned: len(memberIDs),
				}
			}
			for pos, memberID := range memberIDs {
				personIdx, ok := persons.IndexOf(memberID)
				if !ok {
					return nil, &UndeclaredMemberError{
						Entity:   e.Key,
						Instance: groupID,
						Role:     role.Key,
						Member:   memberID,
					}
				}
				p.Members[personIdx] = groupIdx
				p.MemberRoles[personIdx] = role.Key
				if pos < len(role.Subroles) {
					p.MemberSubroles[personIdx] = role.Subroles[pos]
				}
			}
		}
	}

	return p, nil
}

// Count returns the number of instances in the population.
func (p *Population) Count() int { return len(p.IDs) }

// IndexOf returns the position of an instance identifier.
func (p *Population) IndexOf(id string) (int, bool) {
	i, ok := p.index[id]
	return i, ok
}

// MembersOf returns the person indices assigned to the given group instance,
// in person order. Returns nil for person populations.
func (p *Population) MembersOf(groupIdx int) []int {
	if p.Members == nil {
		return nil
	}
	var members []int
	for personIdx, g := range p.Members {
		if g == groupIdx {
			members = append(members, personIdx)
		}
	}
	return members
}

// MembersWithRole returns the person indices holding the given role in the
// given group instance, in person order.
func (p *Population) MembersWithRole(groupIdx int, roleKey string) []int {
	var members []int
	for personIdx, g := range p.Members {
		if g == groupIdx && p.MemberRoles[personIdx] == roleKey {
			members = append(members, personIdx)
		}
	}
	return members
}
