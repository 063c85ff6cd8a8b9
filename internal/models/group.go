package models

// Group represents the set of people sharing one ledger.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string

	// Members is the ordered list of member names. Order is insertion order
	// and is preserved by storage; debt simplification uses it to break ties.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether name is in the group.
func (g *Group) HasMember(name string) bool {
	for _, m := range g.Members {
		if m == name {
			return true
		}
	}
	return false
}

// MissingMembers returns the names not yet in the group, in the order given,
// without duplicates.
func (g *Group) MissingMembers(names ...string) []string {
	seen := make(map[string]bool, len(g.Members)+len(names))
	for _, m := range g.Members {
		seen[m] = true
	}
	var missing []string
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		missing = append(missing, n)
	}
	return missing
}
