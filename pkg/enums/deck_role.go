package enums

import "fmt"

// DeckRole represents a deck-level permissions role. Roles are totally
// ordered: owner > editor > viewer > none. RoleNone is never persisted; it is
// the resolver result when no entry exists for a user.
type DeckRole string

const (
	DeckRoleOwner  DeckRole = "owner"
	DeckRoleEditor DeckRole = "editor"
	DeckRoleViewer DeckRole = "viewer"
	DeckRoleNone   DeckRole = "none"
)

var deckRoleRank = map[DeckRole]int{
	DeckRoleOwner:  3,
	DeckRoleEditor: 2,
	DeckRoleViewer: 1,
	DeckRoleNone:   0,
}

// String implements fmt.Stringer.
func (r DeckRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known DeckRole.
func (r DeckRole) IsValid() bool {
	_, ok := deckRoleRank[r]
	return ok
}

// IsGrantable reports whether the role can be assigned to a collaborator.
// Owner is fixed at deck creation and none means removal.
func (r DeckRole) IsGrantable() bool {
	return r == DeckRoleEditor || r == DeckRoleViewer
}

// AtLeast reports whether r ranks at or above other.
func (r DeckRole) AtLeast(other DeckRole) bool {
	return deckRoleRank[r] >= deckRoleRank[other]
}

// ParseDeckRole converts raw input into a DeckRole.
func ParseDeckRole(value string) (DeckRole, error) {
	role := DeckRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid deck role %q", value)
	}
	return role, nil
}
