package sharing

import (
	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// ResolveRole returns the effective role the user holds on the deck. The
// owner column wins over the role map; users without an entry get
// DeckRoleNone. Pure function, no I/O.
func ResolveRole(deck *models.Deck, userID uuid.UUID) enums.DeckRole {
	if deck == nil || userID == uuid.Nil {
		return enums.DeckRoleNone
	}
	if deck.OwnerID == userID {
		return enums.DeckRoleOwner
	}
	if role, ok := deck.Roles[userID]; ok && role.IsValid() {
		return role
	}
	return enums.DeckRoleNone
}

// CanPerform evaluates whether a role is sufficient for the operation.
// Decisions are made from stored state only; request-supplied roles are never
// trusted.
func CanPerform(role enums.DeckRole, op enums.DeckOperation) bool {
	switch op {
	case enums.DeckOperationShareOrInvite, enums.DeckOperationDeleteDeck:
		return role == enums.DeckRoleOwner
	case enums.DeckOperationEditContent:
		return role.AtLeast(enums.DeckRoleEditor)
	case enums.DeckOperationReadDeck:
		return role.AtLeast(enums.DeckRoleViewer)
	default:
		return false
	}
}
