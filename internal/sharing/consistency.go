package sharing

import (
	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
)

// CheckConsistency verifies that the deck's role map keys (minus the owner)
// and its collaborator id list describe the same set of users. A violation is
// reported, never repaired here: mutating paths must refuse to build on
// corrupted state.
func CheckConsistency(deck *models.Deck) error {
	if deck == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "deck required")
	}

	var missingFromList, missingFromRoles []string

	for userID := range deck.Roles {
		if userID == deck.OwnerID {
			// The owner is stored in its own column and must not hold a map
			// entry either.
			missingFromList = append(missingFromList, userID.String())
			continue
		}
		if !deck.CollaboratorIDs.Contains(userID) {
			missingFromList = append(missingFromList, userID.String())
		}
	}

	for _, userID := range deck.CollaboratorIDs {
		if userID == uuid.Nil {
			missingFromRoles = append(missingFromRoles, userID.String())
			continue
		}
		if _, ok := deck.Roles[userID]; !ok || userID == deck.OwnerID {
			missingFromRoles = append(missingFromRoles, userID.String())
		}
	}

	if len(missingFromList) == 0 && len(missingFromRoles) == 0 {
		return nil
	}

	return pkgerrors.New(pkgerrors.CodeConsistencyViolation, "deck membership records disagree").
		WithDetails(map[string]any{
			"deck_id":                deck.ID.String(),
			"missing_collaborators":  missingFromList,
			"missing_role_entries":   missingFromRoles,
		})
}
