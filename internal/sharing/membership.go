package sharing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deckshareapp/deckshare-backend/internal/audit"
	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	dbtypes "github.com/deckshareapp/deckshare-backend/pkg/db/types"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
)

// MemberChange reports the outcome of a membership mutation.
type MemberChange struct {
	DeckID     uuid.UUID      `json:"deck_id"`
	UserID     uuid.UUID      `json:"user_id"`
	BeforeRole enums.DeckRole `json:"before_role"`
	AfterRole  enums.DeckRole `json:"after_role"`
	Changed    bool           `json:"changed"`
}

// GrantMembership grants the target the requested role on an already loaded
// and consistency-checked deck, persisting the deck row, the access lookup,
// and the audit entry inside the caller's transaction. Permission checks are
// the caller's responsibility. A grant that changes nothing writes nothing.
func GrantMembership(ctx context.Context, tx *gorm.DB, repo Repository, recorder AuditRecorder, deck *models.Deck, actorID, target uuid.UUID, role enums.DeckRole, metadata map[string]any) (MemberChange, error) {
	change, err := applyGrant(deck, target, role)
	if err != nil || !change.Changed {
		return change, err
	}

	if err := repo.SaveMembership(ctx, deck); err != nil {
		return change, mapWriteError(err, "save deck membership")
	}
	// Re-validate after the write so a desynchronized role map and
	// collaborator list can never commit.
	if err := CheckConsistency(deck); err != nil {
		return change, err
	}
	if err := repo.UpsertAccess(ctx, deck.ID, target, role); err != nil {
		return change, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update access lookup")
	}

	eventType := enums.AuditEventMembershipAdded
	if change.BeforeRole != enums.DeckRoleNone {
		eventType = enums.AuditEventRoleChanged
	}
	err = recorder.Append(ctx, tx, audit.Entry{
		DeckID:       deck.ID,
		EventType:    eventType,
		ActorID:      actorID,
		TargetUserID: &target,
		BeforeRole:   rolePtr(change.BeforeRole),
		AfterRole:    rolePtr(change.AfterRole),
		Metadata:     metadata,
	})
	return change, err
}

// applyGrant mutates the deck in memory so the target holds the requested
// role. Collaborator bookkeeping stays in lockstep with the role map.
func applyGrant(deck *models.Deck, target uuid.UUID, role enums.DeckRole) (MemberChange, error) {
	change := MemberChange{DeckID: deck.ID, UserID: target, AfterRole: role}

	if target == uuid.Nil {
		return change, pkgerrors.New(pkgerrors.CodeValidation, "target user id required")
	}
	if target == deck.OwnerID {
		return change, pkgerrors.New(pkgerrors.CodeInvalidTarget, "deck owner role cannot be reassigned")
	}
	if !role.IsGrantable() {
		return change, pkgerrors.New(pkgerrors.CodeInvalidRole, "role must be editor or viewer")
	}

	change.BeforeRole = ResolveRole(deck, target)
	if change.BeforeRole == role {
		return change, nil
	}

	if deck.Roles == nil {
		deck.Roles = dbtypes.RoleMap{}
	}
	deck.Roles[target] = role
	deck.CollaboratorIDs = deck.CollaboratorIDs.Add(target)
	deck.CollaboratorCount = len(deck.CollaboratorIDs)
	change.Changed = true
	return change, nil
}

// applyRemoval strips the target from the deck's membership records.
func applyRemoval(deck *models.Deck, target uuid.UUID) (MemberChange, error) {
	change := MemberChange{DeckID: deck.ID, UserID: target, AfterRole: enums.DeckRoleNone}

	if target == uuid.Nil {
		return change, pkgerrors.New(pkgerrors.CodeValidation, "target user id required")
	}
	if target == deck.OwnerID {
		return change, pkgerrors.New(pkgerrors.CodeInvalidTarget, "deck owner cannot be removed")
	}

	change.BeforeRole = ResolveRole(deck, target)
	if change.BeforeRole == enums.DeckRoleNone {
		return change, nil
	}

	delete(deck.Roles, target)
	deck.CollaboratorIDs = deck.CollaboratorIDs.Remove(target)
	deck.CollaboratorCount = len(deck.CollaboratorIDs)
	change.Changed = true
	return change, nil
}
