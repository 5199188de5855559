package invites

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deckshareapp/deckshare-backend/internal/audit"
	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
	"github.com/deckshareapp/deckshare-backend/pkg/outbox"
	"github.com/deckshareapp/deckshare-backend/pkg/outbox/payloads"
	"github.com/deckshareapp/deckshare-backend/pkg/security"
)

// AcceptInvite converts a pending invitation into deck membership. The whole
// workflow runs in one transaction so the invite flip and the role grant
// commit together. Races against revocation, expiry, and double acceptance
// are settled by the status compare-and-set: a lost race re-runs the
// transaction, which then reads the terminal status and answers accordingly.
func (s *service) AcceptInvite(ctx context.Context, input AcceptInviteInput) (*AcceptResult, error) {
	if err := s.guardEnabled(); err != nil {
		return nil, err
	}
	if input.DeckID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deck id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.Token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invite token required")
	}

	tokenHash := security.HashInviteToken(input.Token)

	var result AcceptResult
	err := s.runInviteTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		decks := s.decks.WithTx(tx)

		invite, err := repo.FindByTokenHash(ctx, input.DeckID, tokenHash)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invite")
		}

		switch invite.Status {
		case enums.InviteStatusAccepted:
			// Re-acceptance by the same user succeeds without side effects.
			if invite.AcceptedBy != nil && *invite.AcceptedBy == input.ActorID {
				deck, err := decks.FindDeckByID(ctx, invite.DeckID)
				if err != nil {
					return mapDeckLoadError(err)
				}
				result = AcceptResult{
					DeckID:   invite.DeckID,
					InviteID: invite.ID,
					Role:     sharing.ResolveRole(deck, input.ActorID),
				}
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "invite already used")
		case enums.InviteStatusRevoked:
			return pkgerrors.New(pkgerrors.CodeRevoked, "invite was revoked")
		case enums.InviteStatusExpired:
			return pkgerrors.New(pkgerrors.CodeExpired, "invite has expired")
		}

		now := s.now()
		if invite.ExpiredBy(now) {
			// Flip the row opportunistically so the sweep has less to do.
			if err := repo.MarkExpired(ctx, invite.ID); err != nil {
				return mapTransitionError(err, "expire invite")
			}
			return pkgerrors.New(pkgerrors.CodeExpired, "invite has expired")
		}

		if normalized := strings.ToLower(strings.TrimSpace(input.Email)); normalized != invite.EmailLower {
			return pkgerrors.New(pkgerrors.CodeEmailMismatch, "invite was issued to a different address")
		}

		deck, err := decks.FindDeckByID(ctx, invite.DeckID)
		if err != nil {
			return mapDeckLoadError(err)
		}
		if err := sharing.CheckConsistency(deck); err != nil {
			return err
		}

		currentRole := sharing.ResolveRole(deck, input.ActorID)
		var granted *enums.DeckRole
		roleChanged := false
		effectiveRole := currentRole

		if !currentRole.AtLeast(invite.RoleRequested) {
			change, err := sharing.GrantMembership(ctx, tx, decks, s.audit, deck, input.ActorID, input.ActorID, invite.RoleRequested, map[string]any{
				"via":       "invite",
				"invite_id": invite.ID.String(),
			})
			if err != nil {
				return err
			}
			roleChanged = change.Changed
			effectiveRole = change.AfterRole
			granted = &change.AfterRole
		}

		if err := repo.MarkAccepted(ctx, invite.ID, input.ActorID, now); err != nil {
			return mapTransitionError(err, "accept invite")
		}

		if err := s.audit.Append(ctx, tx, audit.Entry{
			DeckID:           invite.DeckID,
			EventType:        enums.AuditEventInviteAccepted,
			ActorID:          input.ActorID,
			TargetUserID:     &input.ActorID,
			TargetEmailLower: &invite.EmailLower,
			AfterRole:        &effectiveRole,
			Metadata:         map[string]any{"invite_id": invite.ID.String()},
		}); err != nil {
			return err
		}

		result = AcceptResult{
			DeckID:      invite.DeckID,
			InviteID:    invite.ID,
			Role:        effectiveRole,
			RoleChanged: roleChanged,
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInviteAccepted,
			AggregateType: enums.AggregateInvite,
			AggregateID:   invite.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: effectiveRole.String()},
			Data: payloads.InviteAcceptedEvent{
				DeckID:         invite.DeckID,
				InviteID:       invite.ID,
				AcceptedBy:     input.ActorID,
				RoleGranted:    granted,
				AlreadyHadRole: !roleChanged,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
