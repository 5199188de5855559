package invites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deckshareapp/deckshare-backend/internal/audit"
	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	"github.com/deckshareapp/deckshare-backend/pkg/config"
	"github.com/deckshareapp/deckshare-backend/pkg/db"
	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
	"github.com/deckshareapp/deckshare-backend/pkg/outbox"
	"github.com/deckshareapp/deckshare-backend/pkg/outbox/payloads"
	"github.com/deckshareapp/deckshare-backend/pkg/security"
)

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the invitation lifecycle.
type Service interface {
	CreateInvite(ctx context.Context, input CreateInviteInput) (*CreatedInvite, error)
	ListPendingInvites(ctx context.Context, deckID, actorID uuid.UUID) ([]InviteDTO, error)
	RevokeInvite(ctx context.Context, input RevokeInviteInput) (*InviteDTO, error)
	AcceptInvite(ctx context.Context, input AcceptInviteInput) (*AcceptResult, error)
	SweepExpired(ctx context.Context, batchSize int) (int, error)
}

type service struct {
	cfg    config.SharingConfig
	repo   Repository
	decks  sharing.Repository
	tx     db.TxRunner
	audit  sharing.AuditRecorder
	outbox outboxPublisher
	now    func() time.Time
}

// NewService builds an invitation service with the required dependencies.
func NewService(cfg config.SharingConfig, repo Repository, decks sharing.Repository, tx db.TxRunner, recorder sharing.AuditRecorder, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invites repository required")
	}
	if decks == nil {
		return nil, fmt.Errorf("sharing repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		cfg:    cfg,
		repo:   repo,
		decks:  decks,
		tx:     tx,
		audit:  recorder,
		outbox: publisher,
		now:    time.Now,
	}, nil
}

func (s *service) CreateInvite(ctx context.Context, input CreateInviteInput) (*CreatedInvite, error) {
	if err := s.guardEnabled(); err != nil {
		return nil, err
	}
	if input.DeckID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deck id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if !input.Role.IsGrantable() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidRole, "role must be editor or viewer")
	}

	// Generated outside the transaction; the plaintext leaves the service
	// exactly once, in the return value.
	token, err := security.GenerateInviteToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate invite token")
	}
	tokenHash := security.HashInviteToken(token)

	var created models.DeckInvite
	err = s.runInviteTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		decks := s.decks.WithTx(tx)

		deck, err := s.loadDeckAsOwner(ctx, decks, input.DeckID, input.ActorID)
		if err != nil {
			return err
		}

		now := s.now()
		pending, err := repo.CountPending(ctx, deck.ID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending invites")
		}
		if deck.CollaboratorCount+int(pending) >= s.cfg.MaxCollaborators {
			return pkgerrors.New(pkgerrors.CodeInviteLimitExceeded, "deck collaborator limit reached").
				WithDetails(map[string]any{
					"limit":           s.cfg.MaxCollaborators,
					"collaborators":   deck.CollaboratorCount,
					"pending_invites": pending,
				})
		}

		expiresAt := now.Add(s.cfg.InviteTTL)
		invite := models.DeckInvite{
			DeckID:        deck.ID,
			InviterID:     input.ActorID,
			EmailLower:    email,
			RoleRequested: input.Role,
			Status:        enums.InviteStatusPending,
			TokenHash:     tokenHash,
			ExpiresAt:     &expiresAt,
		}
		if err := repo.Insert(ctx, &invite); err != nil {
			if db.IsUniqueViolation(err, "ux_deck_invites_deck_token") {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invite token collision")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert invite")
		}
		created = invite

		if err := s.audit.Append(ctx, tx, audit.Entry{
			DeckID:           deck.ID,
			EventType:        enums.AuditEventInviteCreated,
			ActorID:          input.ActorID,
			TargetEmailLower: &invite.EmailLower,
			AfterRole:        &invite.RoleRequested,
			Metadata:         map[string]any{"invite_id": invite.ID.String()},
		}); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInviteCreated,
			AggregateType: enums.AggregateInvite,
			AggregateID:   invite.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: enums.DeckRoleOwner.String()},
			Data: payloads.InviteCreatedEvent{
				DeckID:        deck.ID,
				InviteID:      invite.ID,
				EmailLower:    invite.EmailLower,
				RoleRequested: invite.RoleRequested,
				ExpiresAt:     invite.ExpiresAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return &CreatedInvite{Invite: inviteToDTO(&created), Token: token}, nil
}

func (s *service) ListPendingInvites(ctx context.Context, deckID, actorID uuid.UUID) ([]InviteDTO, error) {
	if deckID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deck id required")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	deck, err := s.decks.FindDeckByID(ctx, deckID)
	if err != nil {
		return nil, mapDeckLoadError(err)
	}

	// Listing is restricted to the deck owner and original inviters. A member
	// who never issued an invite has nothing to see here.
	role := sharing.ResolveRole(deck, actorID)
	var inviterFilter *uuid.UUID
	if role != enums.DeckRoleOwner {
		issued, err := s.repo.CountByInviter(ctx, deckID, actorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count issued invites")
		}
		if issued == 0 {
			return nil, pkgerrors.New(pkgerrors.CodePermissionDenied, "only the deck owner or an inviter can list invites")
		}
		inviterFilter = &actorID
	}

	rows, err := s.repo.ListPending(ctx, deckID, s.now(), inviterFilter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending invites")
	}
	return invitesToDTO(rows), nil
}

func (s *service) RevokeInvite(ctx context.Context, input RevokeInviteInput) (*InviteDTO, error) {
	if err := s.guardEnabled(); err != nil {
		return nil, err
	}
	if input.DeckID == uuid.Nil || input.InviteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deck id and invite id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result InviteDTO
	err := s.runInviteTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		decks := s.decks.WithTx(tx)

		invite, err := repo.FindByID(ctx, input.DeckID, input.InviteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invite")
		}

		deck, err := decks.FindDeckByID(ctx, invite.DeckID)
		if err != nil {
			return mapDeckLoadError(err)
		}
		role := sharing.ResolveRole(deck, input.ActorID)
		if role != enums.DeckRoleOwner && invite.InviterID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodePermissionDenied, "only the owner or inviter can revoke an invite")
		}

		switch invite.Status {
		case enums.InviteStatusRevoked:
			// Repeating a revocation is a no-op.
			result = inviteToDTO(invite)
			return nil
		case enums.InviteStatusAccepted:
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "invite already accepted")
		case enums.InviteStatusExpired:
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "invite already expired")
		}

		now := s.now()
		if err := repo.MarkRevoked(ctx, invite.ID, input.ActorID, now); err != nil {
			return mapTransitionError(err, "revoke invite")
		}
		invite.Status = enums.InviteStatusRevoked
		invite.RevokedBy = &input.ActorID
		invite.RevokedAt = &now
		result = inviteToDTO(invite)

		if err := s.audit.Append(ctx, tx, audit.Entry{
			DeckID:           invite.DeckID,
			EventType:        enums.AuditEventInviteRevoked,
			ActorID:          input.ActorID,
			TargetEmailLower: &invite.EmailLower,
			BeforeRole:       &invite.RoleRequested,
			Metadata:         map[string]any{"invite_id": invite.ID.String()},
		}); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInviteRevoked,
			AggregateType: enums.AggregateInvite,
			AggregateID:   invite.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: role.String()},
			Data: payloads.InviteRevokedEvent{
				DeckID:    invite.DeckID,
				InviteID:  invite.ID,
				RevokedBy: input.ActorID,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) guardEnabled() error {
	if !s.cfg.Enabled {
		return pkgerrors.New(pkgerrors.CodeUnavailable, "deck sharing is disabled")
	}
	return nil
}

// runInviteTx retries lost optimistic-concurrency races, then maps exhausted
// retries to UNAVAILABLE. A status conflict inside triggers a fresh read of
// the invite on the next attempt, which resolves the race deterministically.
func (s *service) runInviteTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := db.RetryWithTx(ctx, s.tx, uint64(s.cfg.TxMaxRetries), s.cfg.TxRetryBackoff, fn)
	if err != nil && db.IsRetryableTxError(err) {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "invite is receiving concurrent updates")
	}
	return err
}

func (s *service) loadDeckAsOwner(ctx context.Context, decks sharing.Repository, deckID, actorID uuid.UUID) (*models.Deck, error) {
	deck, err := decks.FindDeckByID(ctx, deckID)
	if err != nil {
		return nil, mapDeckLoadError(err)
	}
	if err := sharing.CheckConsistency(deck); err != nil {
		return nil, err
	}
	if !sharing.CanPerform(sharing.ResolveRole(deck, actorID), enums.DeckOperationShareOrInvite) {
		return nil, pkgerrors.New(pkgerrors.CodePermissionDenied, "only the deck owner can invite")
	}
	return deck, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !strings.Contains(email, "@") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "a valid email address is required")
	}
	return email, nil
}

func mapDeckLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "deck not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deck")
}

func mapTransitionError(err error, action string) error {
	if db.IsRetryableTxError(err) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
