package sharing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deckshareapp/deckshare-backend/internal/audit"
	"github.com/deckshareapp/deckshare-backend/pkg/config"
	"github.com/deckshareapp/deckshare-backend/pkg/db"
	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
)

// AuditRecorder appends audit entries inside the caller's transaction.
type AuditRecorder interface {
	Append(ctx context.Context, tx *gorm.DB, entry audit.Entry) error
}

// Service defines deck membership operations.
type Service interface {
	ResolveRole(ctx context.Context, deckID, userID uuid.UUID) (enums.DeckRole, error)
	AddOrUpdateMember(ctx context.Context, input MemberInput) (*MemberChange, error)
	RemoveMember(ctx context.Context, input RemoveMemberInput) (*MemberChange, error)
}

type service struct {
	cfg   config.SharingConfig
	repo  Repository
	tx    db.TxRunner
	audit AuditRecorder
}

// NewService builds a membership service with the required dependencies.
func NewService(cfg config.SharingConfig, repo Repository, tx db.TxRunner, recorder AuditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sharing repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{cfg: cfg, repo: repo, tx: tx, audit: recorder}, nil
}

func (s *service) ResolveRole(ctx context.Context, deckID, userID uuid.UUID) (enums.DeckRole, error) {
	if deckID == uuid.Nil {
		return enums.DeckRoleNone, pkgerrors.New(pkgerrors.CodeValidation, "deck id required")
	}
	if userID == uuid.Nil {
		return enums.DeckRoleNone, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	deck, err := s.repo.FindDeckByID(ctx, deckID)
	if err != nil {
		return enums.DeckRoleNone, mapDeckLoadError(err)
	}
	return ResolveRole(deck, userID), nil
}

func (s *service) AddOrUpdateMember(ctx context.Context, input MemberInput) (*MemberChange, error) {
	if err := s.guardEnabled(); err != nil {
		return nil, err
	}
	if input.DeckID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deck id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Role.IsGrantable() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidRole, "role must be editor or viewer")
	}

	var result MemberChange
	err := s.runMembershipTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		deck, err := loadDeckForUpdate(ctx, repo, input.DeckID, input.ActorID)
		if err != nil {
			return err
		}

		// Repeating an identical grant is a no-op inside GrantMembership: no
		// version bump, no duplicate audit entry.
		change, err := GrantMembership(ctx, tx, repo, s.audit, deck, input.ActorID, input.TargetUserID, input.Role, nil)
		result = change
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) RemoveMember(ctx context.Context, input RemoveMemberInput) (*MemberChange, error) {
	if err := s.guardEnabled(); err != nil {
		return nil, err
	}
	if input.DeckID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deck id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result MemberChange
	err := s.runMembershipTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		deck, err := loadDeckForUpdate(ctx, repo, input.DeckID, input.ActorID)
		if err != nil {
			return err
		}

		change, err := applyRemoval(deck, input.TargetUserID)
		if err != nil {
			return err
		}
		result = change
		if !change.Changed {
			// Removing an absent member is already the desired state.
			return nil
		}

		if err := repo.SaveMembership(ctx, deck); err != nil {
			return mapWriteError(err, "save deck membership")
		}
		// Re-validate after the write so a desynchronized role map and
		// collaborator list can never commit.
		if err := CheckConsistency(deck); err != nil {
			return err
		}
		if err := repo.DeleteAccess(ctx, deck.ID, input.TargetUserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update access lookup")
		}

		return s.audit.Append(ctx, tx, audit.Entry{
			DeckID:       deck.ID,
			EventType:    enums.AuditEventMembershipRemoved,
			ActorID:      input.ActorID,
			TargetUserID: &input.TargetUserID,
			BeforeRole:   rolePtr(change.BeforeRole),
			AfterRole:    rolePtr(enums.DeckRoleNone),
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

// runMembershipTx retries the whole transaction on optimistic concurrency
// conflicts, then maps exhausted retries to UNAVAILABLE.
func (s *service) runMembershipTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := db.RetryWithTx(ctx, s.tx, uint64(s.cfg.TxMaxRetries), s.cfg.TxRetryBackoff, fn)
	if err != nil && db.IsRetryableTxError(err) {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "deck is receiving concurrent updates")
	}
	return err
}

// loadDeckForUpdate loads the deck, refuses corrupted membership state, and
// enforces that the actor owns the deck. Used by every mutating path so
// permission checks always run against freshly stored state.
func loadDeckForUpdate(ctx context.Context, repo Repository, deckID, actorID uuid.UUID) (*models.Deck, error) {
	deck, err := repo.FindDeckByID(ctx, deckID)
	if err != nil {
		return nil, mapDeckLoadError(err)
	}
	if err := CheckConsistency(deck); err != nil {
		return nil, err
	}
	if !CanPerform(ResolveRole(deck, actorID), enums.DeckOperationShareOrInvite) {
		return nil, pkgerrors.New(pkgerrors.CodePermissionDenied, "only the deck owner can manage members")
	}
	return deck, nil
}

func mapDeckLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "deck not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deck")
}

func mapWriteError(err error, action string) error {
	if db.IsRetryableTxError(err) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func rolePtr(role enums.DeckRole) *enums.DeckRole {
	return &role
}
