package decks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	"github.com/deckshareapp/deckshare-backend/pkg/db"
	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	dbtypes "github.com/deckshareapp/deckshare-backend/pkg/db/types"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
)

// Service defines deck lifecycle operations.
type Service interface {
	CreateDeck(ctx context.Context, input CreateDeckInput) (*DeckDTO, error)
	GetDeck(ctx context.Context, deckID, actorID uuid.UUID) (*DeckDTO, error)
	DeleteDeck(ctx context.Context, deckID, actorID uuid.UUID) error
	ListAccessibleDecks(ctx context.Context, actorID uuid.UUID) ([]AccessibleDeck, error)
}

type service struct {
	repo    Repository
	sharing sharing.Repository
	tx      db.TxRunner
}

// NewService builds a deck service with the required dependencies.
func NewService(repo Repository, sharingRepo sharing.Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("decks repository required")
	}
	if sharingRepo == nil {
		return nil, fmt.Errorf("sharing repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, sharing: sharingRepo, tx: tx}, nil
}

func (s *service) CreateDeck(ctx context.Context, input CreateDeckInput) (*DeckDTO, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deck title required")
	}

	deck := models.Deck{
		OwnerID:         input.ActorID,
		Title:           title,
		Tags:            pq.StringArray(input.Tags),
		Roles:           dbtypes.RoleMap{},
		CollaboratorIDs: dbtypes.UUIDArray{},
		Version:         1,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &deck); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create deck")
		}
		// The owner gets a reverse-lookup row too so one query serves the
		// whole accessible listing.
		if err := s.sharing.WithTx(tx).UpsertAccess(ctx, deck.ID, input.ActorID, enums.DeckRoleOwner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record owner access")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := deckToDTO(&deck, enums.DeckRoleOwner)
	return &dto, nil
}

func (s *service) GetDeck(ctx context.Context, deckID, actorID uuid.UUID) (*DeckDTO, error) {
	if deckID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deck id required")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	deck, err := s.sharing.FindDeckByID(ctx, deckID)
	if err != nil {
		return nil, mapDeckLoadError(err)
	}

	role := sharing.ResolveRole(deck, actorID)
	if !sharing.CanPerform(role, enums.DeckOperationReadDeck) {
		return nil, pkgerrors.New(pkgerrors.CodePermissionDenied, "no access to this deck")
	}

	dto := deckToDTO(deck, role)
	return &dto, nil
}

func (s *service) DeleteDeck(ctx context.Context, deckID, actorID uuid.UUID) error {
	if deckID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "deck id required")
	}
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		deck, err := s.sharing.WithTx(tx).FindDeckByID(ctx, deckID)
		if err != nil {
			return mapDeckLoadError(err)
		}
		if !sharing.CanPerform(sharing.ResolveRole(deck, actorID), enums.DeckOperationDeleteDeck) {
			return pkgerrors.New(pkgerrors.CodePermissionDenied, "only the deck owner can delete a deck")
		}
		if err := s.repo.WithTx(tx).Delete(ctx, deck.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete deck")
		}
		return nil
	})
}

func (s *service) ListAccessibleDecks(ctx context.Context, actorID uuid.UUID) ([]AccessibleDeck, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListAccessible(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list accessible decks")
	}
	return rows, nil
}

func mapDeckLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "deck not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deck")
}
