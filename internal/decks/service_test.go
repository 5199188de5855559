package decks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	dbtypes "github.com/deckshareapp/deckshare-backend/pkg/db/types"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
)

type stubDecksRepo struct {
	created *models.Deck
	deleted []uuid.UUID
	access  []AccessibleDeck
}

func (s *stubDecksRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubDecksRepo) Create(ctx context.Context, deck *models.Deck) error {
	if deck.ID == uuid.Nil {
		deck.ID = uuid.New()
	}
	s.created = deck
	return nil
}

func (s *stubDecksRepo) Delete(ctx context.Context, deckID uuid.UUID) error {
	s.deleted = append(s.deleted, deckID)
	return nil
}

func (s *stubDecksRepo) ListAccessible(ctx context.Context, userID uuid.UUID) ([]AccessibleDeck, error) {
	return s.access, nil
}

type stubSharingRepo struct {
	deck     *models.Deck
	upserted map[uuid.UUID]enums.DeckRole
}

func (s *stubSharingRepo) WithTx(tx *gorm.DB) sharing.Repository { return s }

func (s *stubSharingRepo) FindDeckByID(ctx context.Context, deckID uuid.UUID) (*models.Deck, error) {
	if s.deck == nil || s.deck.ID != deckID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.deck, nil
}

func (s *stubSharingRepo) SaveMembership(ctx context.Context, deck *models.Deck) error {
	return nil
}

func (s *stubSharingRepo) UpsertAccess(ctx context.Context, deckID, userID uuid.UUID, role enums.DeckRole) error {
	if s.upserted == nil {
		s.upserted = map[uuid.UUID]enums.DeckRole{}
	}
	s.upserted[userID] = role
	return nil
}

func (s *stubSharingRepo) DeleteAccess(ctx context.Context, deckID, userID uuid.UUID) error {
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newDeckService(t *testing.T, repo *stubDecksRepo, sharingRepo *stubSharingRepo) Service {
	t.Helper()
	svc, err := NewService(repo, sharingRepo, stubTx{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestCreateDeck(t *testing.T) {
	repo := &stubDecksRepo{}
	sharingRepo := &stubSharingRepo{}
	svc := newDeckService(t, repo, sharingRepo)
	owner := uuid.New()

	dto, err := svc.CreateDeck(context.Background(), CreateDeckInput{
		ActorID: owner,
		Title:   "  Standard Ramp  ",
		Tags:    []string{"green", "casual"},
	})
	if err != nil {
		t.Fatalf("create deck: %v", err)
	}
	if dto.Title != "Standard Ramp" {
		t.Fatalf("expected trimmed title, got %q", dto.Title)
	}
	if dto.OwnerID != owner || dto.CallerRole != enums.DeckRoleOwner {
		t.Fatalf("unexpected ownership %+v", dto)
	}
	if repo.created == nil || repo.created.Version != 1 {
		t.Fatalf("expected deck created at version 1, got %+v", repo.created)
	}
	if len(repo.created.Roles) != 0 || len(repo.created.CollaboratorIDs) != 0 {
		t.Fatal("new deck must start with empty membership")
	}
	if sharingRepo.upserted[owner] != enums.DeckRoleOwner {
		t.Fatal("expected owner access row")
	}
}

func TestCreateDeckValidation(t *testing.T) {
	svc := newDeckService(t, &stubDecksRepo{}, &stubSharingRepo{})

	_, err := svc.CreateDeck(context.Background(), CreateDeckInput{ActorID: uuid.New(), Title: "   "})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.CreateDeck(context.Background(), CreateDeckInput{Title: "x"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestGetDeck(t *testing.T) {
	owner := uuid.New()
	viewer := uuid.New()
	deck := &models.Deck{
		ID:      uuid.New(),
		OwnerID: owner,
		Title:   "Mono Blue",
		Roles:   dbtypes.RoleMap{viewer: enums.DeckRoleViewer},
	}
	svc := newDeckService(t, &stubDecksRepo{}, &stubSharingRepo{deck: deck})

	dto, err := svc.GetDeck(context.Background(), deck.ID, viewer)
	if err != nil {
		t.Fatalf("get deck: %v", err)
	}
	if dto.CallerRole != enums.DeckRoleViewer {
		t.Fatalf("expected viewer role, got %s", dto.CallerRole)
	}

	_, err = svc.GetDeck(context.Background(), deck.ID, uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodePermissionDenied) {
		t.Fatalf("expected permission denied for stranger, got %v", err)
	}

	_, err = svc.GetDeck(context.Background(), uuid.New(), viewer)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteDeckOwnerOnly(t *testing.T) {
	owner := uuid.New()
	editor := uuid.New()
	deck := &models.Deck{
		ID:      uuid.New(),
		OwnerID: owner,
		Roles:   dbtypes.RoleMap{editor: enums.DeckRoleEditor},
	}
	repo := &stubDecksRepo{}
	svc := newDeckService(t, repo, &stubSharingRepo{deck: deck})

	err := svc.DeleteDeck(context.Background(), deck.ID, editor)
	if !pkgerrors.IsCode(err, pkgerrors.CodePermissionDenied) {
		t.Fatalf("expected permission denied for editor, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("denied delete must not remove the deck")
	}

	if err := svc.DeleteDeck(context.Background(), deck.ID, owner); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != deck.ID {
		t.Fatal("expected deck deleted")
	}
}

func TestListAccessibleDecks(t *testing.T) {
	user := uuid.New()
	rows := []AccessibleDeck{
		{DeckID: uuid.New(), Title: "A", Role: enums.DeckRoleOwner},
		{DeckID: uuid.New(), Title: "B", Role: enums.DeckRoleViewer},
	}
	svc := newDeckService(t, &stubDecksRepo{access: rows}, &stubSharingRepo{})

	got, err := svc.ListAccessibleDecks(context.Background(), user)
	if err != nil {
		t.Fatalf("list decks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
}
