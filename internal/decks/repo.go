package decks

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// Repository exposes deck lifecycle persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, deck *models.Deck) error
	Delete(ctx context.Context, deckID uuid.UUID) error
	ListAccessible(ctx context.Context, userID uuid.UUID) ([]AccessibleDeck, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a decks repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, deck *models.Deck) error {
	return r.db.WithContext(ctx).Create(deck).Error
}

// Delete removes the deck row; invites, audit entries, and access rows go
// with it through the FK cascade.
func (r *repository) Delete(ctx context.Context, deckID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", deckID).
		Delete(&models.Deck{}).Error
}

type accessibleDeckRow struct {
	DeckID  uuid.UUID      `gorm:"column:deck_id"`
	Title   string         `gorm:"column:title"`
	OwnerID uuid.UUID      `gorm:"column:owner_id"`
	Role    enums.DeckRole `gorm:"column:role"`
}

func (r *repository) ListAccessible(ctx context.Context, userID uuid.UUID) ([]AccessibleDeck, error) {
	var rows []accessibleDeckRow
	err := r.db.WithContext(ctx).
		Model(&models.DeckAccess{}).
		Select("deck_access.deck_id, deck_access.role, decks.title, decks.owner_id").
		Joins("JOIN decks ON decks.id = deck_access.deck_id").
		Where("deck_access.user_id = ?", userID).
		Order("decks.title").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]AccessibleDeck, 0, len(rows))
	for _, row := range rows {
		out = append(out, AccessibleDeck{
			DeckID:  row.DeckID,
			Title:   row.Title,
			OwnerID: row.OwnerID,
			Role:    row.Role,
		})
	}
	return out, nil
}
