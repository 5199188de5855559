package sharing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/deckshareapp/deckshare-backend/pkg/db"
	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// Repository exposes deck membership persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindDeckByID(ctx context.Context, deckID uuid.UUID) (*models.Deck, error)
	SaveMembership(ctx context.Context, deck *models.Deck) error
	UpsertAccess(ctx context.Context, deckID, userID uuid.UUID, role enums.DeckRole) error
	DeleteAccess(ctx context.Context, deckID, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sharing repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindDeckByID(ctx context.Context, deckID uuid.UUID) (*models.Deck, error) {
	var deck models.Deck
	err := r.db.WithContext(ctx).
		Where("id = ?", deckID).
		First(&deck).Error
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

// SaveMembership writes the deck's membership columns guarded by the version
// the caller loaded. A lost race surfaces db.ErrVersionConflict so the whole
// transaction can be retried against fresh state.
func (r *repository) SaveMembership(ctx context.Context, deck *models.Deck) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Deck{}).
		Where("id = ? AND version = ?", deck.ID, deck.Version).
		Updates(map[string]any{
			"roles":                     deck.Roles,
			"collaborator_ids":          deck.CollaboratorIDs,
			"collaborator_count":        deck.CollaboratorCount,
			"last_membership_change_at": now,
			"version":                   deck.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.ErrVersionConflict
	}
	deck.Version++
	deck.LastMembershipChangeAt = &now
	return nil
}

func (r *repository) UpsertAccess(ctx context.Context, deckID, userID uuid.UUID, role enums.DeckRole) error {
	row := models.DeckAccess{DeckID: deckID, UserID: userID, Role: role}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "deck_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"role": role, "updated_at": time.Now()}),
		}).
		Create(&row).Error
}

func (r *repository) DeleteAccess(ctx context.Context, deckID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("deck_id = ? AND user_id = ?", deckID, userID).
		Delete(&models.DeckAccess{}).Error
}
