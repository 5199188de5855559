package invites

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deckshareapp/deckshare-backend/pkg/db"
	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// Repository exposes invite persistence. Status transitions are guarded
// compare-and-set writes: a row that already left pending reports
// db.ErrStatusConflict instead of being overwritten.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, invite *models.DeckInvite) error
	FindByID(ctx context.Context, deckID, inviteID uuid.UUID) (*models.DeckInvite, error)
	FindByTokenHash(ctx context.Context, deckID uuid.UUID, tokenHash string) (*models.DeckInvite, error)
	ListPending(ctx context.Context, deckID uuid.UUID, now time.Time, inviterID *uuid.UUID) ([]models.DeckInvite, error)
	CountPending(ctx context.Context, deckID uuid.UUID, now time.Time) (int64, error)
	CountByInviter(ctx context.Context, deckID, inviterID uuid.UUID) (int64, error)
	MarkAccepted(ctx context.Context, inviteID, userID uuid.UUID, at time.Time) error
	MarkRevoked(ctx context.Context, inviteID, userID uuid.UUID, at time.Time) error
	MarkExpired(ctx context.Context, inviteID uuid.UUID) error
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]models.DeckInvite, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an invites repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, invite *models.DeckInvite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *repository) FindByID(ctx context.Context, deckID, inviteID uuid.UUID) (*models.DeckInvite, error) {
	var invite models.DeckInvite
	err := r.db.WithContext(ctx).
		Where("id = ? AND deck_id = ?", inviteID, deckID).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) FindByTokenHash(ctx context.Context, deckID uuid.UUID, tokenHash string) (*models.DeckInvite, error) {
	var invite models.DeckInvite
	err := r.db.WithContext(ctx).
		Where("deck_id = ? AND token_hash = ?", deckID, tokenHash).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// ListPending returns live pending invites. Rows past their expiry are
// excluded even before the sweep flips them.
func (r *repository) ListPending(ctx context.Context, deckID uuid.UUID, now time.Time, inviterID *uuid.UUID) ([]models.DeckInvite, error) {
	q := r.db.WithContext(ctx).
		Where("deck_id = ? AND status = ?", deckID, enums.InviteStatusPending).
		Where("expires_at IS NULL OR expires_at > ?", now)
	if inviterID != nil {
		q = q.Where("inviter_id = ?", *inviterID)
	}

	var rows []models.DeckInvite
	if err := q.Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CountPending(ctx context.Context, deckID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DeckInvite{}).
		Where("deck_id = ? AND status = ?", deckID, enums.InviteStatusPending).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByInviter counts invites the user has issued on the deck, regardless
// of status.
func (r *repository) CountByInviter(ctx context.Context, deckID, inviterID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DeckInvite{}).
		Where("deck_id = ? AND inviter_id = ?", deckID, inviterID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) MarkAccepted(ctx context.Context, inviteID, userID uuid.UUID, at time.Time) error {
	return r.transition(ctx, inviteID, map[string]any{
		"status":      enums.InviteStatusAccepted,
		"accepted_by": userID,
		"accepted_at": at,
	})
}

func (r *repository) MarkRevoked(ctx context.Context, inviteID, userID uuid.UUID, at time.Time) error {
	return r.transition(ctx, inviteID, map[string]any{
		"status":     enums.InviteStatusRevoked,
		"revoked_by": userID,
		"revoked_at": at,
	})
}

func (r *repository) MarkExpired(ctx context.Context, inviteID uuid.UUID) error {
	return r.transition(ctx, inviteID, map[string]any{
		"status": enums.InviteStatusExpired,
	})
}

func (r *repository) transition(ctx context.Context, inviteID uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.DeckInvite{}).
		Where("id = ? AND status = ?", inviteID, enums.InviteStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.ErrStatusConflict
	}
	return nil
}

func (r *repository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]models.DeckInvite, error) {
	var rows []models.DeckInvite
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", enums.InviteStatusPending, now).
		Order("expires_at").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
