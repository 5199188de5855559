package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// DeckInvite is a pending grant of a role to an email address. Only the
// SHA-256 hash of the single-use token is stored; the plaintext is returned
// to the inviter exactly once at creation.
type DeckInvite struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DeckID        uuid.UUID          `gorm:"column:deck_id;type:uuid;not null;index;uniqueIndex:ux_deck_invites_deck_token"`
	InviterID     uuid.UUID          `gorm:"column:inviter_id;type:uuid;not null"`
	EmailLower    string             `gorm:"column:email_lower;not null"`
	RoleRequested enums.DeckRole     `gorm:"column:role_requested;type:deck_role;not null"`
	Status        enums.InviteStatus `gorm:"column:status;type:invite_status;not null"`
	TokenHash     string             `gorm:"column:token_hash;not null;uniqueIndex:ux_deck_invites_deck_token"`
	ExpiresAt     *time.Time         `gorm:"column:expires_at"`
	AcceptedBy    *uuid.UUID         `gorm:"column:accepted_by;type:uuid"`
	AcceptedAt    *time.Time         `gorm:"column:accepted_at"`
	RevokedBy     *uuid.UUID         `gorm:"column:revoked_by;type:uuid"`
	RevokedAt     *time.Time         `gorm:"column:revoked_at"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// ExpiredBy reports whether the invite's deadline has passed at the given
// instant. Invites without a deadline never expire.
func (i *DeckInvite) ExpiredBy(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}
