package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// DeckAccess is the reverse-lookup row (user -> deck) maintained
// transactionally alongside every membership change. It backs the
// "decks accessible to user" query without scanning deck documents.
type DeckAccess struct {
	DeckID    uuid.UUID      `gorm:"column:deck_id;type:uuid;primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey;index"`
	Role      enums.DeckRole `gorm:"column:role;type:deck_role;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
