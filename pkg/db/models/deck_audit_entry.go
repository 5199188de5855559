package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// DeckAuditEntry is an append-only record of a membership or invitation state
// change. Entries are written in the same transaction as the change itself
// and are never updated or deleted.
type DeckAuditEntry struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DeckID           uuid.UUID            `gorm:"column:deck_id;type:uuid;not null;index"`
	EventType        enums.AuditEventType `gorm:"column:event_type;type:audit_event_type;not null"`
	ActorID          uuid.UUID            `gorm:"column:actor_id;type:uuid;not null"`
	TargetUserID     *uuid.UUID           `gorm:"column:target_user_id;type:uuid"`
	TargetEmailLower *string              `gorm:"column:target_email_lower"`
	BeforeRole       *enums.DeckRole      `gorm:"column:before_role;type:deck_role"`
	AfterRole        *enums.DeckRole      `gorm:"column:after_role;type:deck_role"`
	Metadata         json.RawMessage      `gorm:"column:metadata;type:jsonb"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
}
