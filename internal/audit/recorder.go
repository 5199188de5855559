package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// Entry describes a single audit fact about a deck.
type Entry struct {
	DeckID           uuid.UUID
	EventType        enums.AuditEventType
	ActorID          uuid.UUID
	TargetUserID     *uuid.UUID
	TargetEmailLower *string
	BeforeRole       *enums.DeckRole
	AfterRole        *enums.DeckRole
	Metadata         map[string]any
}

// Recorder appends audit entries. Writes always happen inside the caller's
// transaction so the audit row commits or rolls back with the change it
// describes.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Append persists the entry using the provided transaction handle.
func (r *Recorder) Append(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if entry.DeckID == uuid.Nil {
		return errors.New("deck id required")
	}
	if entry.ActorID == uuid.Nil {
		return errors.New("actor id required")
	}
	if !entry.EventType.IsValid() {
		return fmt.Errorf("invalid audit event type %q", entry.EventType)
	}

	var metadata json.RawMessage
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
		metadata = raw
	}

	row := models.DeckAuditEntry{
		DeckID:           entry.DeckID,
		EventType:        entry.EventType,
		ActorID:          entry.ActorID,
		TargetUserID:     entry.TargetUserID,
		TargetEmailLower: entry.TargetEmailLower,
		BeforeRole:       entry.BeforeRole,
		AfterRole:        entry.AfterRole,
		Metadata:         metadata,
	}
	return tx.WithContext(ctx).Create(&row).Error
}
