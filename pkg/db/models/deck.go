package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	dbtypes "github.com/deckshareapp/deckshare-backend/pkg/db/types"
)

// Deck is the shared resource membership operates on. OwnerID is immutable
// after creation and is never duplicated into Roles; Roles holds collaborator
// grants only and its key set must always equal CollaboratorIDs.
type Deck struct {
	ID                     uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID                uuid.UUID         `gorm:"column:owner_id;type:uuid;not null"`
	Title                  string            `gorm:"column:title;not null"`
	Tags                   pq.StringArray    `gorm:"column:tags;type:text[]"`
	Roles                  dbtypes.RoleMap   `gorm:"column:roles;type:jsonb;not null"`
	CollaboratorIDs        dbtypes.UUIDArray `gorm:"column:collaborator_ids;type:uuid[];not null"`
	CollaboratorCount      int               `gorm:"column:collaborator_count;not null;default:0"`
	LastMembershipChangeAt *time.Time        `gorm:"column:last_membership_change_at"`
	Version                int64             `gorm:"column:version;not null;default:1"`
	CreatedAt              time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
