package sharing

import (
	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// MemberInput carries an owner's request to grant or change a member role.
type MemberInput struct {
	DeckID       uuid.UUID
	ActorID      uuid.UUID
	TargetUserID uuid.UUID
	Role         enums.DeckRole
}

// RemoveMemberInput carries an owner's request to strip a member.
type RemoveMemberInput struct {
	DeckID       uuid.UUID
	ActorID      uuid.UUID
	TargetUserID uuid.UUID
}
