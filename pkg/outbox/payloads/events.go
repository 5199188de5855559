package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// InviteCreatedEvent is handed to the external delivery service, which turns
// it into an email. The core never formats or sends messages itself, and the
// payload never carries the plaintext token.
type InviteCreatedEvent struct {
	DeckID        uuid.UUID      `json:"deck_id"`
	InviteID      uuid.UUID      `json:"invite_id"`
	EmailLower    string         `json:"email_lower"`
	RoleRequested enums.DeckRole `json:"role_requested"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
}

// InviteAcceptedEvent signals that an invitation converted into membership.
type InviteAcceptedEvent struct {
	DeckID         uuid.UUID       `json:"deck_id"`
	InviteID       uuid.UUID       `json:"invite_id"`
	AcceptedBy     uuid.UUID       `json:"accepted_by"`
	RoleGranted    *enums.DeckRole `json:"role_granted,omitempty"`
	AlreadyHadRole bool            `json:"already_had_role"`
}

// InviteExpiredEvent signals that the expiry sweep retired an invitation.
type InviteExpiredEvent struct {
	DeckID   uuid.UUID `json:"deck_id"`
	InviteID uuid.UUID `json:"invite_id"`
}

// InviteRevokedEvent signals that a pending invitation was withdrawn.
type InviteRevokedEvent struct {
	DeckID    uuid.UUID `json:"deck_id"`
	InviteID  uuid.UUID `json:"invite_id"`
	RevokedBy uuid.UUID `json:"revoked_by"`
}
