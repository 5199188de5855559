package invites

import (
	"time"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// CreateInviteInput carries an owner's request to invite an email address.
type CreateInviteInput struct {
	DeckID  uuid.UUID
	ActorID uuid.UUID
	Email   string
	Role    enums.DeckRole
}

// CreatedInvite is returned once from CreateInvite. Token is the plaintext
// invite token; it is never stored or logged and cannot be recovered later.
type CreatedInvite struct {
	Invite InviteDTO
	Token  string
}

// AcceptInviteInput carries the acceptor's identity and the plaintext token.
type AcceptInviteInput struct {
	DeckID  uuid.UUID
	ActorID uuid.UUID
	Email   string
	Token   string
}

// AcceptResult reports the membership outcome of an acceptance.
type AcceptResult struct {
	DeckID      uuid.UUID      `json:"deck_id"`
	InviteID    uuid.UUID      `json:"invite_id"`
	Role        enums.DeckRole `json:"role"`
	RoleChanged bool           `json:"role_changed"`
}

// RevokeInviteInput identifies the invite to revoke and who is asking.
type RevokeInviteInput struct {
	DeckID   uuid.UUID
	InviteID uuid.UUID
	ActorID  uuid.UUID
}

// InviteDTO is the API-facing projection of an invite row.
type InviteDTO struct {
	ID            uuid.UUID          `json:"id"`
	DeckID        uuid.UUID          `json:"deck_id"`
	InviterID     uuid.UUID          `json:"inviter_id"`
	EmailLower    string             `json:"email"`
	RoleRequested enums.DeckRole     `json:"role_requested"`
	Status        enums.InviteStatus `json:"status"`
	ExpiresAt     *time.Time         `json:"expires_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

func inviteToDTO(invite *models.DeckInvite) InviteDTO {
	return InviteDTO{
		ID:            invite.ID,
		DeckID:        invite.DeckID,
		InviterID:     invite.InviterID,
		EmailLower:    invite.EmailLower,
		RoleRequested: invite.RoleRequested,
		Status:        invite.Status,
		ExpiresAt:     invite.ExpiresAt,
		CreatedAt:     invite.CreatedAt,
	}
}

func invitesToDTO(rows []models.DeckInvite) []InviteDTO {
	out := make([]InviteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, inviteToDTO(&rows[i]))
	}
	return out
}
