package decks

import (
	"time"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

// CreateDeckInput carries a new deck request.
type CreateDeckInput struct {
	ActorID uuid.UUID
	Title   string
	Tags    []string
}

// DeckDTO is the API-facing projection of a deck plus the caller's role.
type DeckDTO struct {
	ID                uuid.UUID      `json:"id"`
	OwnerID           uuid.UUID      `json:"owner_id"`
	Title             string         `json:"title"`
	Tags              []string       `json:"tags"`
	CollaboratorCount int            `json:"collaborator_count"`
	CallerRole        enums.DeckRole `json:"caller_role"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// AccessibleDeck is one row of the caller's deck listing, served from the
// reverse-lookup table.
type AccessibleDeck struct {
	DeckID  uuid.UUID      `json:"deck_id"`
	Title   string         `json:"title"`
	OwnerID uuid.UUID      `json:"owner_id"`
	Role    enums.DeckRole `json:"role"`
}

func deckToDTO(deck *models.Deck, callerRole enums.DeckRole) DeckDTO {
	tags := make([]string, 0, len(deck.Tags))
	tags = append(tags, deck.Tags...)
	return DeckDTO{
		ID:                deck.ID,
		OwnerID:           deck.OwnerID,
		Title:             deck.Title,
		Tags:              tags,
		CollaboratorCount: deck.CollaboratorCount,
		CallerRole:        callerRole,
		CreatedAt:         deck.CreatedAt,
		UpdatedAt:         deck.UpdatedAt,
	}
}
