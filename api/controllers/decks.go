package controllers

import (
	"net/http"

	"github.com/deckshareapp/deckshare-backend/api/responses"
	"github.com/deckshareapp/deckshare-backend/api/validators"
	"github.com/deckshareapp/deckshare-backend/internal/decks"
	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
	"github.com/deckshareapp/deckshare-backend/pkg/logger"
)

type deckCreateRequest struct {
	Title string   `json:"title" validate:"required,min=1,max=200"`
	Tags  []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// DeckCreate registers a new deck owned by the caller.
func DeckCreate(svc decks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deck service unavailable"))
			return
		}

		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload deckCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deck, err := svc.CreateDeck(r.Context(), decks.CreateDeckInput{
			ActorID: actor,
			Title:   payload.Title,
			Tags:    payload.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, deck)
	}
}

// DeckList returns every deck the caller can see, owned or shared.
func DeckList(svc decks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deck service unavailable"))
			return
		}

		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListAccessibleDecks(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"decks": rows})
	}
}

// DeckDetail returns a single deck when the caller holds at least viewer.
func DeckDetail(svc decks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deck service unavailable"))
			return
		}

		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deckID, err := pathUUID(r, "deckID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deck, err := svc.GetDeck(r.Context(), deckID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, deck)
	}
}

// DeckDelete removes a deck. Only the owner may do this.
func DeckDelete(svc decks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deck service unavailable"))
			return
		}

		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deckID, err := pathUUID(r, "deckID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteDeck(r.Context(), deckID, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deck_id": deckID, "deleted": true})
	}
}

// DeckRole reports the caller's effective role on a deck.
func DeckRole(svc sharing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sharing service unavailable"))
			return
		}

		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deckID, err := pathUUID(r, "deckID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := svc.ResolveRole(r.Context(), deckID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"deck_id": deckID,
			"user_id": actor,
			"role":    role,
		})
	}
}
