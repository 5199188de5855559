package controllers

import (
	"net/http"

	"github.com/deckshareapp/deckshare-backend/api/responses"
	"github.com/deckshareapp/deckshare-backend/api/validators"
	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
	"github.com/deckshareapp/deckshare-backend/pkg/logger"
)

type memberUpsertRequest struct {
	Role string `json:"role" validate:"required,oneof=viewer editor"`
}

// MemberUpsert grants or changes a collaborator role on a deck.
func MemberUpsert(svc sharing.Service, logg *logger.Logger) http.HandlerFunc {
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

		target, err := pathUUID(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload memberUpsertRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseDeckRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidRole, err, "role not assignable"))
			return
		}

		change, err := svc.AddOrUpdateMember(r.Context(), sharing.MemberInput{
			DeckID:       deckID,
			ActorID:      actor,
			TargetUserID: target,
			Role:         role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, change)
	}
}

// MemberRemove strips a collaborator from a deck.
func MemberRemove(svc sharing.Service, logg *logger.Logger) http.HandlerFunc {
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

		target, err := pathUUID(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		change, err := svc.RemoveMember(r.Context(), sharing.RemoveMemberInput{
			DeckID:       deckID,
			ActorID:      actor,
			TargetUserID: target,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, change)
	}
}
