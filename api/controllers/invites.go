package controllers

import (
	"net/http"

	"github.com/deckshareapp/deckshare-backend/api/middleware"
	"github.com/deckshareapp/deckshare-backend/api/responses"
	"github.com/deckshareapp/deckshare-backend/api/validators"
	"github.com/deckshareapp/deckshare-backend/internal/invites"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
	"github.com/deckshareapp/deckshare-backend/pkg/logger"
)

type inviteCreateRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=viewer editor"`
}

// InviteCreate issues a pending invitation for an email address. The response
// carries the plaintext token exactly once; it cannot be recovered later.
func InviteCreate(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
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

		var payload inviteCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseDeckRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidRole, err, "role not assignable"))
			return
		}

		created, err := svc.CreateInvite(r.Context(), invites.CreateInviteInput{
			DeckID:  deckID,
			ActorID: actor,
			Email:   payload.Email,
			Role:    role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"invite": created.Invite,
			"token":  created.Token,
		})
	}
}

// InviteList returns the pending invitations visible to the caller.
func InviteList(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
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

		rows, err := svc.ListPendingInvites(r.Context(), deckID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"invites": rows})
	}
}

// InviteRevoke cancels a pending invitation.
func InviteRevoke(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
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

		inviteID, err := pathUUID(r, "inviteID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invite, err := svc.RevokeInvite(r.Context(), invites.RevokeInviteInput{
			DeckID:   deckID,
			InviteID: inviteID,
			ActorID:  actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, invite)
	}
}

type inviteAcceptRequest struct {
	Token string `json:"token" validate:"required,min=16"`
}

// InviteAccept redeems an invitation token for the authenticated caller. The
// email compared against the invite comes from the verified JWT claim, never
// from the request body.
func InviteAccept(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
			return
		}

		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := middleware.EmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "email context missing"))
			return
		}

		deckID, err := pathUUID(r, "deckID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inviteAcceptRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AcceptInvite(r.Context(), invites.AcceptInviteInput{
			DeckID:  deckID,
			ActorID: actor,
			Email:   email,
			Token:   payload.Token,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
