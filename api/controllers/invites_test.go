package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/internal/invites"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
	"github.com/deckshareapp/deckshare-backend/pkg/types"
)

func TestInviteCreateReturnsPlaintextTokenOnce(t *testing.T) {
	deckID := uuid.New()
	owner := uuid.New()
	svc := &stubInviteService{
		created: &invites.CreatedInvite{
			Invite: invites.InviteDTO{ID: uuid.New(), DeckID: deckID, EmailLower: "friend@example.com", RoleRequested: enums.DeckRoleViewer, Status: enums.InviteStatusPending},
			Token:  "opaque-token-value",
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/decks/"+deckID.String()+"/invites", strings.NewReader(`{"email":"Friend@Example.com","role":"viewer"}`))
	req = authedContext(req, owner, "")
	w := serve(http.MethodPost, "/decks/{deckID}/invites", InviteCreate(svc, nil), req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 but got %d: %s", w.Code, w.Body.String())
	}
	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
	data := body.Data.(map[string]any)
	if data["token"] != "opaque-token-value" {
		t.Fatalf("expected plaintext token in create response, got %v", data["token"])
	}
	if svc.lastCreate.Email != "Friend@Example.com" {
		t.Fatalf("the service owns email normalization, got %q", svc.lastCreate.Email)
	}
	if svc.lastCreate.ActorID != owner {
		t.Fatalf("expected actor from context, got %s", svc.lastCreate.ActorID)
	}
}

func TestInviteCreateRejectsBadEmail(t *testing.T) {
	svc := &stubInviteService{}

	req := httptest.NewRequest(http.MethodPost, "/decks/"+uuid.NewString()+"/invites", strings.NewReader(`{"email":"not-an-email","role":"viewer"}`))
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodPost, "/decks/{deckID}/invites", InviteCreate(svc, nil), req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestInviteCreateMapsLimitError(t *testing.T) {
	svc := &stubInviteService{createErr: pkgerrors.New(pkgerrors.CodeInviteLimitExceeded, "invite limit reached")}

	req := httptest.NewRequest(http.MethodPost, "/decks/"+uuid.NewString()+"/invites", strings.NewReader(`{"email":"friend@example.com","role":"editor"}`))
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodPost, "/decks/{deckID}/invites", InviteCreate(svc, nil), req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 but got %d", w.Code)
	}
}

func TestInviteListReturnsRows(t *testing.T) {
	svc := &stubInviteService{
		listed: []invites.InviteDTO{
			{ID: uuid.New(), EmailLower: "a@example.com", Status: enums.InviteStatusPending},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/decks/"+uuid.NewString()+"/invites", nil)
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodGet, "/decks/{deckID}/invites", InviteList(svc, nil), req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
	rows, ok := body.Data.(map[string]any)["invites"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("expected one invite, got %v", body.Data)
	}
}

func TestInviteRevokeMapsTerminalConflict(t *testing.T) {
	svc := &stubInviteService{revokeErr: pkgerrors.New(pkgerrors.CodeInvalidTransition, "invite already used")}

	req := httptest.NewRequest(http.MethodDelete, "/decks/"+uuid.NewString()+"/invites/"+uuid.NewString(), nil)
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodDelete, "/decks/{deckID}/invites/{inviteID}", InviteRevoke(svc, nil), req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 but got %d", w.Code)
	}
}

func TestInviteAcceptUsesEmailFromClaims(t *testing.T) {
	deckID := uuid.New()
	actor := uuid.New()
	svc := &stubInviteService{
		accepted: &invites.AcceptResult{DeckID: deckID, Role: enums.DeckRoleEditor, RoleChanged: true},
	}

	req := httptest.NewRequest(http.MethodPost, "/decks/"+deckID.String()+"/invites/accept", strings.NewReader(`{"token":"opaque-token-value-long"}`))
	req = authedContext(req, actor, "friend@example.com")
	w := serve(http.MethodPost, "/decks/{deckID}/invites/accept", InviteAccept(svc, nil), req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastAccept.Email != "friend@example.com" {
		t.Fatalf("expected email from token claims, got %q", svc.lastAccept.Email)
	}
	if svc.lastAccept.Token != "opaque-token-value-long" {
		t.Fatalf("unexpected token %q", svc.lastAccept.Token)
	}
}

func TestInviteAcceptRequiresEmailClaim(t *testing.T) {
	svc := &stubInviteService{}

	req := httptest.NewRequest(http.MethodPost, "/decks/"+uuid.NewString()+"/invites/accept", strings.NewReader(`{"token":"opaque-token-value-long"}`))
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodPost, "/decks/{deckID}/invites/accept", InviteAccept(svc, nil), req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 but got %d", w.Code)
	}
}

func TestInviteAcceptMapsGoneStatuses(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"expired": {pkgerrors.New(pkgerrors.CodeExpired, "invitation expired"), http.StatusGone},
		"revoked": {pkgerrors.New(pkgerrors.CodeRevoked, "invitation revoked"), http.StatusGone},
		"wrong email": {pkgerrors.New(pkgerrors.CodeEmailMismatch, "access denied"), http.StatusForbidden},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubInviteService{acceptErr: tc.err}
			req := httptest.NewRequest(http.MethodPost, "/decks/"+uuid.NewString()+"/invites/accept", strings.NewReader(`{"token":"opaque-token-value-long"}`))
			req = authedContext(req, uuid.New(), "friend@example.com")
			w := serve(http.MethodPost, "/decks/{deckID}/invites/accept", InviteAccept(svc, nil), req)

			if w.Code != tc.status {
				t.Fatalf("expected %d but got %d", tc.status, w.Code)
			}
		})
	}
}
