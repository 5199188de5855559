package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/internal/decks"
	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
	"github.com/deckshareapp/deckshare-backend/pkg/types"
)

func TestDeckCreateReturnsCreated(t *testing.T) {
	owner := uuid.New()
	svc := &stubDeckService{
		created: &decks.DeckDTO{ID: uuid.New(), OwnerID: owner, Title: "Mono Blue", CallerRole: enums.DeckRoleOwner},
	}

	req := httptest.NewRequest(http.MethodPost, "/decks", strings.NewReader(`{"title":"Mono Blue","tags":["standard"]}`))
	req = authedContext(req, owner, "")
	w := serve(http.MethodPost, "/decks", DeckCreate(svc, nil), req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 but got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastCreate.Title != "Mono Blue" {
		t.Fatalf("unexpected create input %+v", svc.lastCreate)
	}
	if svc.lastCreate.ActorID != owner {
		t.Fatalf("expected actor from context, got %s", svc.lastCreate.ActorID)
	}
}

func TestDeckCreateRejectsMissingTitle(t *testing.T) {
	svc := &stubDeckService{}

	req := httptest.NewRequest(http.MethodPost, "/decks", strings.NewReader(`{"tags":["standard"]}`))
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodPost, "/decks", DeckCreate(svc, nil), req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
}

func TestDeckCreateRequiresAuthContext(t *testing.T) {
	svc := &stubDeckService{}

	req := httptest.NewRequest(http.MethodPost, "/decks", strings.NewReader(`{"title":"x"}`))
	w := serve(http.MethodPost, "/decks", DeckCreate(svc, nil), req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 but got %d", w.Code)
	}
}

func TestDeckDetailRejectsBadUUID(t *testing.T) {
	svc := &stubDeckService{}

	req := httptest.NewRequest(http.MethodGet, "/decks/not-a-uuid", nil)
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodGet, "/decks/{deckID}", DeckDetail(svc, nil), req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestDeckDetailPropagatesServiceError(t *testing.T) {
	svc := &stubDeckService{fetchErr: pkgerrors.New(pkgerrors.CodePermissionDenied, "access denied")}

	req := httptest.NewRequest(http.MethodGet, "/decks/"+uuid.NewString(), nil)
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodGet, "/decks/{deckID}", DeckDetail(svc, nil), req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 but got %d", w.Code)
	}
}

func TestDeckListReturnsRows(t *testing.T) {
	svc := &stubDeckService{
		listed: []decks.AccessibleDeck{
			{DeckID: uuid.New(), Title: "Burn", Role: enums.DeckRoleOwner},
			{DeckID: uuid.New(), Title: "Control", Role: enums.DeckRoleViewer},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/decks", nil)
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodGet, "/decks", DeckList(svc, nil), req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
	data := body.Data.(map[string]any)
	if rows, ok := data["decks"].([]any); !ok || len(rows) != 2 {
		t.Fatalf("expected 2 decks, got %v", data["decks"])
	}
}

func TestDeckDeleteMapsOwnerCheck(t *testing.T) {
	svc := &stubDeckService{deleteErr: pkgerrors.New(pkgerrors.CodePermissionDenied, "only the owner can delete a deck")}

	req := httptest.NewRequest(http.MethodDelete, "/decks/"+uuid.NewString(), nil)
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodDelete, "/decks/{deckID}", DeckDelete(svc, nil), req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 but got %d", w.Code)
	}
}

func TestDeckRoleReturnsResolvedRole(t *testing.T) {
	svc := &stubSharingService{role: enums.DeckRoleEditor}

	req := httptest.NewRequest(http.MethodGet, "/decks/"+uuid.NewString()+"/role", nil)
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodGet, "/decks/{deckID}/role", DeckRole(svc, nil), req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
	if got := body.Data.(map[string]any)["role"]; got != "editor" {
		t.Fatalf("expected editor role, got %v", got)
	}
}

func TestMemberUpsertParsesRole(t *testing.T) {
	target := uuid.New()
	svc := &stubSharingService{
		change: &sharing.MemberChange{UserID: target, AfterRole: enums.DeckRoleViewer, Changed: true},
	}

	req := httptest.NewRequest(http.MethodPut, "/decks/"+uuid.NewString()+"/members/"+target.String(), strings.NewReader(`{"role":"viewer"}`))
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodPut, "/decks/{deckID}/members/{userID}", MemberUpsert(svc, nil), req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastInput.Role != enums.DeckRoleViewer {
		t.Fatalf("expected viewer role in input, got %s", svc.lastInput.Role)
	}
	if svc.lastInput.TargetUserID != target {
		t.Fatalf("expected target from path, got %s", svc.lastInput.TargetUserID)
	}
}

func TestMemberUpsertRejectsOwnerRole(t *testing.T) {
	svc := &stubSharingService{}

	req := httptest.NewRequest(http.MethodPut, "/decks/"+uuid.NewString()+"/members/"+uuid.NewString(), strings.NewReader(`{"role":"owner"}`))
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodPut, "/decks/{deckID}/members/{userID}", MemberUpsert(svc, nil), req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected validation rejection but got %d", w.Code)
	}
}

func TestMemberRemoveReturnsChange(t *testing.T) {
	target := uuid.New()
	svc := &stubSharingService{
		change: &sharing.MemberChange{UserID: target, BeforeRole: enums.DeckRoleEditor, AfterRole: enums.DeckRoleNone, Changed: true},
	}

	req := httptest.NewRequest(http.MethodDelete, "/decks/"+uuid.NewString()+"/members/"+target.String(), nil)
	req = authedContext(req, uuid.New(), "")
	w := serve(http.MethodDelete, "/decks/{deckID}/members/{userID}", MemberRemove(svc, nil), req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	if svc.lastRemove.TargetUserID != target {
		t.Fatalf("expected target from path, got %s", svc.lastRemove.TargetUserID)
	}
}
