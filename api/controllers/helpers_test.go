package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/api/middleware"
	"github.com/deckshareapp/deckshare-backend/internal/decks"
	"github.com/deckshareapp/deckshare-backend/internal/invites"
	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

type stubDeckService struct {
	created    *decks.DeckDTO
	createErr  error
	fetched    *decks.DeckDTO
	fetchErr   error
	deleteErr  error
	listed     []decks.AccessibleDeck
	listErr    error
	lastCreate decks.CreateDeckInput
}

func (s *stubDeckService) CreateDeck(_ context.Context, input decks.CreateDeckInput) (*decks.DeckDTO, error) {
	s.lastCreate = input
	return s.created, s.createErr
}

func (s *stubDeckService) GetDeck(context.Context, uuid.UUID, uuid.UUID) (*decks.DeckDTO, error) {
	return s.fetched, s.fetchErr
}

func (s *stubDeckService) DeleteDeck(context.Context, uuid.UUID, uuid.UUID) error {
	return s.deleteErr
}

func (s *stubDeckService) ListAccessibleDecks(context.Context, uuid.UUID) ([]decks.AccessibleDeck, error) {
	return s.listed, s.listErr
}

type stubSharingService struct {
	role       enums.DeckRole
	roleErr    error
	change     *sharing.MemberChange
	changeErr  error
	lastInput  sharing.MemberInput
	lastRemove sharing.RemoveMemberInput
}

func (s *stubSharingService) ResolveRole(context.Context, uuid.UUID, uuid.UUID) (enums.DeckRole, error) {
	return s.role, s.roleErr
}

func (s *stubSharingService) AddOrUpdateMember(_ context.Context, input sharing.MemberInput) (*sharing.MemberChange, error) {
	s.lastInput = input
	return s.change, s.changeErr
}

func (s *stubSharingService) RemoveMember(_ context.Context, input sharing.RemoveMemberInput) (*sharing.MemberChange, error) {
	s.lastRemove = input
	return s.change, s.changeErr
}

type stubInviteService struct {
	created    *invites.CreatedInvite
	createErr  error
	listed     []invites.InviteDTO
	listErr    error
	revoked    *invites.InviteDTO
	revokeErr  error
	accepted   *invites.AcceptResult
	acceptErr  error
	lastCreate invites.CreateInviteInput
	lastAccept invites.AcceptInviteInput
}

func (s *stubInviteService) CreateInvite(_ context.Context, input invites.CreateInviteInput) (*invites.CreatedInvite, error) {
	s.lastCreate = input
	return s.created, s.createErr
}

func (s *stubInviteService) ListPendingInvites(context.Context, uuid.UUID, uuid.UUID) ([]invites.InviteDTO, error) {
	return s.listed, s.listErr
}

func (s *stubInviteService) RevokeInvite(context.Context, invites.RevokeInviteInput) (*invites.InviteDTO, error) {
	return s.revoked, s.revokeErr
}

func (s *stubInviteService) AcceptInvite(_ context.Context, input invites.AcceptInviteInput) (*invites.AcceptResult, error) {
	s.lastAccept = input
	return s.accepted, s.acceptErr
}

func (s *stubInviteService) SweepExpired(context.Context, int) (int, error) {
	return 0, fmt.Errorf("not implemented")
}

// serve runs a request through a chi router so URL params resolve.
func serve(method, pattern string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authedContext(req *http.Request, userID uuid.UUID, email string) *http.Request {
	ctx := middleware.WithUserID(req.Context(), userID.String())
	if email != "" {
		ctx = middleware.WithEmail(ctx, email)
	}
	return req.WithContext(ctx)
}
