package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/internal/decks"
	"github.com/deckshareapp/deckshare-backend/internal/invites"
	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	pkgAuth "github.com/deckshareapp/deckshare-backend/pkg/auth"
	"github.com/deckshareapp/deckshare-backend/pkg/config"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
	"github.com/deckshareapp/deckshare-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubDeckService struct{}

func (stubDeckService) CreateDeck(context.Context, decks.CreateDeckInput) (*decks.DeckDTO, error) {
	return &decks.DeckDTO{}, nil
}

func (stubDeckService) GetDeck(context.Context, uuid.UUID, uuid.UUID) (*decks.DeckDTO, error) {
	return &decks.DeckDTO{}, nil
}

func (stubDeckService) DeleteDeck(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (stubDeckService) ListAccessibleDecks(context.Context, uuid.UUID) ([]decks.AccessibleDeck, error) {
	return nil, nil
}

type stubSharingService struct{}

func (stubSharingService) ResolveRole(context.Context, uuid.UUID, uuid.UUID) (enums.DeckRole, error) {
	return enums.DeckRoleOwner, nil
}

func (stubSharingService) AddOrUpdateMember(context.Context, sharing.MemberInput) (*sharing.MemberChange, error) {
	return &sharing.MemberChange{}, nil
}

func (stubSharingService) RemoveMember(context.Context, sharing.RemoveMemberInput) (*sharing.MemberChange, error) {
	return &sharing.MemberChange{}, nil
}

type stubInviteService struct{}

func (stubInviteService) CreateInvite(context.Context, invites.CreateInviteInput) (*invites.CreatedInvite, error) {
	return &invites.CreatedInvite{}, nil
}

func (stubInviteService) ListPendingInvites(context.Context, uuid.UUID, uuid.UUID) ([]invites.InviteDTO, error) {
	return nil, nil
}

func (stubInviteService) RevokeInvite(context.Context, invites.RevokeInviteInput) (*invites.InviteDTO, error) {
	return &invites.InviteDTO{}, nil
}

func (stubInviteService) AcceptInvite(context.Context, invites.AcceptInviteInput) (*invites.AcceptResult, error) {
	return &invites.AcceptResult{}, nil
}

func (stubInviteService) SweepExpired(context.Context, int) (int, error) { return 0, nil }

func testRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "router-secret", Issuer: "deckshare-test", ExpirationMinutes: 5}
	logg := logger.New(logger.Options{ServiceName: "router-test"})

	handler := NewRouter(cfg, logg, stubPinger{}, stubPinger{}, stubDeckService{}, stubSharingService{}, stubInviteService{})
	return handler, cfg
}

func TestRouterHealthEndpointsAreOpen(t *testing.T) {
	handler, _ := testRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected %s to return 200, got %d", path, w.Code)
		}
	}
}

func TestRouterRequiresAuthOnDeckRoutes(t *testing.T) {
	handler, _ := testRouter(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/decks", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
}

func TestRouterServesAuthenticatedDeckRoutes(t *testing.T) {
	handler, cfg := testRouter(t)

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router@example.com",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/decks"},
		{http.MethodGet, "/api/v1/decks/" + uuid.NewString()},
		{http.MethodGet, "/api/v1/decks/" + uuid.NewString() + "/role"},
		{http.MethodGet, "/api/v1/decks/" + uuid.NewString() + "/invites"},
	}

	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected %s %s to return 200, got %d: %s", tc.method, tc.path, w.Code, w.Body.String())
		}
	}
}
