package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckshareapp/deckshare-backend/api/controllers"
	"github.com/deckshareapp/deckshare-backend/api/middleware"
	"github.com/deckshareapp/deckshare-backend/internal/decks"
	"github.com/deckshareapp/deckshare-backend/internal/invites"
	"github.com/deckshareapp/deckshare-backend/internal/sharing"
	"github.com/deckshareapp/deckshare-backend/pkg/config"
	"github.com/deckshareapp/deckshare-backend/pkg/db"
	"github.com/deckshareapp/deckshare-backend/pkg/logger"
	"github.com/deckshareapp/deckshare-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	deckService decks.Service,
	sharingService sharing.Service,
	inviteService invites.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.CORS(),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadinessDeps(dbP, redisP)))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/decks", func(r chi.Router) {
			r.Post("/", controllers.DeckCreate(deckService, logg))
			r.Get("/", controllers.DeckList(deckService, logg))

			r.Route("/{deckID}", func(r chi.Router) {
				r.Get("/", controllers.DeckDetail(deckService, logg))
				r.Delete("/", controllers.DeckDelete(deckService, logg))
				r.Get("/role", controllers.DeckRole(sharingService, logg))

				r.Route("/members", func(r chi.Router) {
					r.Put("/{userID}", controllers.MemberUpsert(sharingService, logg))
					r.Delete("/{userID}", controllers.MemberRemove(sharingService, logg))
				})

				r.Route("/invites", func(r chi.Router) {
					r.Post("/", controllers.InviteCreate(inviteService, logg))
					r.Get("/", controllers.InviteList(inviteService, logg))
					r.Post("/accept", controllers.InviteAccept(inviteService, logg))
					r.Delete("/{inviteID}", controllers.InviteRevoke(inviteService, logg))
				})
			})
		})
	})

	return r
}
