package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/deckshareapp/deckshare-backend/api/responses"
	"github.com/deckshareapp/deckshare-backend/pkg/config"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
	"github.com/deckshareapp/deckshare-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DeckShare-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness by pinging the critical dependencies.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DeckShare-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").
						WithDetails(map[string]any{"dependency": name}))
				return
			}
			checks[name] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

// ReadinessDeps assembles the readiness check set from the wired clients.
func ReadinessDeps(db, redis pinger) map[string]pinger {
	return map[string]pinger{
		"postgres": db,
		"redis":    redis,
	}
}
