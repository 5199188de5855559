package middleware

import (
	"net/http"
	"strings"

	"github.com/deckshareapp/deckshare-backend/api/responses"
	pkgAuth "github.com/deckshareapp/deckshare-backend/pkg/auth"
	"github.com/deckshareapp/deckshare-backend/pkg/config"
	pkgerrors "github.com/deckshareapp/deckshare-backend/pkg/errors"
	"github.com/deckshareapp/deckshare-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.Email == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing email claim"))
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithEmail(ctx, claims.Email)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id": claims.UserID.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
