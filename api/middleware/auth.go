package middleware

import (
	"net/http"
	"strings"

	"github.com/quadworks/storefront/api/responses"
	pkgauth "github.com/quadworks/storefront/pkg/auth"
	"github.com/quadworks/storefront/pkg/auth/session"
	"github.com/quadworks/storefront/pkg/config"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/logger"
)

// Auth validates a bearer token, confirms the session is still live in
// Redis, and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
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

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			ctx = WithRole(ctx, string(claims.Role))
			ctx = WithEmail(ctx, claims.Email)
			ctx = WithAccessID(ctx, claims.ID)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
