package controllers

import (
	"net/http"
	"strings"

	"github.com/quadworks/storefront/api/responses"
	"github.com/quadworks/storefront/api/validators"
	"github.com/quadworks/storefront/internal/auth"
	pkgauth "github.com/quadworks/storefront/pkg/auth"
	"github.com/quadworks/storefront/pkg/config"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/logger"
)

func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Register(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AuthLogout revokes the session named by the presented token's jti. An
// expired token still logs out; only the signature must check out.
func AuthLogout(svc auth.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		claims, err := pkgauth.ParseAccessTokenAllowExpired(jwtCfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		if err := svc.Logout(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RefreshRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Refresh(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
