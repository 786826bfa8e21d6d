package controllers

import (
	"net/http"

	"github.com/quadworks/storefront/api/responses"
	"github.com/quadworks/storefront/api/validators"
	"github.com/quadworks/storefront/internal/users"
	"github.com/quadworks/storefront/pkg/logger"
)

func ProfileFetch(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// ProfileUpdate applies a partial update; absent fields stay untouched.
func ProfileUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input users.UpdateProfileInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.UpdateProfile(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func PasswordChange(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input users.ChangePasswordInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ChangePassword(r.Context(), userID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "password_changed"})
	}
}
