package controllers

import (
	"net/http"

	"github.com/quadworks/storefront/api/responses"
	"github.com/quadworks/storefront/api/validators"
	"github.com/quadworks/storefront/internal/users"
	"github.com/quadworks/storefront/pkg/logger"
)

func AdminUsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := users.ListFilters{Query: validators.QueryString(r, "q")}
		list, err := svc.List(r.Context(), filters, validators.PaginationParams(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, list.Users, len(list.Users), list.NextCursor, list.HasMore)
	}
}

func AdminUserDetail(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuidParam(r, "userId")
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

// AdminUserUpdate flips the role or active flag of an account.
func AdminUserUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input users.AdminUpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.AdminUpdate(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AdminUserDelete removes an account. Admins cannot delete themselves.
func AdminUserDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := uuidParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), adminID, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
