package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quadworks/storefront/api/middleware"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
)

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrapf(pkgerrors.CodeValidation, err, "invalid %s", name)
	}
	return id, nil
}

// actorID reads the authenticated user id seeded by the auth middleware.
func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	return id, nil
}
