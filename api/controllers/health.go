package controllers

import (
	"context"
	"net/http"

	"github.com/quadworks/storefront/api/responses"
	"github.com/quadworks/storefront/pkg/config"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/logger"
)

// Pinger is the readiness contract a backing service must satisfy.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrapf(pkgerrors.CodeDependency, err, "%s unavailable", name))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
