package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/logger"
	"github.com/quadworks/storefront/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessResponse{Data: data})
}

// WriteList wraps a page of results together with its cursor metadata.
func WriteList(w http.ResponseWriter, data any, count int, nextCursor string, hasMore bool) {
	writeJSON(w, http.StatusOK, types.SuccessResponse{
		Data: data,
		Meta: &types.ListMeta{
			NextCursor: nextCursor,
			HasMore:    hasMore,
			Count:      count,
		},
	})
}

// WriteError renders err in the API error envelope. Internal and
// dependency failures are logged with their cause; the client only ever
// sees the classified message.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	code := pkgerrors.CodeOf(err)
	message := pkgerrors.MessageOf(err)

	if logg != nil {
		switch code {
		case pkgerrors.CodeInternal, pkgerrors.CodeDependency:
			logg.Error(ctx, "request.error", err)
		default:
			logg.Warn(logg.WithField(ctx, "error_code", string(code)), "request.rejected")
		}
	}

	payload := types.ErrorResponse{
		Error: types.ErrorBody{
			Code:    string(code),
			Message: message,
			Fields:  pkgerrors.FieldsOf(err),
		},
	}
	writeJSON(w, pkgerrors.HTTPStatus(err), payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
