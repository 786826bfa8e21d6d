package controllers

import (
	"net/http"

	"github.com/quadworks/storefront/api/middleware"
	"github.com/quadworks/storefront/api/responses"
	"github.com/quadworks/storefront/api/validators"
	"github.com/quadworks/storefront/internal/orders"
	"github.com/quadworks/storefront/pkg/enums"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/logger"
)

func AdminOrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filters orders.ListFilters
		if raw := validators.QueryString(r, "status"); raw != "" {
			status := enums.OrderStatus(raw)
			if !status.Valid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Newf(pkgerrors.CodeValidation, "unknown status %q", raw))
				return
			}
			filters.Status = &status
		}

		list, err := svc.ListAdmin(r.Context(), filters, validators.PaginationParams(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page := orders.FromModels(list.Orders)
		responses.WriteList(w, page, len(page), list.NextCursor, list.HasMore)
	}
}

func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetAdmin(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.FromModel(order))
	}
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// AdminOrderStatus applies one fulfillment transition. The transition
// table in the orders service decides whether the move is legal.
func AdminOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requested := enums.OrderStatus(req.Status)
		if !requested.Valid() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Newf(pkgerrors.CodeValidation, "unknown status %q", req.Status))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
			OrderID:     orderID,
			Requested:   requested,
			Notes:       req.Notes,
			ActorUserID: adminID,
			ActorRole:   enums.UserRole(middleware.RoleFromContext(r.Context())),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.FromModel(order))
	}
}

type paymentUpdateRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

func AdminOrderPaymentStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req paymentUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requested := enums.PaymentStatus(req.PaymentStatus)
		if !requested.Valid() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Newf(pkgerrors.CodeValidation, "unknown payment status %q", req.PaymentStatus))
			return
		}

		order, err := svc.UpdatePaymentStatus(r.Context(), orders.UpdatePaymentInput{
			OrderID:     orderID,
			Requested:   requested,
			ActorUserID: adminID,
			ActorRole:   enums.UserRole(middleware.RoleFromContext(r.Context())),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.FromModel(order))
	}
}
