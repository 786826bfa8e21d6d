package controllers

import (
	"net/http"

	"github.com/quadworks/storefront/api/middleware"
	"github.com/quadworks/storefront/api/responses"
	"github.com/quadworks/storefront/api/validators"
	"github.com/quadworks/storefront/internal/orders"
	"github.com/quadworks/storefront/pkg/logger"
)

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
	BillingAddress  string `json:"billing_address" validate:"required"`
	PhoneNumber     string `json:"phone_number"`
	Notes           string `json:"notes"`
}

// OrdersCreate turns the caller's cart into an order. An empty cart is
// rejected with a conflict before anything is written.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), orders.CreateInput{
			UserID:          userID,
			Email:           middleware.EmailFromContext(r.Context()),
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			PhoneNumber:     req.PhoneNumber,
			Notes:           req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForUser(r.Context(), userID, validators.PaginationParams(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page := orders.FromModels(list.Orders)
		responses.WriteList(w, page, len(page), list.NextCursor, list.HasMore)
	}
}

func OrdersDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetForUser(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.FromModel(order))
	}
}

// OrdersCancel lets a customer cancel their own order while it is still
// pending.
func OrdersCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), orders.CancelInput{OrderID: orderID, ActorUserID: userID}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}
