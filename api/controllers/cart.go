package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/quadworks/storefront/api/responses"
	"github.com/quadworks/storefront/api/validators"
	"github.com/quadworks/storefront/internal/cart"
	"github.com/quadworks/storefront/internal/catalog"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/logger"
)

type cartLineView struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Items []cartLineView  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func viewCart(c cart.Cart) cartView {
	items := make([]cartLineView, 0, c.Len())
	for _, line := range c.Lines {
		items = append(items, cartLineView{
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		})
	}
	return cartView{Items: items, Total: c.Total()}
}

func CartFetch(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userCart, err := store.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart"))
			return
		}
		responses.WriteSuccess(w, viewCart(userCart))
	}
}

type cartAddRequest struct {
	Quantity int  `json:"quantity" validate:"required,gt=0"`
	Override bool `json:"override"`
}

// CartAddItem merges a product into the caller's cart, snapshotting the
// current catalog price on the new line. Inactive products are refused.
func CartAddItem(store *cart.Store, products catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cartAddRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.IsActive {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeConflict, "product is not available"))
			return
		}

		userCart, err := store.Add(r.Context(), userID, productID, product.Price, req.Quantity, req.Override)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart"))
			return
		}
		responses.WriteSuccess(w, viewCart(userCart))
	}
}

func CartRemoveItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userCart, err := store.Remove(r.Context(), userID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart"))
			return
		}
		responses.WriteSuccess(w, viewCart(userCart))
	}
}

func CartClear(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cleared, err := store.Clear(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": cleared})
	}
}
