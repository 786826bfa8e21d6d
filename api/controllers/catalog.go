package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quadworks/storefront/api/responses"
	"github.com/quadworks/storefront/api/validators"
	"github.com/quadworks/storefront/internal/catalog"
	"github.com/quadworks/storefront/pkg/enums"
	"github.com/quadworks/storefront/pkg/logger"
)

// ProductsList serves the public catalog listing. Unknown sort values
// and malformed price bounds are ignored rather than rejected.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := catalog.ProductFilters{
			Query:        validators.QueryString(r, "q"),
			CategorySlug: validators.QueryString(r, "category"),
			BrandSlug:    validators.QueryString(r, "brand"),
			MinPrice:     validators.QueryDecimal(r, "min_price"),
			MaxPrice:     validators.QueryDecimal(r, "max_price"),
			Featured:     validators.QueryBool(r, "featured"),
			Sort:         enums.ProductSort(validators.QueryString(r, "sort")).OrDefault(),
		}

		list, err := svc.ListProducts(r.Context(), filters, validators.PaginationParams(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page := catalog.ProductsFromModels(list.Products)
		responses.WriteList(w, page, len(page), list.NextCursor, list.HasMore)
	}
}

func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		product, err := svc.GetProductBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.ProductFromModel(product))
	}
}

func BrandsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brands, err := svc.ListBrands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.BrandsFromModels(brands))
	}
}

func CategoriesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.CategoriesFromModels(categories))
	}
}

// ModelsList serves vehicle models, optionally narrowed to one brand.
func ModelsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productModels, err := svc.ListModels(r.Context(), validators.QueryString(r, "brand"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.ModelsFromModels(productModels))
	}
}
