package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quadworks/storefront/api/responses"
	"github.com/quadworks/storefront/api/validators"
	"github.com/quadworks/storefront/internal/catalog"
	"github.com/quadworks/storefront/pkg/logger"
)

type productRequest struct {
	Name        string          `json:"name" validate:"required"`
	SKU         string          `json:"sku" validate:"required"`
	Description string          `json:"description"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	ModelID     *uuid.UUID      `json:"model_id"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"min=0"`
	Featured    bool            `json:"featured"`
	IsActive    *bool           `json:"is_active"`
}

func (r productRequest) toInput() catalog.ProductInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return catalog.ProductInput{
		Name:        r.Name,
		SKU:         r.SKU,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		ModelID:     r.ModelID,
		Price:       r.Price,
		Stock:       r.Stock,
		Featured:    r.Featured,
		IsActive:    active,
	}
}

func AdminProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.ProductFromModel(product))
	}
}

func AdminProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), productID, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.ProductFromModel(product))
	}
}

func AdminProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type imageRequest struct {
	URL       string  `json:"url" validate:"required,url"`
	AltText   *string `json:"alt_text"`
	IsPrimary bool    `json:"is_primary"`
	Position  int     `json:"position" validate:"min=0"`
}

func AdminProductImageAttach(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req imageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		image, err := svc.AttachImage(r.Context(), productID, catalog.ImageInput{
			URL:       req.URL,
			AltText:   req.AltText,
			IsPrimary: req.IsPrimary,
			Position:  req.Position,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.ImageFromModel(image))
	}
}

func AdminProductImageDetach(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		imageID, err := uuidParam(r, "imageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DetachImage(r.Context(), productID, imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type brandRequest struct {
	Name     string  `json:"name" validate:"required"`
	ImageURL *string `json:"image_url"`
}

func AdminBrandCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req brandRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brand, err := svc.CreateBrand(r.Context(), catalog.BrandInput{Name: req.Name, ImageURL: req.ImageURL})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.BrandFromModel(brand))
	}
}

func AdminBrandUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, err := uuidParam(r, "brandId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req brandRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brand, err := svc.UpdateBrand(r.Context(), brandID, catalog.BrandInput{Name: req.Name, ImageURL: req.ImageURL})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.BrandFromModel(brand))
	}
}

func AdminBrandDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, err := uuidParam(r, "brandId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteBrand(r.Context(), brandID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func AdminCategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.CreateCategory(r.Context(), catalog.CategoryInput{Name: req.Name, Description: req.Description})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.CategoryFromModel(category))
	}
}

func AdminCategoryUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uuidParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req categoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.UpdateCategory(r.Context(), categoryID, catalog.CategoryInput{Name: req.Name, Description: req.Description})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.CategoryFromModel(category))
	}
}

func AdminCategoryDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uuidParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteCategory(r.Context(), categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type modelRequest struct {
	BrandID uuid.UUID `json:"brand_id" validate:"required"`
	Name    string    `json:"name" validate:"required"`
}

func AdminModelCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req modelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		model, err := svc.CreateModel(r.Context(), catalog.ModelInput{BrandID: req.BrandID, Name: req.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, catalog.ModelFromModel(model))
	}
}

func AdminModelUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modelID, err := uuidParam(r, "modelId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req modelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		model, err := svc.UpdateModel(r.Context(), modelID, catalog.ModelInput{BrandID: req.BrandID, Name: req.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.ModelFromModel(model))
	}
}

func AdminModelDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modelID, err := uuidParam(r, "modelId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteModel(r.Context(), modelID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
