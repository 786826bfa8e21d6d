package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	dbpkg "github.com/quadworks/storefront/pkg/db"
	"github.com/quadworks/storefront/pkg/db/models"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/pagination"
)

// Service exposes the catalog read surface plus admin CRUD.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductList, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AttachImage(ctx context.Context, productID uuid.UUID, input ImageInput) (*models.ProductImage, error)
	DetachImage(ctx context.Context, productID, imageID uuid.UUID) error

	ListBrands(ctx context.Context) ([]models.Brand, error)
	CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, input BrandInput) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListModels(ctx context.Context, brandSlug string) ([]models.ProductModel, error)
	CreateModel(ctx context.Context, input ModelInput) (*models.ProductModel, error)
	UpdateModel(ctx context.Context, id uuid.UUID, input ModelInput) (*models.ProductModel, error)
	DeleteModel(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductList, error) {
	list, err := s.repo.ListProducts(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.repo.FindProductBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Slug:        Slugify(input.Name),
		SKU:         input.SKU,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		ModelID:     input.ModelID,
		Price:       input.Price,
		Stock:       input.Stock,
		Featured:    input.Featured,
		IsActive:    input.IsActive,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug or sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":        input.Name,
		"slug":        Slugify(input.Name),
		"sku":         input.SKU,
		"description": input.Description,
		"category_id": input.CategoryID,
		"model_id":    input.ModelID,
		"price":       input.Price,
		"stock":       input.Stock,
		"featured":    input.Featured,
		"is_active":   input.IsActive,
	}
	if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
		return nil, s.mapWriteError(err, "product")
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a catalog row. Order items keep their snapshot
// and their product_id goes null at the database level.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return s.mapWriteError(err, "product")
	}
	return nil
}

func (s *service) AttachImage(ctx context.Context, productID uuid.UUID, input ImageInput) (*models.ProductImage, error) {
	if strings.TrimSpace(input.URL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	image := &models.ProductImage{
		ProductID: productID,
		URL:       input.URL,
		AltText:   input.AltText,
		IsPrimary: input.IsPrimary,
		Position:  input.Position,
	}
	if err := s.repo.CreateImage(ctx, image); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach image")
	}
	return image, nil
}

func (s *service) DetachImage(ctx context.Context, productID, imageID uuid.UUID) error {
	if err := s.repo.DeleteImage(ctx, productID, imageID); err != nil {
		return s.mapWriteError(err, "image")
	}
	return nil
}

func (s *service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return brands, nil
}

func (s *service) CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name is required")
	}
	brand := &models.Brand{
		Name:     input.Name,
		Slug:     Slugify(input.Name),
		ImageURL: input.ImageURL,
	}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create brand")
	}
	return brand, nil
}

func (s *service) UpdateBrand(ctx context.Context, id uuid.UUID, input BrandInput) (*models.Brand, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name is required")
	}
	updates := map[string]any{
		"name":      input.Name,
		"slug":      Slugify(input.Name),
		"image_url": input.ImageURL,
	}
	if err := s.repo.UpdateBrand(ctx, id, updates); err != nil {
		return nil, s.mapWriteError(err, "brand")
	}
	brand, err := s.repo.FindBrand(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}
	return brand, nil
}

func (s *service) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteBrand(ctx, id); err != nil {
		return s.mapWriteError(err, "brand")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category := &models.Category{
		Name:        input.Name,
		Slug:        Slugify(input.Name),
		Description: input.Description,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	updates := map[string]any{
		"name":        input.Name,
		"slug":        Slugify(input.Name),
		"description": input.Description,
	}
	if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
		return nil, s.mapWriteError(err, "category")
	}
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return s.mapWriteError(err, "category")
	}
	return nil
}

func (s *service) ListModels(ctx context.Context, brandSlug string) ([]models.ProductModel, error) {
	productModels, err := s.repo.ListModels(ctx, brandSlug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list models")
	}
	return productModels, nil
}

func (s *service) CreateModel(ctx context.Context, input ModelInput) (*models.ProductModel, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model name is required")
	}
	if input.BrandID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand id is required")
	}
	brand, err := s.repo.FindBrand(ctx, input.BrandID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}

	model := &models.ProductModel{
		BrandID: brand.ID,
		Name:    input.Name,
		Slug:    Slugify(brand.Name + " " + input.Name),
	}
	if err := s.repo.CreateModel(ctx, model); err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "model already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create model")
	}
	return model, nil
}

func (s *service) UpdateModel(ctx context.Context, id uuid.UUID, input ModelInput) (*models.ProductModel, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model name is required")
	}
	brand, err := s.repo.FindBrand(ctx, input.BrandID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}

	updates := map[string]any{
		"brand_id": brand.ID,
		"name":     input.Name,
		"slug":     Slugify(brand.Name + " " + input.Name),
	}
	if err := s.repo.UpdateModel(ctx, id, updates); err != nil {
		return nil, s.mapWriteError(err, "model")
	}
	model, err := s.repo.FindModel(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load model")
	}
	return model, nil
}

func (s *service) DeleteModel(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteModel(ctx, id); err != nil {
		return s.mapWriteError(err, "model")
	}
	return nil
}

func (s *service) mapWriteError(err error, entity string) error {
	if dbpkg.IsNotFound(err) {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "%s not found", entity)
	}
	if dbpkg.IsUniqueViolation(err) {
		return pkgerrors.Newf(pkgerrors.CodeConflict, "%s already exists", entity)
	}
	return pkgerrors.Wrapf(pkgerrors.CodeDependency, err, "write %s", entity)
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product sku is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	return nil
}
