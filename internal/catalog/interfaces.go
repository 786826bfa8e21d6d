package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/pagination"
)

// Repository defines persistence operations for the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductList, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListBrands(ctx context.Context) ([]models.Brand, error)
	FindBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	CreateBrand(ctx context.Context, brand *models.Brand) error
	UpdateBrand(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListModels(ctx context.Context, brandSlug string) ([]models.ProductModel, error)
	FindModel(ctx context.Context, id uuid.UUID) (*models.ProductModel, error)
	CreateModel(ctx context.Context, model *models.ProductModel) error
	UpdateModel(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteModel(ctx context.Context, id uuid.UUID) error

	CreateImage(ctx context.Context, image *models.ProductImage) error
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error
}
