package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Category").
		Preload("Model").
		Where("products.is_active = ?", true)

	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.
			Joins("LEFT JOIN product_models pm ON pm.id = products.model_id").
			Joins("LEFT JOIN brands b ON b.id = pm.brand_id").
			Where(
				"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.sku) LIKE ? OR LOWER(b.name) LIKE ?",
				pattern, pattern, pattern, pattern,
			)
	}
	if filters.CategorySlug != "" {
		query = query.Joins("JOIN categories c ON c.id = products.category_id").
			Where("c.slug = ?", filters.CategorySlug)
	}
	if filters.BrandSlug != "" {
		query = query.
			Joins("JOIN product_models bm ON bm.id = products.model_id").
			Joins("JOIN brands fb ON fb.id = bm.brand_id").
			Where("fb.slug = ?", filters.BrandSlug)
	}
	if filters.MinPrice != nil {
		query = query.Where("products.price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filters.MaxPrice)
	}
	if filters.Featured != nil {
		query = query.Where("products.featured = ?", *filters.Featured)
	}

	column, desc := filters.Sort.Column()
	direction := "ASC"
	if desc {
		direction = "DESC"
	}

	// Cursor pagination only composes with the created_at ordering;
	// other sorts page by offset-free scans of the first page.
	usesCursor := column == "created_at"
	cursor, err := pagination.Parse(params.Cursor)
	if err != nil {
		return nil, err
	}
	if usesCursor && cursor != nil {
		if desc {
			query = query.Where(
				"(products.created_at < ?) OR (products.created_at = ? AND products.id < ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
			)
		} else {
			query = query.Where(
				"(products.created_at > ?) OR (products.created_at = ? AND products.id > ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
			)
		}
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Product
	err = query.
		Order("products." + column + " " + direction).
		Order("products.id " + direction).
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &ProductList{Products: rows}
	if len(rows) > limit {
		list.Products = rows[:limit]
		list.HasMore = true
		if usesCursor {
			last := list.Products[limit-1]
			list.NextCursor = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		}
	}
	return list, nil
}

func (r *repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Category").
		Preload("Model").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.update(ctx, &models.Product{}, id, updates)
}

func (r *repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.Product{}, id)
}

func (r *repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error
	return brands, err
}

func (r *repository) FindBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *repository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *repository) UpdateBrand(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.update(ctx, &models.Brand{}, id, updates)
}

func (r *repository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.Brand{}, id)
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.update(ctx, &models.Category{}, id, updates)
}

func (r *repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.Category{}, id)
}

func (r *repository) ListModels(ctx context.Context, brandSlug string) ([]models.ProductModel, error) {
	query := r.db.WithContext(ctx).Preload("Brand").Order("name ASC")
	if brandSlug != "" {
		query = query.
			Joins("JOIN brands ON brands.id = product_models.brand_id").
			Where("brands.slug = ?", brandSlug)
	}
	var productModels []models.ProductModel
	err := query.Find(&productModels).Error
	return productModels, err
}

func (r *repository) FindModel(ctx context.Context, id uuid.UUID) (*models.ProductModel, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Preload("Brand").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *repository) CreateModel(ctx context.Context, model *models.ProductModel) error {
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *repository) UpdateModel(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.update(ctx, &models.ProductModel{}, id, updates)
}

func (r *repository) DeleteModel(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &models.ProductModel{}, id)
}

func (r *repository) CreateImage(ctx context.Context, image *models.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *repository) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&models.ProductImage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) update(ctx context.Context, model any, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) delete(ctx context.Context, model any, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
