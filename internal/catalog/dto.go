package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
)

// ProductFilters narrows the public product listing. Unknown values
// are dropped by the query parser before they reach here.
type ProductFilters struct {
	Query        string
	CategorySlug string
	BrandSlug    string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Featured     *bool
	Sort         enums.ProductSort
}

// ProductList is one page of products plus the cursor to the next.
type ProductList struct {
	Products   []models.Product
	NextCursor string
	HasMore    bool
}

// ProductInput covers admin create and update.
type ProductInput struct {
	Name        string
	SKU         string
	Description string
	CategoryID  *uuid.UUID
	ModelID     *uuid.UUID
	Price       decimal.Decimal
	Stock       int
	Featured    bool
	IsActive    bool
}

// BrandInput covers admin brand create and update.
type BrandInput struct {
	Name     string
	ImageURL *string
}

// CategoryInput covers admin category create and update.
type CategoryInput struct {
	Name        string
	Description string
}

// ModelInput covers admin vehicle model create and update.
type ModelInput struct {
	BrandID uuid.UUID
	Name    string
}

// ImageInput attaches one display asset to a product.
type ImageInput struct {
	URL       string
	AltText   *string
	IsPrimary bool
	Position  int
}

// ProductDTO is the transport shape of a product with its preloaded
// associations flattened for clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Category    *CategoryDTO    `json:"category,omitempty"`
	Model       *ModelDTO       `json:"model,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	IsActive    bool            `json:"is_active"`
	Images      []ImageDTO      `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type BrandDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	ImageURL *string   `json:"image_url,omitempty"`
}

type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
}

type ModelDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Brand *BrandDTO `json:"brand,omitempty"`
}

type ImageDTO struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	AltText   *string   `json:"alt_text,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	Position  int       `json:"position"`
}

func ProductFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	images := make([]ImageDTO, 0, len(p.Images))
	for i := range p.Images {
		images = append(images, *ImageFromModel(&p.Images[i]))
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		SKU:         p.SKU,
		Description: p.Description,
		Category:    CategoryFromModel(p.Category),
		Model:       ModelFromModel(p.Model),
		Price:       p.Price,
		Stock:       p.Stock,
		Featured:    p.Featured,
		IsActive:    p.IsActive,
		Images:      images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ProductsFromModels(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *ProductFromModel(&products[i]))
	}
	return out
}

func BrandFromModel(b *models.Brand) *BrandDTO {
	if b == nil {
		return nil
	}
	return &BrandDTO{ID: b.ID, Name: b.Name, Slug: b.Slug, ImageURL: b.ImageURL}
}

func BrandsFromModels(brands []models.Brand) []BrandDTO {
	out := make([]BrandDTO, 0, len(brands))
	for i := range brands {
		out = append(out, *BrandFromModel(&brands[i]))
	}
	return out
}

func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

func CategoriesFromModels(categories []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *CategoryFromModel(&categories[i]))
	}
	return out
}

func ModelFromModel(m *models.ProductModel) *ModelDTO {
	if m == nil {
		return nil
	}
	return &ModelDTO{ID: m.ID, Name: m.Name, Slug: m.Slug, Brand: BrandFromModel(m.Brand)}
}

func ModelsFromModels(productModels []models.ProductModel) []ModelDTO {
	out := make([]ModelDTO, 0, len(productModels))
	for i := range productModels {
		out = append(out, *ModelFromModel(&productModels[i]))
	}
	return out
}

func ImageFromModel(i *models.ProductImage) *ImageDTO {
	if i == nil {
		return nil
	}
	return &ImageDTO{ID: i.ID, URL: i.URL, AltText: i.AltText, IsPrimary: i.IsPrimary, Position: i.Position}
}
