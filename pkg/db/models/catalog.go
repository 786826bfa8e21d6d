package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Brand is a parts manufacturer.
type Brand struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:text;not null;uniqueIndex"`
	Slug      string    `gorm:"type:text;not null;uniqueIndex"`
	ImageURL  *string   `gorm:"column:image_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Brand) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Category groups products for browsing.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:text;not null;uniqueIndex"`
	Slug        string    `gorm:"type:text;not null;uniqueIndex"`
	Description string    `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ProductModel is a vehicle model a part fits, owned by a brand.
type ProductModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BrandID   uuid.UUID `gorm:"column:brand_id;type:uuid;not null"`
	Brand     *Brand    `gorm:"foreignKey:BrandID"`
	Name      string    `gorm:"type:text;not null"`
	Slug      string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *ProductModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Product is a sellable catalog item. Stock never goes below zero;
// decrements are guarded at the SQL level.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:text;not null"`
	Slug        string          `gorm:"type:text;not null;uniqueIndex"`
	SKU         string          `gorm:"column:sku;type:text;not null;uniqueIndex"`
	Description string          `gorm:"type:text;not null;default:''"`
	CategoryID  *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
	ModelID     *uuid.UUID      `gorm:"column:model_id;type:uuid"`
	Model       *ProductModel   `gorm:"foreignKey:ModelID"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	Featured    bool            `gorm:"column:featured;not null;default:false"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductImage is a display asset attached to a product.
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	URL       string    `gorm:"column:url;type:text;not null"`
	AltText   *string   `gorm:"column:alt_text"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (i *ProductImage) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
