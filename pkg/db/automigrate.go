package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/db/models"
)

// AutoMigrate syncs the schema from the model definitions. Dev-only;
// production schemas move through the goose migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Brand{},
		&models.Category{},
		&models.ProductModel{},
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.OutboxEvent{},
	); err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}
	return nil
}
