package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
	"github.com/quadworks/storefront/pkg/pagination"
)

// Repository defines persistence operations for order tables plus the
// stock adjustments that belong to the same transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	AppendStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error

	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderWithHistory(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListOrders(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error)

	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error

	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	// DecrementStock subtracts qty guarded by stock >= qty and reports
	// whether a row was updated.
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
	RestoreStock(ctx context.Context, productID uuid.UUID, qty int) error
}

// ListFilters narrows admin order listings.
type ListFilters struct {
	Status *enums.OrderStatus
}

// OrderList is one page of orders plus the cursor to the next.
type OrderList struct {
	Orders     []models.Order
	NextCursor string
	HasMore    bool
}
