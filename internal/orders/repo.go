package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) AppendStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderWithHistory(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID)
	return r.paginate(query, params)
}

func (r *repository) ListOrders(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error) {
	query := r.db.WithContext(ctx).Preload("Items")
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	return r.paginate(query, params)
}

func (r *repository) paginate(query *gorm.DB, params pagination.Params) (*OrderList, error) {
	cursor, err := pagination.Parse(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Order
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &OrderList{Orders: rows}
	if len(rows) > limit {
		list.Orders = rows[:limit]
		list.HasMore = true
		last := list.Orders[limit-1]
		list.NextCursor = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (r *repository) FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock guards against oversell at the SQL level; concurrent
// checkouts race on the same row and only one can win the last unit.
func (r *repository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) RestoreStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}
