package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/pkg/enums"
)

// Order is the purchase record. Amounts are frozen at creation time;
// later catalog price changes never affect an existing order.
type Order struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey"`
	OrderNumber     string               `gorm:"column:order_number;type:text;not null;uniqueIndex"`
	UserID          *uuid.UUID           `gorm:"column:user_id;type:uuid"`
	User            *User                `gorm:"foreignKey:UserID"`
	Email           string               `gorm:"type:text;not null"`
	Status          enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(10,2);not null"`
	TaxAmount       decimal.Decimal      `gorm:"column:tax_amount;type:numeric(10,2);not null"`
	ShippingCost    decimal.Decimal      `gorm:"column:shipping_cost;type:numeric(10,2);not null"`
	ShippingAddress string               `gorm:"column:shipping_address;type:text;not null"`
	BillingAddress  string               `gorm:"column:billing_address;type:text;not null"`
	PhoneNumber     string               `gorm:"column:phone_number;type:text;not null;default:''"`
	Notes           string               `gorm:"column:notes;type:text;not null;default:''"`
	PaidAt          *time.Time           `gorm:"column:paid_at"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory   []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// GrandTotal is items subtotal plus tax and shipping.
func (o *Order) GrandTotal() decimal.Decimal {
	return o.TotalAmount.Add(o.TaxAmount).Add(o.ShippingCost)
}

// OrderItem is a line of an order. Price and product name are
// snapshots taken at creation; the row is immutable afterwards.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	Product     *Product        `gorm:"foreignKey:ProductID"`
	ProductName string          `gorm:"column:product_name;type:text;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Subtotal is price times quantity.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistory is the append-only transition log. Rows are never
// updated or deleted.
type OrderStatusHistory struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	Notes     string            `gorm:"column:notes;type:text;not null;default:''"`
	CreatedBy *uuid.UUID        `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (h *OrderStatusHistory) BeforeCreate(_ *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
