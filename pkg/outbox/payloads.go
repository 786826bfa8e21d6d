package outbox

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quadworks/storefront/pkg/enums"
)

// OrderCreatedPayload is emitted when an order commits.
type OrderCreatedPayload struct {
	OrderID     uuid.UUID           `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	Email       string              `json:"email"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	TaxAmount   decimal.Decimal     `json:"tax_amount"`
	Shipping    decimal.Decimal     `json:"shipping_cost"`
	Items       []OrderItemSnapshot `json:"items"`
}

// OrderItemSnapshot mirrors one order line for email rendering.
type OrderItemSnapshot struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderStatusChangedPayload is emitted on every fulfillment transition.
type OrderStatusChangedPayload struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Email       string            `json:"email"`
	From        enums.OrderStatus `json:"from"`
	To          enums.OrderStatus `json:"to"`
	Notes       string            `json:"notes,omitempty"`
}

// OrderPaymentChangedPayload is emitted on payment status transitions.
type OrderPaymentChangedPayload struct {
	OrderID     uuid.UUID           `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	Email       string              `json:"email"`
	From        enums.PaymentStatus `json:"from"`
	To          enums.PaymentStatus `json:"to"`
}
