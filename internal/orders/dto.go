package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
)

// CreateInput captures everything the checkout endpoint collects.
type CreateInput struct {
	UserID          uuid.UUID
	Email           string
	ShippingAddress string
	BillingAddress  string
	PhoneNumber     string
	Notes           string
}

// CreateResult is returned to the client after a successful checkout.
type CreateResult struct {
	OrderID     uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
}

// UpdateStatusInput carries an admin fulfillment transition request.
type UpdateStatusInput struct {
	OrderID     uuid.UUID
	Requested   enums.OrderStatus
	Notes       string
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

// UpdatePaymentInput carries an admin payment transition request.
type UpdatePaymentInput struct {
	OrderID     uuid.UUID
	Requested   enums.PaymentStatus
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

// CancelInput carries a customer cancellation request.
type CancelInput struct {
	OrderID     uuid.UUID
	ActorUserID uuid.UUID
}

// OrderDTO is the transport shape of an order. GrandTotal is derived,
// never stored.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	Email           string              `json:"email"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	GrandTotal      decimal.Decimal     `json:"grand_total"`
	ShippingAddress string              `json:"shipping_address"`
	BillingAddress  string              `json:"billing_address"`
	PhoneNumber     string              `json:"phone_number,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	Items           []OrderItemDTO      `json:"items,omitempty"`
	StatusHistory   []StatusHistoryDTO  `json:"status_history,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderItemDTO carries the immutable snapshot of one purchased line.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// StatusHistoryDTO is one row of the append-only transition log.
type StatusHistoryDTO struct {
	Status    enums.OrderStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	CreatedBy *uuid.UUID        `json:"created_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
		})
	}
	history := make([]StatusHistoryDTO, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, StatusHistoryDTO{
			Status:    h.Status,
			Notes:     h.Notes,
			CreatedBy: h.CreatedBy,
			CreatedAt: h.CreatedAt,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Email:           o.Email,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		TotalAmount:     o.TotalAmount,
		TaxAmount:       o.TaxAmount,
		ShippingCost:    o.ShippingCost,
		GrandTotal:      o.GrandTotal(),
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		PhoneNumber:     o.PhoneNumber,
		Notes:           o.Notes,
		PaidAt:          o.PaidAt,
		Items:           items,
		StatusHistory:   history,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func FromModels(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *FromModel(&orders[i]))
	}
	return out
}
