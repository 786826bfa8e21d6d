package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quadworks/storefront/internal/cart"
	"github.com/quadworks/storefront/pkg/config"
	dbpkg "github.com/quadworks/storefront/pkg/db"
	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/logger"
	"github.com/quadworks/storefront/pkg/outbox"
	"github.com/quadworks/storefront/pkg/pagination"
)

// ErrEmptyCart rejects checkout of an empty cart before any row is
// written.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type cartStore interface {
	Get(ctx context.Context, userID uuid.UUID) (cart.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Service defines order-level operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	GetAdmin(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListAdmin(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, input UpdatePaymentInput) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) error
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	cart     cartStore
	logg     *logger.Logger
	taxRate  decimal.Decimal
	shipping decimal.Decimal
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, carts cartStore, logg *logger.Logger, cfg config.OrderConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   publisher,
		cart:     carts,
		logg:     logg,
		taxRate:  cfg.TaxRateDecimal(),
		shipping: cfg.ShippingCostDecimal(),
	}, nil
}

// Create turns the caller's cart into an order in a single transaction:
// price snapshots, guarded stock decrements, totals, items, the initial
// history row, and the order.created outbox event all commit together.
// The cart is cleared only after commit; a clear failure is logged and
// swallowed because the order already exists.
func (s *service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ShippingAddress == "" || input.BillingAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping and billing addresses are required")
	}

	userCart, err := s.cart.Get(ctx, input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if userCart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	var result *CreateResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		items := make([]models.OrderItem, 0, userCart.Len())
		total := decimal.Zero
		for _, line := range userCart.Lines {
			product, err := repo.FindProduct(ctx, line.ProductID)
			if err != nil {
				if dbpkg.IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "a cart item is no longer available")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if !product.IsActive {
				return pkgerrors.Newf(pkgerrors.CodeStateConflict, "product %s is no longer available", product.Name)
			}

			decremented, err := repo.DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !decremented {
				return pkgerrors.Newf(pkgerrors.CodeStateConflict, "insufficient stock for %s", product.Name)
			}

			productID := product.ID
			item := models.OrderItem{
				ProductID:   &productID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price,
			}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}

		order := &models.Order{
			UserID:          &input.UserID,
			Email:           input.Email,
			Status:          enums.OrderStatusPending,
			PaymentStatus:   enums.PaymentStatusPending,
			TotalAmount:     total,
			TaxAmount:       total.Mul(s.taxRate).Round(2),
			ShippingCost:    s.shipping,
			ShippingAddress: input.ShippingAddress,
			BillingAddress:  input.BillingAddress,
			PhoneNumber:     input.PhoneNumber,
			Notes:           input.Notes,
		}
		if err := s.createWithFreshNumber(ctx, repo, order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		history := &models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    enums.OrderStatusPending,
			Notes:     "order placed",
			CreatedBy: &input.UserID,
		}
		if err := repo.AppendStatusHistory(ctx, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}

		snapshots := make([]outbox.OrderItemSnapshot, 0, len(items))
		for _, item := range items {
			snapshots = append(snapshots, outbox.OrderItemSnapshot{
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				Price:       item.Price,
			})
		}
		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderCreated,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: input.UserID, Role: enums.UserRoleCustomer.String()},
			Data: outbox.OrderCreatedPayload{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				Email:       order.Email,
				TotalAmount: order.TotalAmount,
				TaxAmount:   order.TaxAmount,
				Shipping:    order.ShippingCost,
				Items:       snapshots,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit order created event")
		}

		result = &CreateResult{OrderID: order.ID, OrderNumber: order.OrderNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.cart.Clear(ctx, input.UserID); err != nil {
		logCtx := s.logg.WithOrderID(s.logg.WithUserID(ctx, input.UserID.String()), result.OrderID.String())
		s.logg.Warn(logCtx, "cart clear failed after order commit: "+err.Error())
	}

	return result, nil
}

func (s *service) createWithFreshNumber(ctx context.Context, repo Repository, order *models.Order) error {
	for attempt := 0; attempt < 2; attempt++ {
		number, err := NewOrderNumber()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}
		order.OrderNumber = number

		err = repo.CreateOrder(ctx, order)
		if err == nil {
			return nil
		}
		if dbpkg.IsUniqueViolation(err) && attempt == 0 {
			order.ID = uuid.Nil
			continue
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return pkgerrors.New(pkgerrors.CodeDependency, "order number collision persisted after retry")
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Others' orders look identical to missing ones.
	if order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) GetAdmin(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrderWithHistory(ctx, orderID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListUserOrders(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) ListAdmin(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error) {
	if filters.Status != nil && !filters.Status.Valid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", *filters.Status)
	}
	list, err := s.repo.ListOrders(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// UpdateStatus applies an admin fulfillment transition: one order
// update, one history row, one outbox event, and stock restoration on
// cancellation, all in the same transaction.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		decision, err := DecideStatus(order.Status, input.Requested, input.ActorRole)
		if err != nil {
			return err
		}
		if decision.NoOp {
			updated = order
			return nil
		}

		if err := s.applyStatusChange(ctx, tx, repo, order, input.Requested, decision, input.Notes, input.ActorUserID, input.ActorRole); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel is the customer-facing path into the same transition table.
func (s *service) Cancel(ctx context.Context, input CancelInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.UserID == nil || *order.UserID != input.ActorUserID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}

		decision, err := DecideStatus(order.Status, enums.OrderStatusCancelled, enums.UserRoleCustomer)
		if err != nil {
			return err
		}

		return s.applyStatusChange(ctx, tx, repo, order, enums.OrderStatusCancelled, decision, "cancelled by customer", input.ActorUserID, enums.UserRoleCustomer)
	})
}

func (s *service) applyStatusChange(ctx context.Context, tx *gorm.DB, repo Repository, order *models.Order, requested enums.OrderStatus, decision Transition, notes string, actorID uuid.UUID, actorRole enums.UserRole) error {
	previous := order.Status

	if decision.RestoreStock {
		for _, item := range order.Items {
			if item.ProductID == nil || item.Quantity <= 0 {
				continue
			}
			if err := repo.RestoreStock(ctx, *item.ProductID, item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
			}
		}
	}

	if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"status": requested}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = requested

	historyNotes := fmt.Sprintf("status changed from %s to %s", previous, requested)
	if notes != "" {
		historyNotes = fmt.Sprintf("%s: %s", historyNotes, notes)
	}
	entry := &models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    requested,
		Notes:     historyNotes,
		CreatedBy: &actorID,
	}
	if err := repo.AppendStatusHistory(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
	}

	event := outbox.DomainEvent{
		EventType:     enums.OutboxEventOrderStatusChanged,
		AggregateType: enums.OutboxAggregateOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{UserID: actorID, Role: actorRole.String()},
		Data: outbox.OrderStatusChangedPayload{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Email:       order.Email,
			From:        previous,
			To:          requested,
			Notes:       notes,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit status changed event")
	}
	return nil
}

// UpdatePaymentStatus applies an admin payment transition. Moving to
// paid stamps paid_at exactly once; repeating the request is a no-op.
func (s *service) UpdatePaymentStatus(ctx context.Context, input UpdatePaymentInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		decision, err := DecidePayment(order.PaymentStatus, input.Requested, order.PaidAt != nil)
		if err != nil {
			return err
		}
		if decision.NoOp {
			updated = order
			return nil
		}

		previous := order.PaymentStatus
		updates := map[string]any{"payment_status": input.Requested}
		if decision.StampPaidAt {
			now := time.Now().UTC()
			updates["paid_at"] = now
			order.PaidAt = &now
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
		}
		order.PaymentStatus = input.Requested

		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderPaymentChanged,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, Role: enums.UserRoleAdmin.String()},
			Data: outbox.OrderPaymentChangedPayload{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				Email:       order.Email,
				From:        previous,
				To:          input.Requested,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit payment changed event")
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
