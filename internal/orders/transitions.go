package orders

import (
	"github.com/quadworks/storefront/pkg/enums"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
)

// Transition is the outcome of a status decision. NoOp means the order
// is already in the requested state and nothing should be written.
// RestoreStock means every line with a surviving product gets its
// quantity added back, inside the same transaction as the update.
type Transition struct {
	NoOp         bool
	RestoreStock bool
}

// cancellationBlocked lists the states an order cannot be cancelled
// from: already cancelled, or too far along fulfillment.
func cancellationBlocked(current enums.OrderStatus) bool {
	switch current {
	case enums.OrderStatusCancelled, enums.OrderStatusShipped, enums.OrderStatusDelivered:
		return true
	}
	return false
}

// DecideStatus is the single authority on fulfillment transitions.
// Every status change, customer cancel and admin update alike, goes
// through this table.
func DecideStatus(current, requested enums.OrderStatus, actor enums.UserRole) (Transition, error) {
	if !requested.Valid() {
		return Transition{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", requested)
	}

	if requested == current {
		if actor == enums.UserRoleAdmin {
			return Transition{NoOp: true}, nil
		}
		return Transition{}, pkgerrors.Newf(pkgerrors.CodeStateConflict, "order is already %s", current)
	}

	if actor != enums.UserRoleAdmin && requested != enums.OrderStatusCancelled {
		return Transition{}, pkgerrors.New(pkgerrors.CodeForbidden, "only cancellation can be requested")
	}

	if requested == enums.OrderStatusCancelled {
		if cancellationBlocked(current) {
			return Transition{}, pkgerrors.Newf(pkgerrors.CodeStateConflict, "order cannot be cancelled while %s", current)
		}
		return Transition{RestoreStock: true}, nil
	}

	return Transition{}, nil
}

// PaymentTransition is the outcome of a payment status decision.
// StampPaidAt is set only on the first move to paid so paid_at is
// written exactly once.
type PaymentTransition struct {
	NoOp        bool
	StampPaidAt bool
}

// DecidePayment rules on payment status changes, admin-only surface.
func DecidePayment(current, requested enums.PaymentStatus, paidAtSet bool) (PaymentTransition, error) {
	if !requested.Valid() {
		return PaymentTransition{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid payment status %q", requested)
	}
	if requested == current {
		return PaymentTransition{NoOp: true}, nil
	}
	if requested == enums.PaymentStatusPaid && !paidAtSet {
		return PaymentTransition{StampPaidAt: true}, nil
	}
	return PaymentTransition{}, nil
}
