package notifications

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/mailer"
	"github.com/quadworks/storefront/pkg/outbox"
)

// Composer turns stored outbox events into the emails they imply.
// order.created fans out to the customer plus every admin address;
// status and payment changes go to the customer only.
type Composer struct {
	adminEmails []string
}

func NewComposer(adminEmails []string) *Composer {
	return &Composer{adminEmails: adminEmails}
}

// Compose returns the messages for one event. Unknown event types return
// an error so the worker can park the row instead of retrying forever.
func (c *Composer) Compose(event *models.OutboxEvent) ([]mailer.Message, error) {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payload envelope")
	}

	switch event.EventType {
	case enums.OutboxEventOrderCreated:
		var payload outbox.OrderCreatedPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode order.created payload")
		}
		return c.orderCreated(payload), nil

	case enums.OutboxEventOrderStatusChanged:
		var payload outbox.OrderStatusChangedPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode order.status_changed payload")
		}
		return []mailer.Message{statusChanged(payload)}, nil

	case enums.OutboxEventOrderPaymentChanged:
		var payload outbox.OrderPaymentChangedPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode order.payment_changed payload")
		}
		return []mailer.Message{paymentChanged(payload)}, nil
	}

	return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown event type %q", event.EventType)
}

func (c *Composer) orderCreated(payload outbox.OrderCreatedPayload) []mailer.Message {
	var lines strings.Builder
	for _, item := range payload.Items {
		fmt.Fprintf(&lines, "  %d x %s @ %s\n", item.Quantity, item.ProductName, item.Price.StringFixed(2))
	}
	grand := payload.TotalAmount.Add(payload.TaxAmount).Add(payload.Shipping)

	customerBody := fmt.Sprintf(
		"Thank you for your order %s.\n\n%s\nSubtotal: %s\nTax: %s\nShipping: %s\nTotal: %s\n",
		payload.OrderNumber,
		lines.String(),
		payload.TotalAmount.StringFixed(2),
		payload.TaxAmount.StringFixed(2),
		payload.Shipping.StringFixed(2),
		grand.StringFixed(2),
	)

	messages := []mailer.Message{{
		To:      []string{payload.Email},
		Subject: fmt.Sprintf("Order confirmation %s", payload.OrderNumber),
		Body:    customerBody,
	}}

	adminBody := fmt.Sprintf(
		"New order %s from %s.\n\n%s\nTotal: %s\n",
		payload.OrderNumber,
		payload.Email,
		lines.String(),
		grand.StringFixed(2),
	)
	for _, admin := range c.adminEmails {
		messages = append(messages, mailer.Message{
			To:      []string{admin},
			Subject: fmt.Sprintf("New order %s", payload.OrderNumber),
			Body:    adminBody,
		})
	}
	return messages
}

func statusChanged(payload outbox.OrderStatusChangedPayload) mailer.Message {
	body := fmt.Sprintf(
		"Your order %s is now %s (was %s).\n",
		payload.OrderNumber, payload.To, payload.From,
	)
	if payload.Notes != "" {
		body += "\n" + payload.Notes + "\n"
	}
	return mailer.Message{
		To:      []string{payload.Email},
		Subject: fmt.Sprintf("Order %s update: %s", payload.OrderNumber, payload.To),
		Body:    body,
	}
}

func paymentChanged(payload outbox.OrderPaymentChangedPayload) mailer.Message {
	return mailer.Message{
		To:      []string{payload.Email},
		Subject: fmt.Sprintf("Order %s payment update: %s", payload.OrderNumber, payload.To),
		Body: fmt.Sprintf(
			"Payment for order %s moved from %s to %s.\n",
			payload.OrderNumber, payload.From, payload.To,
		),
	}
}
