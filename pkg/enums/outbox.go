package enums

// OutboxEventType names the domain events written through the outbox.
type OutboxEventType string

const (
	OutboxEventOrderCreated        OutboxEventType = "order.created"
	OutboxEventOrderStatusChanged  OutboxEventType = "order.status_changed"
	OutboxEventOrderPaymentChanged OutboxEventType = "order.payment_changed"
)

// OutboxAggregateOrder is the aggregate type for order events.
const OutboxAggregateOrder = "order"

func (t OutboxEventType) String() string {
	return string(t)
}

// OutboxStatus is the delivery state of an outbox row.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)

func (s OutboxStatus) String() string {
	return string(s)
}
