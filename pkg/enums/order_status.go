package enums

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further fulfillment transitions exist.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderStatuses lists every valid status in workflow order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}
