package domain

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Actor is the authority behind a status change, consulted once per
// transition.
type Actor string

const (
	ActorUser  Actor = "user"
	ActorAdmin Actor = "admin"
)

// ParseOrderStatus validates a requested status value.
func ParseOrderStatus(value string) (OrderStatus, error) {
	switch status := OrderStatus(value); status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return status, nil
	default:
		return "", &InvalidStatusError{Status: value}
	}
}

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition decides whether the actor may move an order from one status
// to another. Terminal states reject every transition, a same-status change
// is rejected as a no-op, and a plain user may only cancel a pending order.
func CanTransition(from, to OrderStatus, actor Actor) error {
	if from.IsTerminal() {
		return &InvalidTransitionError{From: from, To: to}
	}
	if from == to {
		return &InvalidTransitionError{From: from, To: to}
	}
	if actor != ActorAdmin && !(from == OrderStatusPending && to == OrderStatusCancelled) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// ReleasesStock reports whether a transition returns reserved inventory to
// the catalog. CanTransition guarantees from != cancelled here.
func ReleasesStock(to OrderStatus) bool {
	return to == OrderStatusCancelled
}
