package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError covers malformed or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrEmptyOrder rejects placement requests without any line.
var ErrEmptyOrder = &ValidationError{Message: "order must contain at least one item"}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ItemUnavailableError names the catalog item that is missing or delisted.
type ItemUnavailableError struct {
	ItemID uuid.UUID
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("item not available: %s", e.ItemID)
}

// InsufficientStockError carries the available count so the caller can
// present an actionable message.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: requested=%d, available=%d",
		e.ItemID, e.Requested, e.Available)
}

type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}

type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status value: %q", e.Status)
}
