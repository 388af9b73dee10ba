package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, value := range []string{"pending", "confirmed", "processing", "shipped", "delivered", "cancelled"} {
		status, err := ParseOrderStatus(value)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(value), status)
	}

	_, err := ParseOrderStatus("refunded")
	var invalidStatus *InvalidStatusError
	require.ErrorAs(t, err, &invalidStatus)
	assert.Equal(t, "refunded", invalidStatus.Status)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())

	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusConfirmed.IsTerminal())
	assert.False(t, OrderStatusProcessing.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestCanTransition_AdminFromPending(t *testing.T) {
	targets := []OrderStatus{
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
	for _, to := range targets {
		assert.NoError(t, CanTransition(OrderStatusPending, to, ActorAdmin), "pending -> %s", to)
	}
}

func TestCanTransition_AdminCancelFromNonTerminal(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped} {
		assert.NoError(t, CanTransition(from, OrderStatusCancelled, ActorAdmin), "%s -> cancelled", from)
	}
}

func TestCanTransition_TerminalStatesRejectEverything(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		for _, to := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
			err := CanTransition(from, to, ActorAdmin)
			var invalid *InvalidTransitionError
			require.ErrorAs(t, err, &invalid, "%s -> %s must be rejected", from, to)
			assert.Equal(t, from, invalid.From)
			assert.Equal(t, to, invalid.To)
		}
	}
}

func TestCanTransition_CancelledToCancelledRejected(t *testing.T) {
	err := CanTransition(OrderStatusCancelled, OrderStatusCancelled, ActorAdmin)
	var invalid *InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
}

func TestCanTransition_SameStatusRejected(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped} {
		err := CanTransition(status, status, ActorAdmin)
		var invalid *InvalidTransitionError
		assert.ErrorAs(t, err, &invalid, "%s -> %s must be rejected as a no-op", status, status)
	}
}

func TestCanTransition_UserMayOnlyCancelPending(t *testing.T) {
	assert.NoError(t, CanTransition(OrderStatusPending, OrderStatusCancelled, ActorUser))

	for _, from := range []OrderStatus{OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped} {
		err := CanTransition(from, OrderStatusCancelled, ActorUser)
		var invalid *InvalidTransitionError
		assert.ErrorAs(t, err, &invalid, "user cancel from %s must be rejected", from)
	}

	err := CanTransition(OrderStatusPending, OrderStatusConfirmed, ActorUser)
	var invalid *InvalidTransitionError
	assert.ErrorAs(t, err, &invalid, "users cannot confirm orders")
}

func TestReleasesStock(t *testing.T) {
	assert.True(t, ReleasesStock(OrderStatusCancelled))

	for _, to := range []OrderStatus{OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered} {
		assert.False(t, ReleasesStock(to))
	}
}
