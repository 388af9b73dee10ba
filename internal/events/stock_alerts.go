package events

import (
	"time"

	"github.com/google/uuid"
)

type StockAlertType string

const (
	// StockDepletedAlert fires when a reservation drives an item's
	// inventory to zero and it drops off the storefront.
	StockDepletedAlert StockAlertType = "stock.depleted"

	// StockRestoredAlert fires when a cancellation returns units to an
	// item that was out of stock.
	StockRestoredAlert StockAlertType = "stock.restored"
)

type StockAlert struct {
	ID            uuid.UUID      `json:"id"`
	Type          StockAlertType `json:"type"`
	ItemID        uuid.UUID      `json:"item_id"`
	ItemName      string         `json:"item_name"`
	Inventory     int            `json:"inventory"`
	OrderID       uuid.UUID      `json:"order_id"`
	Service       string         `json:"service"`
	Timestamp     time.Time      `json:"timestamp"`
	CorrelationID uuid.UUID      `json:"correlation_id"`
}
