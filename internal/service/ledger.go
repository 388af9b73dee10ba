package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/grocery-saga/order-service/internal/domain"
)

// InventoryLedger is the sole authority for stock mutations tied to order
// events. Every decrement and increment goes through its two operations,
// always inside the transaction that also writes the order rows.
type InventoryLedger struct {
	catalog CatalogStore
	logger  *zap.Logger
}

func NewInventoryLedger(catalog CatalogStore, logger *zap.Logger) *InventoryLedger {
	return &InventoryLedger{
		catalog: catalog,
		logger:  logger,
	}
}

// StockMutation records one applied delta and the item state after it.
type StockMutation struct {
	Item  *domain.StockItem
	Delta int
}

// Depleted reports whether the mutation drove the item out of stock.
func (m StockMutation) Depleted() bool {
	return m.Delta < 0 && m.Item.Inventory == 0
}

// Restored reports whether the mutation brought an out-of-stock item back.
func (m StockMutation) Restored() bool {
	return m.Delta > 0 && m.Item.Inventory == m.Delta
}

// Reserve decrements each line's item inventory by its quantity. The first
// failing line aborts with the offending item; the surrounding transaction
// guarantees no partial stock is left touched. Duplicate item lines combine
// additively.
func (l *InventoryLedger) Reserve(ctx context.Context, tx *sql.Tx, lines []domain.OrderLine) ([]StockMutation, error) {
	mutations := make([]StockMutation, 0, len(lines))

	for _, line := range lines {
		item, err := l.catalog.ApplyStockDelta(ctx, tx, line.ItemID, -line.Quantity)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				return nil, &domain.ItemUnavailableError{ItemID: line.ItemID}
			}
			return nil, err
		}
		mutations = append(mutations, StockMutation{Item: item, Delta: -line.Quantity})
	}

	return mutations, nil
}

// Release returns each line's quantity to its item and flips it back to
// available. A line whose item was deleted from the catalog in the interim
// is skipped, not an error: the order's historical record still stands.
func (l *InventoryLedger) Release(ctx context.Context, tx *sql.Tx, lines []domain.OrderLine) ([]StockMutation, error) {
	mutations := make([]StockMutation, 0, len(lines))

	for _, line := range lines {
		item, err := l.catalog.ApplyStockDelta(ctx, tx, line.ItemID, line.Quantity)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				l.logger.Warn("skipping stock release for deleted item",
					zap.String("item_id", line.ItemID.String()),
					zap.Int("quantity", line.Quantity))
				continue
			}
			return nil, err
		}
		mutations = append(mutations, StockMutation{Item: item, Delta: line.Quantity})
	}

	return mutations, nil
}
