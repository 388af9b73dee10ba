package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/grocery-saga/order-service/internal/domain"
	"github.com/grocery-saga/order-service/internal/repository"
)

// CatalogStore is the slice of the catalog accessor the order flows need.
// Stock deltas run inside the caller's transaction.
type CatalogStore interface {
	ItemsByIDs(ctx context.Context, tx *sql.Tx, itemIDs []uuid.UUID) (map[uuid.UUID]*domain.StockItem, error)
	ApplyStockDelta(ctx context.Context, tx *sql.Tx, itemID uuid.UUID, delta int) (*domain.StockItem, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	GetOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID uuid.UUID) (*domain.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListOrders(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, status domain.OrderStatus) error
}

// CatalogManager is the catalog CRUD surface used outside order flows.
// UpdateItem covers descriptive fields only; stock moves through
// ApplyStockDelta or OverwriteInventory, never through an item edit.
type CatalogManager interface {
	CreateItem(ctx context.Context, item *domain.StockItem) error
	GetItemByID(ctx context.Context, itemID uuid.UUID) (*domain.StockItem, error)
	GetItemByName(ctx context.Context, name string) (*domain.StockItem, error)
	UpdateItem(ctx context.Context, item *domain.StockItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ListItems(ctx context.Context, filter repository.ItemFilter) ([]*domain.StockItem, error)
	OverwriteInventory(ctx context.Context, itemID uuid.UUID, inventory int) (*domain.StockItem, error)
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}
