package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grocery-saga/order-service/internal/domain"
	"github.com/grocery-saga/order-service/internal/events"
	"github.com/grocery-saga/order-service/internal/repository"
)

// memStore is an in-memory stand-in for the sql repositories. The tx
// argument is unused; transactional semantics come from memTxRunner, which
// serializes units of work and restores a snapshot on error.
type memStore struct {
	mu     sync.Mutex
	items  map[uuid.UUID]*domain.StockItem
	orders map[uuid.UUID]*domain.Order
}

func newMemStore() *memStore {
	return &memStore{
		items:  make(map[uuid.UUID]*domain.StockItem),
		orders: make(map[uuid.UUID]*domain.Order),
	}
}

func (s *memStore) addItem(name string, price float64, inventory int) *domain.StockItem {
	item := domain.NewStockItem(name, "", "test", "", decimal.NewFromFloat(price), inventory)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return copyItem(item)
}

func (s *memStore) deleteItem(itemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, itemID)
}

func (s *memStore) item(itemID uuid.UUID) *domain.StockItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItem(s.items[itemID])
}

func (s *memStore) order(orderID uuid.UUID) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOrder(s.orders[orderID])
}

// CatalogStore

func (s *memStore) ItemsByIDs(ctx context.Context, tx *sql.Tx, itemIDs []uuid.UUID) (map[uuid.UUID]*domain.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[uuid.UUID]*domain.StockItem)
	for _, id := range itemIDs {
		if item, ok := s.items[id]; ok {
			result[id] = copyItem(item)
		}
	}
	return result, nil
}

func (s *memStore) ApplyStockDelta(ctx context.Context, tx *sql.Tx, itemID uuid.UUID, delta int) (*domain.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "grocery item", ID: itemID.String()}
	}
	if item.Inventory+delta < 0 {
		return nil, &domain.InsufficientStockError{
			ItemID:    itemID,
			Requested: -delta,
			Available: item.Inventory,
		}
	}

	item.Inventory += delta
	item.DeriveAvailability()
	return copyItem(item), nil
}

// CatalogManager

func (s *memStore) CreateItem(ctx context.Context, item *domain.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = copyItem(item)
	return nil
}

func (s *memStore) GetItemByID(ctx context.Context, itemID uuid.UUID) (*domain.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "grocery item", ID: itemID.String()}
	}
	return copyItem(item), nil
}

func (s *memStore) GetItemByName(ctx context.Context, name string) (*domain.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if strings.EqualFold(item.Name, name) {
			return copyItem(item), nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "grocery item", ID: name}
}

// UpdateItem writes descriptive fields only, same as the sql repository:
// the stored inventory and availability stand regardless of what the passed
// item carries.
func (s *memStore) UpdateItem(ctx context.Context, item *domain.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[item.ID]
	if !ok {
		return &domain.NotFoundError{Resource: "grocery item", ID: item.ID.String()}
	}
	stored.Name = item.Name
	stored.Description = item.Description
	stored.Category = item.Category
	stored.ImageURL = item.ImageURL
	stored.Price = item.Price
	stored.UpdatedAt = item.UpdatedAt
	return nil
}

func (s *memStore) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return &domain.NotFoundError{Resource: "grocery item", ID: itemID.String()}
	}
	delete(s.items, itemID)
	return nil
}

func (s *memStore) ListItems(ctx context.Context, filter repository.ItemFilter) ([]*domain.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*domain.StockItem
	for _, item := range s.items {
		if filter.OnlyAvailable && !item.IsAvailable {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, copyItem(item))
	}
	return items, nil
}

func (s *memStore) OverwriteInventory(ctx context.Context, itemID uuid.UUID, inventory int) (*domain.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "grocery item", ID: itemID.String()}
	}
	item.Inventory = inventory
	item.DeriveAvailability()
	return copyItem(item), nil
}

// OrderStore

func (s *memStore) CreateOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = copyOrder(order)
	return nil
}

func (s *memStore) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "order", ID: orderID.String()}
	}
	return copyOrder(order), nil
}

func (s *memStore) GetOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID uuid.UUID) (*domain.Order, error) {
	return s.GetOrderByID(ctx, orderID)
}

func (s *memStore) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []*domain.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			orders = append(orders, copyOrder(order))
		}
	}
	return orders, nil
}

func (s *memStore) ListOrders(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []*domain.Order
	for _, order := range s.orders {
		if status == nil || order.Status == *status {
			orders = append(orders, copyOrder(order))
		}
	}
	return orders, nil
}

func (s *memStore) UpdateStatus(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, status domain.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return &domain.NotFoundError{Resource: "order", ID: orderID.String()}
	}
	order.Status = status
	return nil
}

func copyItem(item *domain.StockItem) *domain.StockItem {
	if item == nil {
		return nil
	}
	clone := *item
	return &clone
}

func copyOrder(order *domain.Order) *domain.Order {
	if order == nil {
		return nil
	}
	clone := *order
	clone.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return &clone
}

// memTxRunner serializes transactions and rolls back by restoring a
// snapshot, mirroring the all-or-nothing behavior of a real transaction.
type memTxRunner struct {
	store *memStore
	txMu  sync.Mutex
}

func newMemTxRunner(store *memStore) *memTxRunner {
	return &memTxRunner{store: store}
}

func (r *memTxRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.store.mu.Lock()
	itemsSnapshot := make(map[uuid.UUID]*domain.StockItem, len(r.store.items))
	for id, item := range r.store.items {
		itemsSnapshot[id] = copyItem(item)
	}
	ordersSnapshot := make(map[uuid.UUID]*domain.Order, len(r.store.orders))
	for id, order := range r.store.orders {
		ordersSnapshot[id] = copyOrder(order)
	}
	r.store.mu.Unlock()

	if err := fn(nil); err != nil {
		r.store.mu.Lock()
		r.store.items = itemsSnapshot
		r.store.orders = ordersSnapshot
		r.store.mu.Unlock()
		return err
	}
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	alerts []events.StockAlert
}

func (s *recordingSink) Publish(alert events.StockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	return nil
}

func (s *recordingSink) byType(alertType events.StockAlertType) []events.StockAlert {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []events.StockAlert
	for _, alert := range s.alerts {
		if alert.Type == alertType {
			matched = append(matched, alert)
		}
	}
	return matched
}
