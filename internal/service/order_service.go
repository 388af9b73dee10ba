package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grocery-saga/order-service/internal/alerting"
	"github.com/grocery-saga/order-service/internal/domain"
	"github.com/grocery-saga/order-service/internal/events"
)

const serviceName = "order-service"

type OrderService struct {
	txRunner TxRunner
	orders   OrderStore
	catalog  CatalogStore
	ledger   *InventoryLedger
	alerts   alerting.Sink
	logger   *zap.Logger
}

func NewOrderService(txRunner TxRunner, orders OrderStore, catalog CatalogStore, ledger *InventoryLedger, alerts alerting.Sink, logger *zap.Logger) *OrderService {
	return &OrderService{
		txRunner: txRunner,
		orders:   orders,
		catalog:  catalog,
		ledger:   ledger,
		alerts:   alerts,
		logger:   logger,
	}
}

// PlaceOrder validates and prices the requested lines against the catalog,
// creates the pending order with its lines and reserves stock, all in one
// transaction. A failure on any line leaves no order rows and no stock
// deltas behind.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, request domain.PlaceOrderRequest) (*domain.Order, error) {
	inputs := request.ToLineInputs()
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	itemIDs := make([]uuid.UUID, len(inputs))
	for i, input := range inputs {
		itemIDs[i] = input.ItemID
	}

	var order *domain.Order
	var mutations []StockMutation

	err := s.txRunner.WithinTx(ctx, func(tx *sql.Tx) error {
		items, err := s.catalog.ItemsByIDs(ctx, tx, itemIDs)
		if err != nil {
			return err
		}

		order, err = domain.BuildOrder(userID, inputs, items, request.ToDeliveryInfo())
		if err != nil {
			return err
		}

		if err := s.orders.CreateOrder(ctx, tx, order); err != nil {
			return err
		}

		mutations, err = s.ledger.Reserve(ctx, tx, order.Lines)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total_amount", order.TotalAmount.String()),
		zap.Int("lines", len(order.Lines)))

	s.emitStockAlerts(order.ID, mutations)

	return order, nil
}

// CancelOrder cancels the caller's own pending order and restores each
// line's quantity to its item, atomically with the status change.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error) {
	var order *domain.Order
	var mutations []StockMutation

	err := s.txRunner.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		order, err = s.orders.GetOrderForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		// Users only ever see their own orders.
		if order.UserID != userID {
			return &domain.NotFoundError{Resource: "order", ID: orderID.String()}
		}

		if err := domain.CanTransition(order.Status, domain.OrderStatusCancelled, domain.ActorUser); err != nil {
			return err
		}

		if err := s.orders.UpdateStatus(ctx, tx, orderID, domain.OrderStatusCancelled); err != nil {
			return err
		}

		mutations, err = s.ledger.Release(ctx, tx, order.Lines)
		return err
	})
	if err != nil {
		return nil, err
	}

	order.UpdateStatus(domain.OrderStatusCancelled)

	s.logger.Info("order cancelled",
		zap.String("order_id", orderID.String()),
		zap.String("user_id", userID.String()))

	s.emitStockAlerts(order.ID, mutations)

	return order, nil
}

// SetOrderStatus applies an administrative status change. Moving an order
// to cancelled releases its reserved stock in the same transaction.
func (s *OrderService) SetOrderStatus(ctx context.Context, orderID uuid.UUID, statusValue string, actor domain.Actor) (*domain.Order, error) {
	status, err := domain.ParseOrderStatus(statusValue)
	if err != nil {
		return nil, err
	}

	var order *domain.Order
	var mutations []StockMutation

	err = s.txRunner.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		order, err = s.orders.GetOrderForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if err := domain.CanTransition(order.Status, status, actor); err != nil {
			return err
		}

		if err := s.orders.UpdateStatus(ctx, tx, orderID, status); err != nil {
			return err
		}

		if domain.ReleasesStock(status) {
			mutations, err = s.ledger.Release(ctx, tx, order.Lines)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	previous := order.Status
	order.UpdateStatus(status)

	s.logger.Info("order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))

	s.emitStockAlerts(order.ID, mutations)

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, &domain.NotFoundError{Resource: "order", ID: orderID.String()}
	}
	return order, nil
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orders.GetOrdersByUserID(ctx, userID)
}

// ListOrders is the admin view, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, statusValue string) ([]*domain.Order, error) {
	var status *domain.OrderStatus
	if statusValue != "" {
		parsed, err := domain.ParseOrderStatus(statusValue)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}
	return s.orders.ListOrders(ctx, status)
}

// emitStockAlerts notifies the sink about items that ran out or came back.
// Fire-and-forget: a sink failure is logged, never surfaced.
func (s *OrderService) emitStockAlerts(orderID uuid.UUID, mutations []StockMutation) {
	for _, mutation := range mutations {
		var alertType events.StockAlertType
		switch {
		case mutation.Depleted():
			alertType = events.StockDepletedAlert
		case mutation.Restored():
			alertType = events.StockRestoredAlert
		default:
			continue
		}

		alert := events.StockAlert{
			ID:            uuid.New(),
			Type:          alertType,
			ItemID:        mutation.Item.ID,
			ItemName:      mutation.Item.Name,
			Inventory:     mutation.Item.Inventory,
			OrderID:       orderID,
			Service:       serviceName,
			Timestamp:     time.Now(),
			CorrelationID: uuid.New(),
		}

		if err := s.alerts.Publish(alert); err != nil {
			s.logger.Warn("stock alert publish failed",
				zap.String("item_id", alert.ItemID.String()),
				zap.String("alert_type", string(alertType)),
				zap.Error(err))
		}
	}
}
