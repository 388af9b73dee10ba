package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grocery-saga/order-service/internal/domain"
)

const orderColumns = `id, user_id, total_amount, status, delivery_address, contact_number, created_at, updated_at`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts the order and its lines inside the caller's
// transaction so the rows land atomically with the stock reservation.
func (r *OrderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			id, user_id, total_amount, status, delivery_address,
			contact_number, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		order.ID,
		order.UserID,
		order.TotalAmount,
		order.Status,
		order.DeliveryAddress,
		order.ContactNumber,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("order creation error: %v", err)
	}

	lineQuery := `
		INSERT INTO order_items (id, order_id, grocery_item_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, line := range order.Lines {
		_, err := tx.ExecContext(ctx, lineQuery, line.ID, line.OrderID, line.ItemID, line.Quantity, line.UnitPrice)
		if err != nil {
			return fmt.Errorf("order line creation error: %v", err)
		}
	}
	return nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Resource: "order", ID: orderID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("order receive error: %v", err)
	}

	order.Lines, err = r.orderLines(ctx, r.db, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderForUpdate reads the order row under a row lock so concurrent
// status changes on the same order serialize.
func (r *OrderRepository) GetOrderForUpdate(ctx context.Context, tx *sql.Tx, orderID uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	order, err := scanOrder(tx.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Resource: "order", ID: orderID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("order receive error: %v", err)
	}

	order.Lines, err = r.orderLines(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("orders retrieval error: %v", err)
	}
	defer rows.Close()

	return r.collectOrders(ctx, rows)
}

func (r *OrderRepository) ListOrders(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders retrieval error: %v", err)
	}
	defer rows.Close()

	return r.collectOrders(ctx, rows)
}

// UpdateStatus writes the status change inside the caller's transaction so
// it persists together with any ledger effect.
func (r *OrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, status domain.OrderStatus) error {
	result, err := tx.ExecContext(
		ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		orderID,
		status,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("order status update error: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Resource: "order", ID: orderID.String()}
	}
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *OrderRepository) orderLines(ctx context.Context, q queryer, orderID uuid.UUID) ([]domain.OrderLine, error) {
	query := `
		SELECT id, order_id, grocery_item_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("order lines retrieval error: %v", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		err := rows.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.Quantity, &line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("order line scan error: %v", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *OrderRepository) collectOrders(ctx context.Context, rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("order scan error: %v", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		lines, err := r.orderLines(ctx, r.db, order.ID)
		if err != nil {
			return nil, err
		}
		order.Lines = lines
	}
	return orders, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.Status,
		&order.DeliveryAddress,
		&order.ContactNumber,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
