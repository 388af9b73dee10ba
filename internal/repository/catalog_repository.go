package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/grocery-saga/order-service/internal/domain"
)

const itemColumns = `id, name, description, category, image_url, price, inventory, is_available, created_at, updated_at`

// CatalogRepository reads and writes grocery item stock records. Stock
// deltas tied to order events only ever go through ApplyStockDelta, inside
// the caller's transaction.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type ItemFilter struct {
	Category      string
	Search        string
	OnlyAvailable bool
}

func (r *CatalogRepository) CreateItem(ctx context.Context, item *domain.StockItem) error {
	query := `
		INSERT INTO grocery_items (
			id, name, description, category, image_url, price,
			inventory, is_available, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Description,
		item.Category,
		item.ImageURL,
		item.Price,
		item.Inventory,
		item.IsAvailable,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("item creation error: %v", err)
	}
	return nil
}

func (r *CatalogRepository) GetItemByID(ctx context.Context, itemID uuid.UUID) (*domain.StockItem, error) {
	query := `SELECT ` + itemColumns + ` FROM grocery_items WHERE id = $1`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, itemID))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Resource: "grocery item", ID: itemID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("item receive error: %v", err)
	}
	return item, nil
}

func (r *CatalogRepository) GetItemByName(ctx context.Context, name string) (*domain.StockItem, error) {
	query := `SELECT ` + itemColumns + ` FROM grocery_items WHERE LOWER(name) = LOWER($1)`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Resource: "grocery item", ID: name}
	}
	if err != nil {
		return nil, fmt.Errorf("item receive error: %v", err)
	}
	return item, nil
}

// ItemsByIDs batch-fetches items for order validation. Missing ids are
// silently absent from the result map.
func (r *CatalogRepository) ItemsByIDs(ctx context.Context, tx *sql.Tx, itemIDs []uuid.UUID) (map[uuid.UUID]*domain.StockItem, error) {
	if len(itemIDs) == 0 {
		return map[uuid.UUID]*domain.StockItem{}, nil
	}

	query := `SELECT ` + itemColumns + ` FROM grocery_items WHERE id = ANY($1::uuid[])`

	ids := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = id.String()
	}

	rows, err := tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("items retrieval error: %v", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID]*domain.StockItem)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("item scan error: %v", err)
		}
		items[item.ID] = item
	}
	return items, rows.Err()
}

// ApplyStockDelta applies one atomic conditional stock mutation inside the
// caller's transaction. The row predicate makes the decrement-and-check a
// single serialized step, so two concurrent reservations of the last unit
// cannot both succeed. Availability is re-derived on every delta, including
// deltas that raise inventory back above zero.
func (r *CatalogRepository) ApplyStockDelta(ctx context.Context, tx *sql.Tx, itemID uuid.UUID, delta int) (*domain.StockItem, error) {
	query := `
		UPDATE grocery_items
		SET inventory = inventory + $2,
			is_available = inventory + $2 > 0,
			updated_at = $3
		WHERE id = $1 AND inventory + $2 >= 0
		RETURNING ` + itemColumns

	item, err := scanItem(tx.QueryRowContext(ctx, query, itemID, delta, time.Now()))
	if err == sql.ErrNoRows {
		// Row missing or predicate failed. Re-read under the row lock to
		// tell the two apart and report the current available count.
		var available int
		lookupErr := tx.QueryRowContext(ctx,
			`SELECT inventory FROM grocery_items WHERE id = $1 FOR UPDATE`, itemID,
		).Scan(&available)
		if lookupErr == sql.ErrNoRows {
			return nil, &domain.NotFoundError{Resource: "grocery item", ID: itemID.String()}
		}
		if lookupErr != nil {
			return nil, fmt.Errorf("item lookup error: %v", lookupErr)
		}
		return nil, &domain.InsufficientStockError{
			ItemID:    itemID,
			Requested: -delta,
			Available: available,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stock delta error: %v", err)
	}
	return item, nil
}

// OverwriteInventory is the administrative inventory overwrite. It bypasses
// the ledger but still re-derives availability.
func (r *CatalogRepository) OverwriteInventory(ctx context.Context, itemID uuid.UUID, inventory int) (*domain.StockItem, error) {
	query := `
		UPDATE grocery_items
		SET inventory = $2,
			is_available = $2 > 0,
			updated_at = $3
		WHERE id = $1
		RETURNING ` + itemColumns

	item, err := scanItem(r.db.QueryRowContext(ctx, query, itemID, inventory, time.Now()))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Resource: "grocery item", ID: itemID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("inventory overwrite error: %v", err)
	}
	return item, nil
}

// UpdateItem writes the descriptive fields only. Inventory and availability
// never go through here: stock moves through ApplyStockDelta or
// OverwriteInventory, so an item edit can never clobber a concurrent
// reservation.
func (r *CatalogRepository) UpdateItem(ctx context.Context, item *domain.StockItem) error {
	query := `
		UPDATE grocery_items
		SET name = $2, description = $3, category = $4, image_url = $5,
			price = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Description,
		item.Category,
		item.ImageURL,
		item.Price,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("item update error: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Resource: "grocery item", ID: item.ID.String()}
	}
	return nil
}

func (r *CatalogRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("item delete error: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Resource: "grocery item", ID: itemID.String()}
	}
	return nil
}

func (r *CatalogRepository) ListItems(ctx context.Context, filter ItemFilter) ([]*domain.StockItem, error) {
	query := `SELECT ` + itemColumns + ` FROM grocery_items WHERE 1=1`
	args := []interface{}{}

	if filter.OnlyAvailable {
		query += ` AND is_available = true AND inventory > 0`
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("items retrieval error: %v", err)
	}
	defer rows.Close()

	var items []*domain.StockItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("item scan error: %v", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.StockItem, error) {
	item := &domain.StockItem{}
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.ImageURL,
		&item.Price,
		&item.Inventory,
		&item.IsAvailable,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}
