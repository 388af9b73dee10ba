package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Lines           []OrderLine     `json:"lines"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	ContactNumber   string          `json:"contact_number,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderLine carries the unit price copied from the catalog at order time.
// Later catalog price edits never touch it.
type OrderLine struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ItemID    uuid.UUID       `json:"item_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (o *Order) UpdateStatus(status OrderStatus) {
	o.Status = status
	o.UpdatedAt = time.Now()
}

type DeliveryInfo struct {
	Address       string
	ContactNumber string
}

type LineInput struct {
	ItemID   uuid.UUID
	Quantity int
}

// BuildOrder assembles a pending order from the requested lines and the
// catalog items fetched for them. Prices always come from the catalog, never
// from the request. Every line must reference an existing, available item
// with enough inventory; the first violation aborts the whole build.
func BuildOrder(userID uuid.UUID, inputs []LineInput, catalog map[uuid.UUID]*StockItem, delivery DeliveryInfo) (*Order, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyOrder
	}

	orderID := uuid.New()
	lines := make([]OrderLine, 0, len(inputs))
	total := decimal.Zero

	for _, input := range inputs {
		if input.Quantity < 1 {
			return nil, &ValidationError{Message: "line quantity must be at least 1"}
		}

		item, ok := catalog[input.ItemID]
		if !ok || !item.IsAvailable {
			return nil, &ItemUnavailableError{ItemID: input.ItemID}
		}
		if item.Inventory < input.Quantity {
			return nil, &InsufficientStockError{
				ItemID:    input.ItemID,
				Requested: input.Quantity,
				Available: item.Inventory,
			}
		}

		lines = append(lines, OrderLine{
			ID:        uuid.New(),
			OrderID:   orderID,
			ItemID:    input.ItemID,
			Quantity:  input.Quantity,
			UnitPrice: item.Price,
		})
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(input.Quantity))))
	}

	return &Order{
		ID:              orderID,
		UserID:          userID,
		Lines:           lines,
		TotalAmount:     total,
		Status:          OrderStatusPending,
		DeliveryAddress: delivery.Address,
		ContactNumber:   delivery.ContactNumber,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}, nil
}

type PlaceOrderRequest struct {
	Items           []OrderLineRequest `json:"items" validate:"required,min=1"`
	DeliveryAddress string             `json:"delivery_address,omitempty"`
	ContactNumber   string             `json:"contact_number,omitempty"`
}

type OrderLineRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

// converts to domain model
func (r PlaceOrderRequest) ToLineInputs() []LineInput {
	inputs := make([]LineInput, len(r.Items))
	for i, item := range r.Items {
		inputs[i] = LineInput{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		}
	}
	return inputs
}

// converts to domain model
func (r PlaceOrderRequest) ToDeliveryInfo() DeliveryInfo {
	return DeliveryInfo{
		Address:       r.DeliveryAddress,
		ContactNumber: r.ContactNumber,
	}
}
