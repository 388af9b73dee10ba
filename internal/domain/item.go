package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StockItem struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewStockItem(name, description, category, imageURL string, price decimal.Decimal, inventory int) *StockItem {
	item := &StockItem{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Category:    category,
		ImageURL:    imageURL,
		Price:       price,
		Inventory:   inventory,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	item.DeriveAvailability()
	return item
}

// DeriveAvailability keeps the invariant is_available == (inventory > 0).
func (i *StockItem) DeriveAvailability() {
	i.IsAvailable = i.Inventory > 0
}

// CanFulfill reports whether the item can back a reservation of quantity units.
func (i *StockItem) CanFulfill(quantity int) bool {
	return i.IsAvailable && i.Inventory >= quantity
}

type AddItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required"`
	ImageURL    string          `json:"image_url,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Inventory   int             `json:"inventory" validate:"min=0"`
}

// converts to domain model
func (r AddItemRequest) ToStockItem() *StockItem {
	return NewStockItem(r.Name, r.Description, r.Category, r.ImageURL, r.Price, r.Inventory)
}

// UpdateItemRequest carries a partial item edit; nil fields stay untouched.
// Inventory is deliberately absent: stock moves through the ledger or the
// administrative overwrite, never through a plain item edit.
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

func (r UpdateItemRequest) ApplyTo(item *StockItem) {
	if r.Name != nil {
		item.Name = *r.Name
	}
	if r.Description != nil {
		item.Description = *r.Description
	}
	if r.Category != nil {
		item.Category = *r.Category
	}
	if r.ImageURL != nil {
		item.ImageURL = *r.ImageURL
	}
	if r.Price != nil {
		item.Price = *r.Price
	}
	item.UpdatedAt = time.Now()
}

func (i *StockItem) Validate() error {
	if i.Name == "" {
		return &ValidationError{Message: "item name is required"}
	}
	if i.Category == "" {
		return &ValidationError{Message: "item category is required"}
	}
	if !i.Price.IsPositive() {
		return &ValidationError{Message: "item price must be positive"}
	}
	if i.Inventory < 0 {
		return &ValidationError{Message: "item inventory cannot be negative"}
	}
	return nil
}
