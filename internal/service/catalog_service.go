package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grocery-saga/order-service/internal/domain"
	"github.com/grocery-saga/order-service/internal/repository"
)

// CatalogService covers the plain item CRUD around the core: admin item
// management plus the public storefront listing.
type CatalogService struct {
	catalog CatalogManager
	logger  *zap.Logger
}

func NewCatalogService(catalog CatalogManager, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		logger:  logger,
	}
}

func (s *CatalogService) AddItem(ctx context.Context, request domain.AddItemRequest) (*domain.StockItem, error) {
	item := request.ToStockItem()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.catalog.GetItemByName(ctx, item.Name)
	if err != nil {
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	if existing != nil {
		return nil, &domain.ValidationError{Message: "grocery item with this name already exists"}
	}

	if err := s.catalog.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("grocery item added",
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name))

	return item, nil
}

func (s *CatalogService) GetItem(ctx context.Context, itemID uuid.UUID) (*domain.StockItem, error) {
	return s.catalog.GetItemByID(ctx, itemID)
}

func (s *CatalogService) ListItems(ctx context.Context, filter repository.ItemFilter) ([]*domain.StockItem, error) {
	return s.catalog.ListItems(ctx, filter)
}

// ListAvailableItems is the storefront view: only listed items with stock.
func (s *CatalogService) ListAvailableItems(ctx context.Context, category, search string) ([]*domain.StockItem, error) {
	return s.catalog.ListItems(ctx, repository.ItemFilter{
		Category:      category,
		Search:        search,
		OnlyAvailable: true,
	})
}

func (s *CatalogService) UpdateItem(ctx context.Context, itemID uuid.UUID, request domain.UpdateItemRequest) (*domain.StockItem, error) {
	item, err := s.catalog.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil && *request.Name != item.Name {
		existing, err := s.catalog.GetItemByName(ctx, *request.Name)
		if err != nil {
			var notFound *domain.NotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
		if existing != nil && existing.ID != itemID {
			return nil, &domain.ValidationError{Message: "another grocery item with this name already exists"}
		}
	}

	request.ApplyTo(item)
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.catalog.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// OverwriteInventory is the administrative stock overwrite. Availability is
// re-derived from the new count, same as every ledger mutation.
func (s *CatalogService) OverwriteInventory(ctx context.Context, itemID uuid.UUID, inventory int) (*domain.StockItem, error) {
	if inventory < 0 {
		return nil, &domain.ValidationError{Message: "inventory cannot be negative"}
	}

	item, err := s.catalog.OverwriteInventory(ctx, itemID, inventory)
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory overwritten",
		zap.String("item_id", itemID.String()),
		zap.Int("inventory", inventory))

	return item, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if err := s.catalog.DeleteItem(ctx, itemID); err != nil {
		return err
	}

	s.logger.Info("grocery item deleted", zap.String("item_id", itemID.String()))
	return nil
}
