package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/grocery-saga/order-service/internal/domain"
	"github.com/grocery-saga/order-service/internal/httpapi"
	"github.com/grocery-saga/order-service/internal/repository"
	"github.com/grocery-saga/order-service/internal/service"
)

type ItemHandler struct {
	catalogService *service.CatalogService
}

func NewItemHandler(catalogService *service.CatalogService) *ItemHandler {
	return &ItemHandler{
		catalogService: catalogService,
	}
}

// ListAvailableItems is the public storefront listing.
func (h *ItemHandler) ListAvailableItems(c *fiber.Ctx) error {
	items, err := h.catalogService.ListAvailableItems(c.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Items retrieved successfully", map[string]interface{}{
		"count": len(items),
		"items": mapItems(items),
	})
}

func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid item ID", map[string]interface{}{
			"item_id": c.Params("id"),
		})
	}

	item, err := h.catalogService.GetItem(c.Context(), itemID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Item retrieved successfully", mapItem(item))
}

func (h *ItemHandler) AddItem(c *fiber.Ctx) error {
	var request domain.AddItemRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	item, err := h.catalogService.AddItem(c.Context(), request)
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.CreatedResponse(c, "Grocery item added successfully", mapItem(item))
}

// ListItems is the admin catalog view with filters.
func (h *ItemHandler) ListItems(c *fiber.Ctx) error {
	filter := repository.ItemFilter{
		Category:      c.Query("category"),
		Search:        c.Query("search"),
		OnlyAvailable: c.Query("is_available") == "true",
	}

	items, err := h.catalogService.ListItems(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Items retrieved successfully", map[string]interface{}{
		"count": len(items),
		"items": mapItems(items),
	})
}

func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid item ID", map[string]interface{}{
			"item_id": c.Params("id"),
		})
	}

	var request domain.UpdateItemRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	item, err := h.catalogService.UpdateItem(c.Context(), itemID, request)
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Grocery item updated successfully", mapItem(item))
}

type updateInventoryRequest struct {
	Inventory int `json:"inventory"`
}

func (h *ItemHandler) UpdateInventory(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid item ID", map[string]interface{}{
			"item_id": c.Params("id"),
		})
	}

	var request updateInventoryRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	item, err := h.catalogService.OverwriteInventory(c.Context(), itemID, request.Inventory)
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Inventory updated successfully", mapItem(item))
}

func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid item ID", map[string]interface{}{
			"item_id": c.Params("id"),
		})
	}

	if err := h.catalogService.DeleteItem(c.Context(), itemID); err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Grocery item deleted successfully", nil)
}
