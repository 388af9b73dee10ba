package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/grocery-saga/order-service/internal/domain"
	"github.com/grocery-saga/order-service/internal/httpapi"
	"github.com/grocery-saga/order-service/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var request domain.PlaceOrderRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	for i, item := range request.Items {
		if item.ItemID == uuid.Nil {
			return httpapi.BadRequestResponse(c, "Invalid item ID", map[string]interface{}{
				"item_index": i,
			})
		}
		if item.Quantity < 1 {
			return httpapi.BadRequestResponse(c, "Invalid quantity", map[string]interface{}{
				"item_index": i,
				"quantity":   item.Quantity,
			})
		}
	}

	order, err := h.orderService.PlaceOrder(c.Context(), currentUserID(c), request)
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.CreatedResponse(c, "Order placed successfully", mapOrder(order))
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid order ID", map[string]interface{}{
			"order_id": c.Params("id"),
		})
	}

	order, err := h.orderService.GetOrder(c.Context(), currentUserID(c), orderID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Order retrieved successfully", mapOrder(order))
}

func (h *OrderHandler) GetUserOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetUserOrders(c.Context(), currentUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Orders retrieved successfully", map[string]interface{}{
		"count":  len(orders),
		"orders": mapOrders(orders),
	})
}

func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid order ID", map[string]interface{}{
			"order_id": c.Params("id"),
		})
	}

	order, err := h.orderService.CancelOrder(c.Context(), currentUserID(c), orderID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Order cancelled successfully", mapOrder(order))
}

// ListOrders is the admin order overview, optionally filtered by status.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListOrders(c.Context(), c.Query("status"))
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Orders retrieved successfully", map[string]interface{}{
		"count":  len(orders),
		"orders": mapOrders(orders),
	})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid order ID", map[string]interface{}{
			"order_id": c.Params("id"),
		})
	}

	var request updateStatusRequest
	if err := c.BodyParser(&request); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	order, err := h.orderService.SetOrderStatus(c.Context(), orderID, request.Status, currentActor(c))
	if err != nil {
		return respondDomainError(c, err)
	}

	return httpapi.SuccessResponse(c, "Order status updated successfully", mapOrder(order))
}

func (h *OrderHandler) HealthCheck(c *fiber.Ctx) error {
	return httpapi.SuccessResponse(c, "Order service is healthy", map[string]interface{}{
		"service": "order-service",
		"status":  "healthy",
	})
}
