package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/grocery-saga/order-service/internal/domain"
	"github.com/grocery-saga/order-service/internal/httpapi"
)

// respondDomainError maps the core error taxonomy to 4xx responses carrying
// the identifying detail. Anything unrecognized is an unexpected persistence
// failure and surfaces as a generic 500 without internal detail.
func respondDomainError(c *fiber.Ctx, err error) error {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return httpapi.BadRequestResponse(c, validation.Message, nil)
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return httpapi.NotFoundResponse(c, notFound.Error())
	}

	var unavailable *domain.ItemUnavailableError
	if errors.As(err, &unavailable) {
		return httpapi.ErrorResponse(c, fiber.StatusNotFound, "ITEM_UNAVAILABLE",
			"grocery item not found or unavailable", map[string]interface{}{
				"item_id": unavailable.ItemID.String(),
			})
	}

	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return httpapi.ErrorResponse(c, fiber.StatusBadRequest, "INSUFFICIENT_STOCK",
			"not enough inventory for grocery item", map[string]interface{}{
				"item_id":   insufficient.ItemID.String(),
				"requested": insufficient.Requested,
				"available": insufficient.Available,
			})
	}

	var transition *domain.InvalidTransitionError
	if errors.As(err, &transition) {
		return httpapi.ErrorResponse(c, fiber.StatusConflict, "INVALID_TRANSITION",
			"order status transition not allowed", map[string]interface{}{
				"current_status":   string(transition.From),
				"requested_status": string(transition.To),
			})
	}

	var status *domain.InvalidStatusError
	if errors.As(err, &status) {
		return httpapi.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_STATUS",
			"invalid order status value", map[string]interface{}{
				"status": status.Status,
			})
	}

	return httpapi.InternalServerErrorResponse(c, "Internal Server Error")
}
