package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocery-saga/order-service/internal/domain"
	"github.com/grocery-saga/order-service/internal/httpapi"
)

func performErrorRequest(t *testing.T, err error) (int, httpapi.APIResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondDomainError(c, err)
	})

	response, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, testErr)
	defer response.Body.Close()

	var body httpapi.APIResponse
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
	return response.StatusCode, body
}

func TestRespondDomainError_Validation(t *testing.T) {
	status, body := performErrorRequest(t, &domain.ValidationError{Message: "order must contain at least one item"})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
	assert.Equal(t, "order must contain at least one item", body.Error.Message)
}

func TestRespondDomainError_NotFound(t *testing.T) {
	status, body := performErrorRequest(t, &domain.NotFoundError{Resource: "order", ID: uuid.New().String()})

	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestRespondDomainError_ItemUnavailable(t *testing.T) {
	itemID := uuid.New()
	status, body := performErrorRequest(t, &domain.ItemUnavailableError{ItemID: itemID})

	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ITEM_UNAVAILABLE", body.Error.Code)
	assert.Equal(t, itemID.String(), body.Error.Details["item_id"])
}

func TestRespondDomainError_InsufficientStock(t *testing.T) {
	itemID := uuid.New()
	status, body := performErrorRequest(t, &domain.InsufficientStockError{
		ItemID:    itemID,
		Requested: 5,
		Available: 2,
	})

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Error.Code)
	assert.Equal(t, itemID.String(), body.Error.Details["item_id"])
	// JSON numbers decode as float64.
	assert.EqualValues(t, 5, body.Error.Details["requested"])
	assert.EqualValues(t, 2, body.Error.Details["available"])
}

func TestRespondDomainError_InvalidTransition(t *testing.T) {
	status, body := performErrorRequest(t, &domain.InvalidTransitionError{
		From: domain.OrderStatusDelivered,
		To:   domain.OrderStatusCancelled,
	})

	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_TRANSITION", body.Error.Code)
	assert.Equal(t, "delivered", body.Error.Details["current_status"])
	assert.Equal(t, "cancelled", body.Error.Details["requested_status"])
}

func TestRespondDomainError_InvalidStatus(t *testing.T) {
	status, body := performErrorRequest(t, &domain.InvalidStatusError{Status: "refunded"})

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_STATUS", body.Error.Code)
	assert.Equal(t, "refunded", body.Error.Details["status"])
}

func TestRespondDomainError_UnknownErrorHidesDetail(t *testing.T) {
	status, body := performErrorRequest(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "pq:")
}

func TestRequireUser(t *testing.T) {
	app := fiber.New()
	app.Get("/me", RequireUser, func(c *fiber.Ctx) error {
		return httpapi.SuccessResponse(c, "ok", fiber.Map{
			"user_id": currentUserID(c).String(),
			"actor":   string(currentActor(c)),
		})
	})

	t.Run("missing header", func(t *testing.T) {
		response, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("malformed user id", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/me", nil)
		request.Header.Set(headerUserID, "not-a-uuid")
		response, err := app.Test(request)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("valid identity", func(t *testing.T) {
		userID := uuid.New()
		request := httptest.NewRequest(http.MethodGet, "/me", nil)
		request.Header.Set(headerUserID, userID.String())
		response, err := app.Test(request)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)

		var body httpapi.APIResponse
		require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
		data := body.Data.(map[string]interface{})
		assert.Equal(t, userID.String(), data["user_id"])
		assert.Equal(t, "user", data["actor"])
	})
}

func TestRequireAdmin(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", RequireAdmin, func(c *fiber.Ctx) error {
		return httpapi.SuccessResponse(c, "ok", nil)
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/admin", nil)
		request.Header.Set(headerUserID, uuid.New().String())
		response, err := app.Test(request)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, response.StatusCode)
	})

	t.Run("admin allowed", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/admin", nil)
		request.Header.Set(headerUserID, uuid.New().String())
		request.Header.Set(headerUserRole, "admin")
		response, err := app.Test(request)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
	})
}
