package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/grocery-saga/order-service/internal/domain"
	"github.com/grocery-saga/order-service/internal/httpapi"
)

// Identity is an external collaborator: the gateway in front of this
// service authenticates the caller and forwards a stable user id and role.
// The core trusts these headers as given.
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	localUserID = "user_id"
	localActor  = "actor"
)

func identityFrom(c *fiber.Ctx) (uuid.UUID, domain.Actor, error) {
	userID, err := uuid.Parse(c.Get(headerUserID))
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("missing or invalid user identity")
	}

	actor := domain.ActorUser
	if c.Get(headerUserRole) == "admin" {
		actor = domain.ActorAdmin
	}
	return userID, actor, nil
}

func RequireUser(c *fiber.Ctx) error {
	userID, actor, err := identityFrom(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	c.Locals(localUserID, userID)
	c.Locals(localActor, actor)
	return c.Next()
}

func RequireAdmin(c *fiber.Ctx) error {
	userID, actor, err := identityFrom(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}
	if actor != domain.ActorAdmin {
		return httpapi.ForbiddenResponse(c, "admin role required")
	}

	c.Locals(localUserID, userID)
	c.Locals(localActor, actor)
	return c.Next()
}

func currentUserID(c *fiber.Ctx) uuid.UUID {
	userID, _ := c.Locals(localUserID).(uuid.UUID)
	return userID
}

func currentActor(c *fiber.Ctx) domain.Actor {
	actor, ok := c.Locals(localActor).(domain.Actor)
	if !ok {
		return domain.ActorUser
	}
	return actor
}
