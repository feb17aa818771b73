package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/newsroom/internal/api/dto"
	"github.com/spec-kit/newsroom/internal/auth"
	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/service"
)

// SubscriptionsHandler lets readers follow publishers and journalists.
type SubscriptionsHandler struct {
	service *service.SubscriptionService
}

// NewSubscriptionsHandler constructs handler.
func NewSubscriptionsHandler(subscriptionService *service.SubscriptionService) *SubscriptionsHandler {
	return &SubscriptionsHandler{service: subscriptionService}
}

// List GET /api/subscriptions.
func (h *SubscriptionsHandler) List(c *fiber.Ctx) error {
	subs, err := h.service.List(c.UserContext(), auth.UserFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubscriptionsResponse(subs)})
}

// Follow returns a handler for POST /api/subscriptions/{kind}s/:id.
func (h *SubscriptionsHandler) Follow(kind domain.SubscriptionKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subs, err := h.service.Follow(c.UserContext(), auth.UserFromContext(c), kind, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": dto.NewSubscriptionsResponse(subs)})
	}
}

// Unfollow returns a handler for DELETE /api/subscriptions/{kind}s/:id.
func (h *SubscriptionsHandler) Unfollow(kind domain.SubscriptionKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subs, err := h.service.Unfollow(c.UserContext(), auth.UserFromContext(c), kind, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": dto.NewSubscriptionsResponse(subs)})
	}
}
