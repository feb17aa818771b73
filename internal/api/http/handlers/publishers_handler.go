package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/newsroom/internal/api/dto"
	"github.com/spec-kit/newsroom/internal/auth"
	"github.com/spec-kit/newsroom/internal/service"
	apperrors "github.com/spec-kit/newsroom/pkg/util"
)

// PublishersHandler manages publishers and rosters.
type PublishersHandler struct {
	service *service.PublisherService
}

// NewPublishersHandler constructs handler.
func NewPublishersHandler(publisherService *service.PublisherService) *PublishersHandler {
	return &PublishersHandler{service: publisherService}
}

// List GET /api/publishers.
func (h *PublishersHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	publishers, err := h.service.ListPublishers(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.PublisherSummary, 0, len(publishers))
	for _, p := range publishers {
		items = append(items, dto.NewPublisherSummary(p))
	}
	return c.JSON(fiber.Map{"data": items, "page": pageMeta(limit, offset, len(items))})
}

// Get GET /api/publishers/:id.
func (h *PublishersHandler) Get(c *fiber.Ctx) error {
	detail, err := h.service.GetPublisher(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPublisherDetail(detail.Publisher, detail.Members)})
}

// Create POST /api/publishers.
func (h *PublishersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePublisherRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	detail, err := h.service.CreatePublisher(c.UserContext(), auth.UserFromContext(c), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewPublisherDetail(detail.Publisher, detail.Members)})
}

// Delete DELETE /api/publishers/:id.
func (h *PublishersHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeletePublisher(c.UserContext(), auth.UserFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddMember POST /api/publishers/:id/members.
func (h *PublishersHandler) AddMember(c *fiber.Ctx) error {
	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return apperrors.NewFieldError("user_id", "user_id is required")
	}
	detail, err := h.service.AddMember(c.UserContext(), auth.UserFromContext(c), c.Params("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPublisherDetail(detail.Publisher, detail.Members)})
}

// RemoveMember DELETE /api/publishers/:id/members/:userId.
func (h *PublishersHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.service.RemoveMember(c.UserContext(), auth.UserFromContext(c), c.Params("id"), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
