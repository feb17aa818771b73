package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/newsroom/internal/api/dto"
	"github.com/spec-kit/newsroom/internal/auth"
	"github.com/spec-kit/newsroom/internal/service"
	apperrors "github.com/spec-kit/newsroom/pkg/util"
)

// NewslettersHandler serves journalists' newsletters.
type NewslettersHandler struct {
	service *service.NewsletterService
}

// NewNewslettersHandler constructs handler.
func NewNewslettersHandler(newsletterService *service.NewsletterService) *NewslettersHandler {
	return &NewslettersHandler{service: newsletterService}
}

// Create POST /api/newsletters.
func (h *NewslettersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateNewsletterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	newsletter, err := h.service.CreateNewsletter(c.UserContext(), auth.UserFromContext(c), req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewNewsletterResponse(newsletter)})
}

// ListOwn GET /api/newsletters.
func (h *NewslettersHandler) ListOwn(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	newsletters, err := h.service.ListOwn(c.UserContext(), auth.UserFromContext(c), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.NewsletterResponse, 0, len(newsletters))
	for i := range newsletters {
		items = append(items, dto.NewNewsletterResponse(&newsletters[i]))
	}
	return c.JSON(fiber.Map{"data": items, "page": pageMeta(limit, offset, len(items))})
}
