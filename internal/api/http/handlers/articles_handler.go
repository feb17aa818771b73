package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/newsroom/internal/api/dto"
	"github.com/spec-kit/newsroom/internal/auth"
	"github.com/spec-kit/newsroom/internal/service"
	apperrors "github.com/spec-kit/newsroom/pkg/util"
)

// ArticlesHandler exposes the article workflow.
type ArticlesHandler struct {
	service *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{service: articleService}
}

// ListPublished GET /api/articles.
func (h *ArticlesHandler) ListPublished(c *fiber.Ctx) error {
	return h.list(c, service.FilterAll)
}

// ListDrafts GET /api/drafts.
func (h *ArticlesHandler) ListDrafts(c *fiber.Ctx) error {
	return h.list(c, service.FilterMine)
}

// ListPending GET /api/queue/pending.
func (h *ArticlesHandler) ListPending(c *fiber.Ctx) error {
	return h.list(c, service.FilterPending)
}

// ListApprovedUnpublished GET /api/queue/approved.
func (h *ArticlesHandler) ListApprovedUnpublished(c *fiber.Ctx) error {
	return h.list(c, service.FilterApprovedUnpublished)
}

// ListFeed GET /api/feed.
func (h *ArticlesHandler) ListFeed(c *fiber.Ctx) error {
	return h.list(c, service.FilterSubscribed)
}

// ListByPublisher GET /api/publishers/:id/articles.
func (h *ArticlesHandler) ListByPublisher(c *fiber.Ctx) error {
	return h.list(c, service.FilterByPublisher)
}

func (h *ArticlesHandler) list(c *fiber.Ctx, filter service.ArticleFilterKind) error {
	limit, offset := parsePage(c)
	articles, err := h.service.ListVisibleArticles(c.UserContext(), auth.UserFromContext(c), service.ArticleQuery{
		Filter:      filter,
		PublisherID: c.Params("id"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":   dto.NewArticleList(articles),
		"filter": filter,
		"page":   pageMeta(limit, offset, len(articles)),
	})
}

// Dashboard GET /api/dashboard.
func (h *ArticlesHandler) Dashboard(c *fiber.Ctx) error {
	limit, offset := parsePage(c)
	dashboard, err := h.service.Dashboard(c.UserContext(), auth.UserFromContext(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":   dto.NewArticleList(dashboard.Articles),
		"role":   dashboard.Role,
		"filter": dashboard.Filter,
		"page":   pageMeta(limit, offset, len(dashboard.Articles)),
	})
}

// Get GET /api/articles/:id.
func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	article, err := h.service.GetArticle(c.UserContext(), auth.UserFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Create POST /api/articles.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.CreateArticle(c.UserContext(), auth.UserFromContext(c), service.ArticleCreateInput{
		Title:       req.Title,
		Content:     req.Content,
		PublisherID: req.PublisherID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Edit PATCH /api/articles/:id.
func (h *ArticlesHandler) Edit(c *fiber.Ctx) error {
	var req dto.EditArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.EditArticle(c.UserContext(), auth.UserFromContext(c), c.Params("id"), service.ArticleEditInput{
		Title:          req.Title,
		Content:        req.Content,
		PublisherID:    req.PublisherID,
		ClearPublisher: req.ClearPublisher,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Delete DELETE /api/articles/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteArticle(c.UserContext(), auth.UserFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Approve POST /api/articles/:id/approve.
func (h *ArticlesHandler) Approve(c *fiber.Ctx) error {
	article, already, err := h.service.ApproveArticle(c.UserContext(), auth.UserFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	message := "article approved"
	if already {
		message = "article already approved"
	}
	return c.JSON(fiber.Map{
		"data":    dto.TransitionResponse{Article: dto.NewArticleResponse(article), Unchanged: already},
		"message": message,
	})
}

// Publish POST /api/articles/:id/publish.
func (h *ArticlesHandler) Publish(c *fiber.Ctx) error {
	article, already, err := h.service.PublishArticle(c.UserContext(), auth.UserFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	message := "article published"
	if already {
		message = "article already published"
	}
	return c.JSON(fiber.Map{
		"data":    dto.TransitionResponse{Article: dto.NewArticleResponse(article), Unchanged: already},
		"message": message,
	})
}
