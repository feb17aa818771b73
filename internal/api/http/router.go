package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/newsroom/internal/api/http/handlers"
	"github.com/spec-kit/newsroom/internal/auth"
	"github.com/spec-kit/newsroom/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Articles       *handlers.ArticlesHandler
	Publishers     *handlers.PublishersHandler
	Subscriptions  *handlers.SubscriptionsHandler
	Newsletters    *handlers.NewslettersHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   *RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	if cfg.LoginLimiter != nil {
		authGroup.Post("/login", cfg.LoginLimiter.Handler(), cfg.Users.Login)
	} else {
		authGroup.Post("/login", cfg.Users.Login)
	}
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)
	authGroup.Delete("/account", cfg.AuthMiddleware.Handle, cfg.Users.DeleteAccount)

	api := app.Group("/api")
	api.Get("/articles", cfg.Articles.ListPublished)
	api.Get("/articles/:id", cfg.AuthMiddleware.Optional, cfg.Articles.Get)
	api.Get("/publishers", cfg.Publishers.List)
	api.Get("/publishers/:id", cfg.Publishers.Get)
	api.Get("/publishers/:id/articles", cfg.Articles.ListByPublisher)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/dashboard", cfg.Articles.Dashboard)

	protected.Post("/articles", cfg.Articles.Create)
	protected.Patch("/articles/:id", cfg.Articles.Edit)
	protected.Delete("/articles/:id", cfg.Articles.Delete)
	protected.Post("/articles/:id/approve", cfg.Articles.Approve)
	protected.Post("/articles/:id/publish", cfg.Articles.Publish)

	protected.Get("/drafts", auth.RequireCapability(domain.CapListOwnDrafts), cfg.Articles.ListDrafts)
	protected.Get("/queue/pending", auth.RequireCapability(domain.CapListPending), cfg.Articles.ListPending)
	protected.Get("/queue/approved", auth.RequireCapability(domain.CapListApprovedUnpublished), cfg.Articles.ListApprovedUnpublished)
	protected.Get("/feed", cfg.Articles.ListFeed)

	protected.Post("/publishers", cfg.Publishers.Create)
	protected.Delete("/publishers/:id", cfg.Publishers.Delete)
	protected.Post("/publishers/:id/members", cfg.Publishers.AddMember)
	protected.Delete("/publishers/:id/members/:userId", cfg.Publishers.RemoveMember)

	subs := protected.Group("/subscriptions", auth.RequireRole(domain.RoleReader))
	subs.Get("", cfg.Subscriptions.List)
	subs.Post("/publishers/:id", cfg.Subscriptions.Follow(domain.SubscriptionPublisher))
	subs.Delete("/publishers/:id", cfg.Subscriptions.Unfollow(domain.SubscriptionPublisher))
	subs.Post("/journalists/:id", cfg.Subscriptions.Follow(domain.SubscriptionJournalist))
	subs.Delete("/journalists/:id", cfg.Subscriptions.Unfollow(domain.SubscriptionJournalist))

	newsletters := protected.Group("/newsletters", auth.RequireRole(domain.RoleJournalist))
	newsletters.Post("", cfg.Newsletters.Create)
	newsletters.Get("", cfg.Newsletters.ListOwn)
}
