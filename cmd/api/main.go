package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/newsroom/internal/api/http"
	"github.com/spec-kit/newsroom/internal/api/http/handlers"
	"github.com/spec-kit/newsroom/internal/auth"
	"github.com/spec-kit/newsroom/internal/config"
	"github.com/spec-kit/newsroom/internal/events"
	"github.com/spec-kit/newsroom/internal/messaging"
	"github.com/spec-kit/newsroom/internal/notify"
	"github.com/spec-kit/newsroom/internal/observability"
	"github.com/spec-kit/newsroom/internal/persistence"
	"github.com/spec-kit/newsroom/internal/repository"
	"github.com/spec-kit/newsroom/internal/repository/memory"
	"github.com/spec-kit/newsroom/internal/service"
	"github.com/spec-kit/newsroom/internal/worker"
)

type repositories struct {
	users         repository.UserRepository
	publishers    repository.PublisherRepository
	articles      repository.ArticleRepository
	newsletters   repository.NewsletterRepository
	subscriptions repository.SubscriptionRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, persistence.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}
	repos := buildRepositories(pg)

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var revocation auth.RevocationStore
	if redis.Reachable() {
		revocation = auth.NewRedisRevocationStore(redis.Client)
	} else {
		logger.Warn("token revocation kept in memory")
		revocation = auth.NewMemoryRevocationStore()
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	mailer := notify.NewMailer(cfg.Notification, logger)
	feed := messaging.NewEventPublisher(cfg.Kafka, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   repos.users,
		Revocation: revocation,
		Logger:     logger,
	})
	articleService := service.NewArticleService(service.ArticleDependencies{
		ArticleRepo:   repos.articles,
		PublisherRepo: repos.publishers,
		UserRepo:      repos.users,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	publisherService := service.NewPublisherService(service.PublisherDependencies{
		PublisherRepo: repos.publishers,
		UserRepo:      repos.users,
		Logger:        logger,
	})
	subscriptionService := service.NewSubscriptionService(service.SubscriptionDependencies{
		SubscriptionRepo: repos.subscriptions,
		PublisherRepo:    repos.publishers,
		UserRepo:         repos.users,
	})
	newsletterService := service.NewNewsletterService(repos.newsletters)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger, cfg.Notification)

	worker.StartNotificationWorker(dispatcher, notificationService, feed)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.users, authService.RevocationStore())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	deps := map[string]handlers.Pinger{"postgres": nil, "redis": nil}
	if pg.Enabled() {
		deps["postgres"] = pg
	}
	if redis.Reachable() {
		deps["redis"] = redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Articles:       handlers.NewArticlesHandler(articleService),
		Publishers:     handlers.NewPublishersHandler(publisherService),
		Subscriptions:  handlers.NewSubscriptionsHandler(subscriptionService),
		Newsletters:    handlers.NewNewslettersHandler(newsletterService),
		AuthMiddleware: authMiddleware,
		LoginLimiter:   httptransport.NewRateLimiter(cfg.Auth.LoginRatePerSecond, cfg.Auth.LoginBurst),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := feed.Close(); err != nil {
		logger.Warn("kafka writer close", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres) repositories {
	if pg.Enabled() {
		return repositories{
			users:         repository.NewUserRepository(pg.Pool),
			publishers:    repository.NewPublisherRepository(pg.Pool),
			articles:      repository.NewArticleRepository(pg.Pool),
			newsletters:   repository.NewNewsletterRepository(pg.Pool),
			subscriptions: repository.NewSubscriptionRepository(pg.Pool),
		}
	}
	store := memory.NewStore()
	return repositories{
		users:         store.Users(),
		publishers:    store.Publishers(),
		articles:      store.Articles(),
		newsletters:   store.Newsletters(),
		subscriptions: store.Subscriptions(),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
