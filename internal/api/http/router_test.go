package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/newsroom/internal/api/http/handlers"
	"github.com/spec-kit/newsroom/internal/auth"
	"github.com/spec-kit/newsroom/internal/config"
	"github.com/spec-kit/newsroom/internal/events"
	"github.com/spec-kit/newsroom/internal/notify"
	"github.com/spec-kit/newsroom/internal/observability"
	"github.com/spec-kit/newsroom/internal/repository/memory"
	"github.com/spec-kit/newsroom/internal/service"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (m *captureMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type testServer struct {
	app    *fiber.App
	mailer *captureMailer
}

type serverOptions struct {
	loginBurst int
	deps       map[string]handlers.Pinger
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	cfg := config.Config{
		App:          config.AppConfig{Name: "newsroom-test", Version: "test"},
		Auth:         config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 30, BcryptCost: 4},
		Notification: config.NotificationConfig{EmailFrom: "desk@example.com"},
	}
	logger := zap.NewNop()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(logger)
	mailer := &captureMailer{}

	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: store.Users(), Logger: logger})
	articleService := service.NewArticleService(service.ArticleDependencies{
		ArticleRepo:   store.Articles(),
		PublisherRepo: store.Publishers(),
		UserRepo:      store.Users(),
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	publisherService := service.NewPublisherService(service.PublisherDependencies{
		PublisherRepo: store.Publishers(),
		UserRepo:      store.Users(),
		Logger:        logger,
	})
	subscriptionService := service.NewSubscriptionService(service.SubscriptionDependencies{
		SubscriptionRepo: store.Subscriptions(),
		PublisherRepo:    store.Publishers(),
		UserRepo:         store.Users(),
	})
	service.NewNotificationService(dispatcher, mailer, logger, cfg.Notification).RegisterHandlers()

	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)

	var limiter *RateLimiter
	if opts.loginBurst > 0 {
		limiter = NewRateLimiter(0.001, opts.loginBurst)
	}
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, opts.deps, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Articles:       handlers.NewArticlesHandler(articleService),
		Publishers:     handlers.NewPublishersHandler(publisherService),
		Subscriptions:  handlers.NewSubscriptionsHandler(subscriptionService),
		Newsletters:    handlers.NewNewslettersHandler(service.NewNewsletterService(store.Newsletters())),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), store.Users(), authService.RevocationStore()),
		LoginLimiter:   limiter,
	})
	return &testServer{app: app, mailer: mailer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// register creates an account and returns its token and user id.
func (s *testServer) register(t *testing.T, username, role string) (string, string) {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse",
		"role":     role,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	return data["token"].(string), user["id"].(string)
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, body)
	return data
}

func listOf(t *testing.T, body map[string]any) []any {
	t.Helper()
	items, ok := body["data"].([]any)
	require.True(t, ok, body)
	return items
}

func errorCode(body map[string]any) string {
	errBody, ok := body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := errBody["code"].(string)
	return code
}

func TestIndependentArticleLifecycle(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	journalist, _ := srv.register(t, "jane", "journalist")
	editor, _ := srv.register(t, "eddie", "editor")
	reader, _ := srv.register(t, "rita", "reader")

	status, body := srv.do(t, fiber.MethodPost, "/api/articles", journalist, map[string]any{
		"title":   "Harbour reopens",
		"content": "Boats are back.",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	article := dataOf(t, body)
	id := article["id"].(string)
	assert.Equal(t, "DRAFT", article["state"])
	assert.Equal(t, true, article["is_draft"])

	status, body = srv.do(t, fiber.MethodGet, "/api/articles/"+id, reader, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = srv.do(t, fiber.MethodPost, "/api/articles/"+id+"/publish", journalist, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "STATE_CONFLICT", errorCode(body))

	status, body = srv.do(t, fiber.MethodPost, "/api/articles/"+id+"/approve", editor, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, false, dataOf(t, body)["unchanged"])
	assert.Equal(t, 1, srv.mailer.count())

	status, body = srv.do(t, fiber.MethodPost, "/api/articles/"+id+"/approve", editor, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, true, dataOf(t, body)["unchanged"])
	assert.Equal(t, 1, srv.mailer.count())

	status, body = srv.do(t, fiber.MethodPost, "/api/articles/"+id+"/publish", journalist, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	published := dataOf(t, body)["article"].(map[string]any)
	assert.Equal(t, "PUBLISHED", published["state"])
	assert.NotNil(t, published["published_at"])

	status, body = srv.do(t, fiber.MethodGet, "/api/articles", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, listOf(t, body), 1)

	status, body = srv.do(t, fiber.MethodGet, "/api/articles/"+id, "", nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "Harbour reopens", dataOf(t, body)["title"])
}

func TestPublisherArticleRequiresMembership(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	owner, _ := srv.register(t, "olga", "publisher")
	journalist, journalistID := srv.register(t, "jules", "journalist")
	member, memberID := srv.register(t, "edna", "editor")
	outsider, _ := srv.register(t, "eddie", "editor")

	status, body := srv.do(t, fiber.MethodPost, "/api/publishers", owner, map[string]string{"name": "Gazette"})
	require.Equal(t, fiber.StatusCreated, status, body)
	gazette := dataOf(t, body)["id"].(string)

	for _, userID := range []string{journalistID, memberID} {
		status, body = srv.do(t, fiber.MethodPost, "/api/publishers/"+gazette+"/members", owner, map[string]string{"user_id": userID})
		require.Equal(t, fiber.StatusOK, status, body)
	}

	status, body = srv.do(t, fiber.MethodPost, "/api/articles", journalist, map[string]any{
		"title":        "Council votes",
		"content":      "Motion carried.",
		"publisher_id": gazette,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	id := dataOf(t, body)["id"].(string)

	status, body = srv.do(t, fiber.MethodPost, "/api/articles/"+id+"/approve", outsider, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, _ = srv.do(t, fiber.MethodPost, "/api/articles/"+id+"/approve", member, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = srv.do(t, fiber.MethodGet, "/api/queue/approved", owner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, listOf(t, body), 1)

	status, _ = srv.do(t, fiber.MethodPost, "/api/articles/"+id+"/publish", journalist, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = srv.do(t, fiber.MethodPost, "/api/articles/"+id+"/publish", owner, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = srv.do(t, fiber.MethodGet, "/api/publishers/"+gazette+"/articles", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, listOf(t, body), 1)

	status, body = srv.do(t, fiber.MethodDelete, "/api/publishers/"+gazette, owner, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))
}

func TestErrorRendering(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	journalist, _ := srv.register(t, "jane", "journalist")
	editor, _ := srv.register(t, "eddie", "editor")
	reader, _ := srv.register(t, "rita", "reader")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
		wantCode   string
	}{
		{name: "unknown route", method: fiber.MethodGet, path: "/nope", wantStatus: fiber.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "create without token", method: fiber.MethodPost, path: "/api/articles", body: map[string]string{"title": "Valid title"}, wantStatus: fiber.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "reader creates", method: fiber.MethodPost, path: "/api/articles", token: reader, body: map[string]string{"title": "Valid title"}, wantStatus: fiber.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "short title", method: fiber.MethodPost, path: "/api/articles", token: journalist, body: map[string]string{"title": "abc"}, wantStatus: fiber.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "unknown publisher", method: fiber.MethodPost, path: "/api/articles", token: journalist, body: map[string]any{"title": "Valid title", "publisher_id": "missing"}, wantStatus: fiber.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "missing article", method: fiber.MethodPost, path: "/api/articles/missing/approve", token: editor, wantStatus: fiber.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "editor drafts", method: fiber.MethodGet, path: "/api/drafts", token: editor, wantStatus: fiber.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "journalist pending", method: fiber.MethodGet, path: "/api/queue/pending", token: journalist, wantStatus: fiber.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "editor follows", method: fiber.MethodGet, path: "/api/subscriptions", token: editor, wantStatus: fiber.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "reader newsletter", method: fiber.MethodPost, path: "/api/newsletters", token: reader, body: map[string]string{"title": "Weekly"}, wantStatus: fiber.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "unknown role", method: fiber.MethodPost, path: "/auth/register", body: map[string]string{"username": "bob", "email": "bob@example.com", "password": "correct-horse", "role": "admin"}, wantStatus: fiber.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "bad credentials", method: fiber.MethodPost, path: "/auth/login", body: map[string]string{"username": "jane", "password": "wrong-password"}, wantStatus: fiber.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := srv.do(t, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.wantStatus, status, body)
			assert.Equal(t, tc.wantCode, errorCode(body))
		})
	}

	t.Run("validation details name the field", func(t *testing.T) {
		_, body := srv.do(t, fiber.MethodPost, "/api/articles", journalist, map[string]string{"title": "abc"})
		details := body["error"].(map[string]any)["details"].(map[string]any)
		assert.Contains(t, details, "title")
	})
}

func TestDashboardFollowsRole(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	journalist, _ := srv.register(t, "jane", "journalist")
	editor, _ := srv.register(t, "eddie", "editor")

	status, _ := srv.do(t, fiber.MethodPost, "/api/articles", journalist, map[string]string{"title": "Harbour reopens"})
	require.Equal(t, fiber.StatusCreated, status)

	tests := []struct {
		name       string
		token      string
		wantFilter string
		wantCount  int
	}{
		{name: "journalist sees drafts", token: journalist, wantFilter: "mine", wantCount: 1},
		{name: "editor sees pending", token: editor, wantFilter: "pending", wantCount: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := srv.do(t, fiber.MethodGet, "/api/dashboard", tc.token, nil)
			require.Equal(t, fiber.StatusOK, status, body)
			assert.Equal(t, tc.wantFilter, body["filter"])
			assert.Len(t, listOf(t, body), tc.wantCount)
		})
	}
}

func TestReaderFeedAndSubscriptions(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	journalist, journalistID := srv.register(t, "jane", "journalist")
	editor, _ := srv.register(t, "eddie", "editor")
	reader, _ := srv.register(t, "rita", "reader")

	status, body := srv.do(t, fiber.MethodPost, "/api/articles", journalist, map[string]string{"title": "Harbour reopens"})
	require.Equal(t, fiber.StatusCreated, status)
	id := dataOf(t, body)["id"].(string)
	srv.do(t, fiber.MethodPost, "/api/articles/"+id+"/approve", editor, nil)
	srv.do(t, fiber.MethodPost, "/api/articles/"+id+"/publish", journalist, nil)

	status, body = srv.do(t, fiber.MethodGet, "/api/feed", reader, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Empty(t, listOf(t, body))

	status, body = srv.do(t, fiber.MethodPost, "/api/subscriptions/journalists/"+journalistID, reader, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, []any{journalistID}, dataOf(t, body)["journalist_ids"])

	status, body = srv.do(t, fiber.MethodGet, "/api/feed", reader, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, listOf(t, body), 1)

	status, body = srv.do(t, fiber.MethodDelete, "/api/subscriptions/journalists/"+journalistID, reader, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, dataOf(t, body)["journalist_ids"])
}

func TestNewsletters(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	journalist, _ := srv.register(t, "jane", "journalist")

	status, body := srv.do(t, fiber.MethodPost, "/api/newsletters", journalist, map[string]string{
		"title":   "Weekly roundup",
		"content": "Everything that happened.",
	})
	require.Equal(t, fiber.StatusCreated, status, body)

	status, body = srv.do(t, fiber.MethodGet, "/api/newsletters", journalist, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, listOf(t, body), 1)
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	token, _ := srv.register(t, "jane", "journalist")

	status, body := srv.do(t, fiber.MethodGet, "/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "jane", dataOf(t, body)["username"])

	status, _ = srv.do(t, fiber.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	status, body = srv.do(t, fiber.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestAccountDeletion(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	journalist, _ := srv.register(t, "jane", "journalist")
	reader, _ := srv.register(t, "rita", "reader")

	status, _ := srv.do(t, fiber.MethodPost, "/api/articles", journalist, map[string]string{"title": "Harbour reopens"})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := srv.do(t, fiber.MethodDelete, "/auth/account", journalist, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, _ = srv.do(t, fiber.MethodDelete, "/auth/account", reader, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	status, _ = srv.do(t, fiber.MethodPost, "/auth/login", "", map[string]string{"username": "rita", "password": "correct-horse"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginIsRateLimited(t *testing.T) {
	srv := newTestServer(t, serverOptions{loginBurst: 2})
	srv.register(t, "jane", "journalist")
	creds := map[string]string{"username": "jane", "password": "correct-horse"}

	for i := 0; i < 2; i++ {
		status, body := srv.do(t, fiber.MethodPost, "/auth/login", "", creds)
		require.Equal(t, fiber.StatusOK, status, body)
	}
	status, body := srv.do(t, fiber.MethodPost, "/auth/login", "", creds)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", errorCode(body))
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("disabled dependencies are ready", func(t *testing.T) {
		srv := newTestServer(t, serverOptions{deps: map[string]handlers.Pinger{"postgres": nil}})
		status, body := srv.do(t, fiber.MethodGet, "/health/ready", "", nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "disabled", body["dependencies"].(map[string]any)["postgres"])
	})

	t.Run("failing dependency", func(t *testing.T) {
		srv := newTestServer(t, serverOptions{deps: map[string]handlers.Pinger{"redis": failingPinger{}}})
		status, body := srv.do(t, fiber.MethodGet, "/health/ready", "", nil)
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))
	})

	t.Run("metrics count requests", func(t *testing.T) {
		srv := newTestServer(t, serverOptions{})
		srv.do(t, fiber.MethodGet, "/health/live", "", nil)
		status, body := srv.do(t, fiber.MethodGet, "/health/metrics", "", nil)
		require.Equal(t, fiber.StatusOK, status)
		requests := dataOf(t, body)["requests"].(map[string]any)
		assert.Equal(t, float64(1), requests["GET /health/live|200"])
	})
}
