package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/newsroom/internal/config"
	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/events"
	"github.com/spec-kit/newsroom/internal/notify"
	"github.com/spec-kit/newsroom/internal/repository"
	"github.com/spec-kit/newsroom/internal/repository/memory"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type newsroom struct {
	store         *memory.Store
	mailer        *recordingMailer
	articles      *ArticleService
	publishers    *PublisherService
	subscriptions *SubscriptionService
	newsletters   *NewsletterService

	journalist *domain.User // independent, no publisher
	member     *domain.User // journalist in the gazette
	editor     *domain.User // editor outside the gazette
	staff      *domain.User // editor in the gazette
	owner      *domain.User // publisher-role member of the gazette
	outsider   *domain.User // publisher-role, not in the gazette
	reader     *domain.User
	gazette    string
}

func newNewsroom(t *testing.T) *newsroom {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	mailer := &recordingMailer{}
	NewNotificationService(dispatcher, mailer, zap.NewNop(), config.NotificationConfig{EmailFrom: "admin@news.com"}).RegisterHandlers()

	n := &newsroom{
		store:  store,
		mailer: mailer,
		articles: NewArticleService(ArticleDependencies{
			ArticleRepo:   store.Articles(),
			PublisherRepo: store.Publishers(),
			UserRepo:      store.Users(),
			Dispatcher:    dispatcher,
		}),
		publishers: NewPublisherService(PublisherDependencies{
			PublisherRepo: store.Publishers(),
			UserRepo:      store.Users(),
		}),
		subscriptions: NewSubscriptionService(SubscriptionDependencies{
			SubscriptionRepo: store.Subscriptions(),
			PublisherRepo:    store.Publishers(),
			UserRepo:         store.Users(),
		}),
		newsletters: NewNewsletterService(store.Newsletters()),
	}

	mk := func(name string, role domain.Role) *domain.User {
		u := &domain.User{Username: name, Email: name + "@example.com", Role: role}
		require.NoError(t, store.Users().Create(ctx, u))
		return u
	}
	n.journalist = mk("jane", domain.RoleJournalist)
	n.member = mk("jules", domain.RoleJournalist)
	n.editor = mk("eddie", domain.RoleEditor)
	n.staff = mk("edna", domain.RoleEditor)
	n.owner = mk("olga", domain.RolePublisher)
	n.outsider = mk("otto", domain.RolePublisher)
	n.reader = mk("rita", domain.RoleReader)

	detail, err := n.publishers.CreatePublisher(ctx, n.owner, "The Gazette")
	require.NoError(t, err)
	n.gazette = detail.Publisher.ID
	_, err = n.publishers.AddMember(ctx, n.owner, n.gazette, n.member.ID)
	require.NoError(t, err)
	_, err = n.publishers.AddMember(ctx, n.owner, n.gazette, n.staff.ID)
	require.NoError(t, err)
	return n
}

func (n *newsroom) draft(t *testing.T, author *domain.User, title string, publisherID *string) *domain.Article {
	t.Helper()
	article, err := n.articles.CreateArticle(context.Background(), author, ArticleCreateInput{
		Title:       title,
		Content:     "body of " + title,
		PublisherID: publisherID,
	})
	require.NoError(t, err)
	return article
}

func (n *newsroom) approved(t *testing.T, author *domain.User, title string, publisherID *string, approver *domain.User) *domain.Article {
	t.Helper()
	article := n.draft(t, author, title, publisherID)
	approvedArticle, _, err := n.articles.ApproveArticle(context.Background(), approver, article.ID)
	require.NoError(t, err)
	return approvedArticle
}

func (n *newsroom) published(t *testing.T, author *domain.User, title string, publisherID *string, approver, publisher *domain.User) *domain.Article {
	t.Helper()
	article := n.approved(t, author, title, publisherID, approver)
	publishedArticle, _, err := n.articles.PublishArticle(context.Background(), publisher, article.ID)
	require.NoError(t, err)
	return publishedArticle
}

func (n *newsroom) assertPublishedImpliesApproved(t *testing.T) {
	t.Helper()
	all, err := n.store.Articles().ListWithFilter(context.Background(), articleFilterAll())
	require.NoError(t, err)
	for _, a := range all {
		if a.Published {
			require.True(t, a.Approved, "article %s published without approval", a.ID)
		}
	}
}

func articleFilterAll() repository.ArticleFilter {
	return repository.ArticleFilter{Limit: 100}
}

func ptr(s string) *string { return &s }

var errRelayDown = errors.New("relay down")
