package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/events"
	"github.com/spec-kit/newsroom/internal/repository"
	apperrors "github.com/spec-kit/newsroom/pkg/util"
)

// ArticleFilterKind selects one of the visibility rules for listings.
type ArticleFilterKind string

const (
	FilterAll                 ArticleFilterKind = "all"
	FilterMine                ArticleFilterKind = "mine"
	FilterPending             ArticleFilterKind = "pending"
	FilterApprovedUnpublished ArticleFilterKind = "approvedUnpublished"
	FilterByPublisher         ArticleFilterKind = "byPublisher"
	FilterSubscribed          ArticleFilterKind = "subscribed"
)

// ArticleQuery is a listing request. PublisherID is only read by FilterByPublisher.
type ArticleQuery struct {
	Filter      ArticleFilterKind
	PublisherID string
	Limit       int
	Offset      int
}

// ArticleCreateInput describes a new draft.
type ArticleCreateInput struct {
	Title       string
	Content     string
	PublisherID *string
}

// ArticleEditInput is a partial update. Nil fields are left untouched.
// ClearPublisher detaches the article from its publisher and wins over PublisherID.
type ArticleEditInput struct {
	Title          *string
	Content        *string
	PublisherID    *string
	ClearPublisher bool
}

// Dashboard is the default listing for a role.
type Dashboard struct {
	Role     domain.Role
	Filter   ArticleFilterKind
	Articles []domain.Article
}

// ArticleService owns the article lifecycle and its visibility rules.
type ArticleService struct {
	articles   repository.ArticleRepository
	publishers repository.PublisherRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// ArticleDependencies bundles collaborators.
type ArticleDependencies struct {
	ArticleRepo   repository.ArticleRepository
	PublisherRepo repository.PublisherRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewArticleService constructs the service.
func NewArticleService(deps ArticleDependencies) *ArticleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleService{
		articles:   deps.ArticleRepo,
		publishers: deps.PublisherRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateArticle stores a new draft owned by the acting journalist.
func (s *ArticleService) CreateArticle(ctx context.Context, actor *domain.User, input ArticleCreateInput) (*domain.Article, error) {
	if err := requireCapability(actor, domain.CapCreateArticle); err != nil {
		return nil, err
	}
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePublisher(ctx, input.PublisherID); err != nil {
		return nil, err
	}

	journalistID := actor.ID
	article := &domain.Article{
		Title:        title,
		Content:      strings.TrimSpace(input.Content),
		JournalistID: &journalistID,
		PublisherID:  input.PublisherID,
		IsDraft:      true,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		publisherID := ""
		if input.PublisherID != nil {
			publisherID = *input.PublisherID
		}
		return nil, translateWriteErr(err, "publisher", publisherID)
	}

	s.logger.Info("article created",
		zap.String("article_id", article.ID),
		zap.String("journalist_id", actor.ID))
	s.publishEvent(ctx, actor, article.ID, events.EventArticleCreated, events.ArticleCreatedPayload{
		Title:        article.Title,
		JournalistID: article.JournalistID,
		PublisherID:  article.PublisherID,
	})
	return article, nil
}

// EditArticle changes content fields. Approval flags are never touched.
func (s *ArticleService) EditArticle(ctx context.Context, actor *domain.User, articleID string, input ArticleEditInput) (*domain.Article, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	article, err := s.loadArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !article.AuthoredBy(actor) && !actor.Role.Can(domain.CapEditAnyArticle) {
		return nil, apperrors.NewForbidden("only the author or an editor may edit this article")
	}

	if article.Approved && changesPublisher(article, input) {
		return nil, apperrors.NewStateConflict("an approved article cannot change publisher", map[string]any{
			"article_id": articleID,
			"state":      string(article.State()),
		})
	}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		article.Title = title
	}
	if input.Content != nil {
		article.Content = strings.TrimSpace(*input.Content)
	}
	switch {
	case input.ClearPublisher:
		article.PublisherID = nil
	case input.PublisherID != nil:
		if err := s.ensurePublisher(ctx, input.PublisherID); err != nil {
			return nil, err
		}
		publisherID := *input.PublisherID
		article.PublisherID = &publisherID
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, translateRepoErr(err, "article", articleID)
	}
	s.publishEvent(ctx, actor, article.ID, events.EventArticleUpdated, events.ArticleUpdatedPayload{
		Title:       article.Title,
		PublisherID: article.PublisherID,
	})
	return article, nil
}

// DeleteArticle removes an article in any state.
func (s *ArticleService) DeleteArticle(ctx context.Context, actor *domain.User, articleID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	article, err := s.loadArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if !article.AuthoredBy(actor) && !actor.Role.Can(domain.CapDeleteAnyArticle) {
		return apperrors.NewForbidden("only the author or an editor may delete this article")
	}
	if err := s.articles.Delete(ctx, articleID); err != nil {
		return translateRepoErr(err, "article", articleID)
	}

	s.logger.Info("article deleted",
		zap.String("article_id", articleID),
		zap.String("actor_id", actor.ID),
		zap.String("last_state", string(article.State())))
	s.publishEvent(ctx, actor, articleID, events.EventArticleDeleted, events.ArticleDeletedPayload{
		Title:     article.Title,
		LastState: article.State(),
	})
	return nil
}

// ApproveArticle moves a draft to APPROVED. Approving an already approved
// article returns it unchanged with alreadyApproved set and sends nothing.
func (s *ArticleService) ApproveArticle(ctx context.Context, actor *domain.User, articleID string) (*domain.Article, bool, error) {
	if err := requireCapability(actor, domain.CapApproveArticle); err != nil {
		return nil, false, err
	}
	article, err := s.loadArticle(ctx, articleID)
	if err != nil {
		return nil, false, err
	}
	if err := s.requireMembership(ctx, actor, article); err != nil {
		return nil, false, err
	}
	if article.Approved {
		return article, true, nil
	}

	article.Approved = true
	article.IsDraft = false
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, false, translateRepoErr(err, "article", articleID)
	}

	s.logger.Info("article approved",
		zap.String("article_id", article.ID),
		zap.String("editor_id", actor.ID))
	s.publishEvent(ctx, actor, article.ID, events.EventArticleApproved, events.ArticleApprovedPayload{
		Title:           article.Title,
		JournalistID:    article.JournalistID,
		JournalistEmail: s.journalistEmail(ctx, article),
		PublisherID:     article.PublisherID,
	})
	return article, false, nil
}

// PublishArticle moves an approved article to PUBLISHED. Publishing an
// already published article is a no-op that keeps the original published_at.
func (s *ArticleService) PublishArticle(ctx context.Context, actor *domain.User, articleID string) (*domain.Article, bool, error) {
	if err := requireActor(actor); err != nil {
		return nil, false, err
	}
	article, err := s.loadArticle(ctx, articleID)
	if err != nil {
		return nil, false, err
	}
	if article.IsIndependent() {
		if !article.AuthoredBy(actor) {
			return nil, false, apperrors.NewForbidden("only the author may publish an independent article")
		}
	} else {
		if !actor.Role.Can(domain.CapPublishMemberArticle) {
			return nil, false, apperrors.NewForbidden("role " + string(actor.Role) + " may not publish publisher articles")
		}
		if err := s.requireMembership(ctx, actor, article); err != nil {
			return nil, false, err
		}
	}
	if article.Published {
		return article, true, nil
	}
	if !article.Approved {
		return nil, false, apperrors.NewStateConflict("article must be approved before publishing", map[string]any{
			"article_id": articleID,
			"state":      string(article.State()),
		})
	}

	publishedAt := s.now().UTC()
	article.Published = true
	article.IsDraft = false
	article.PublishedAt = &publishedAt
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, false, translateRepoErr(err, "article", articleID)
	}

	s.logger.Info("article published",
		zap.String("article_id", article.ID),
		zap.String("actor_id", actor.ID))
	s.publishEvent(ctx, actor, article.ID, events.EventArticlePublished, events.ArticlePublishedPayload{
		Title:       article.Title,
		PublisherID: article.PublisherID,
		PublishedAt: publishedAt,
	})
	return article, false, nil
}

// GetArticle fetches one article. Readers and anonymous callers only see
// published articles.
func (s *ArticleService) GetArticle(ctx context.Context, actor *domain.User, articleID string) (*domain.Article, error) {
	article, err := s.loadArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if (actor == nil || actor.Role == domain.RoleReader) && !article.Published {
		return nil, apperrors.NewForbidden("article is not published")
	}
	return article, nil
}

// ListVisibleArticles applies one visibility rule. Results are newest first.
func (s *ArticleService) ListVisibleArticles(ctx context.Context, actor *domain.User, query ArticleQuery) ([]domain.Article, error) {
	filter := repository.ArticleFilter{Limit: query.Limit, Offset: query.Offset}

	switch query.Filter {
	case FilterAll, "":
		filter.Approved = ptrBool(true)
		filter.Published = ptrBool(true)
	case FilterMine:
		if err := requireCapability(actor, domain.CapListOwnDrafts); err != nil {
			return nil, err
		}
		filter.JournalistID = &actor.ID
		filter.Published = ptrBool(false)
	case FilterPending:
		// Not scoped to the editor's publishers: every unapproved article is listed.
		if err := requireCapability(actor, domain.CapListPending); err != nil {
			return nil, err
		}
		filter.Approved = ptrBool(false)
	case FilterApprovedUnpublished:
		if err := requireCapability(actor, domain.CapListApprovedUnpublished); err != nil {
			return nil, err
		}
		filter.Approved = ptrBool(true)
		filter.Published = ptrBool(false)
	case FilterByPublisher:
		if strings.TrimSpace(query.PublisherID) == "" {
			return nil, apperrors.NewFieldError("publisher_id", "publisher id is required")
		}
		publisherID := query.PublisherID
		if err := s.ensurePublisher(ctx, &publisherID); err != nil {
			return nil, err
		}
		filter.PublisherID = &publisherID
		filter.Approved = ptrBool(true)
		filter.Published = ptrBool(true)
	case FilterSubscribed:
		if err := requireCapability(actor, domain.CapSubscribe); err != nil {
			return nil, err
		}
		filter.SubscriberID = &actor.ID
		filter.Approved = ptrBool(true)
		filter.Published = ptrBool(true)
	default:
		return nil, apperrors.NewFieldError("filter", "unknown filter "+string(query.Filter))
	}

	articles, err := s.articles.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	return articles, nil
}

// Dashboard lists the role's default queue.
func (s *ArticleService) Dashboard(ctx context.Context, actor *domain.User, limit, offset int) (*Dashboard, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var filter ArticleFilterKind
	switch actor.Role {
	case domain.RoleJournalist:
		filter = FilterMine
	case domain.RoleEditor:
		filter = FilterPending
	case domain.RolePublisher:
		filter = FilterApprovedUnpublished
	case domain.RoleReader:
		filter = FilterAll
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}
	articles, err := s.ListVisibleArticles(ctx, actor, ArticleQuery{Filter: filter, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &Dashboard{Role: actor.Role, Filter: filter, Articles: articles}, nil
}

func (s *ArticleService) loadArticle(ctx context.Context, articleID string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, translateRepoErr(err, "article", articleID)
	}
	return article, nil
}

func (s *ArticleService) ensurePublisher(ctx context.Context, publisherID *string) error {
	if publisherID == nil {
		return nil
	}
	if _, err := s.publishers.GetByID(ctx, *publisherID); err != nil {
		return translateRepoErr(err, "publisher", *publisherID)
	}
	return nil
}

// requireMembership passes for independent articles.
func (s *ArticleService) requireMembership(ctx context.Context, actor *domain.User, article *domain.Article) error {
	if article.IsIndependent() {
		return nil
	}
	member, err := s.publishers.IsMember(ctx, *article.PublisherID, actor.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !member {
		return apperrors.NewForbidden("actor is not a member of the article's publisher")
	}
	return nil
}

func (s *ArticleService) journalistEmail(ctx context.Context, article *domain.Article) string {
	if article.JournalistID == nil || s.users == nil {
		return ""
	}
	journalist, err := s.users.GetByID(ctx, *article.JournalistID)
	if err != nil {
		s.logger.Warn("approval notice recipient lookup failed",
			zap.String("article_id", article.ID),
			zap.Error(err))
		return ""
	}
	return journalist.Email
}

func (s *ArticleService) publishEvent(ctx context.Context, actor *domain.User, articleID string, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ArticleID: articleID,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: s.now(),
		Payload:   payload,
	})
}

// changesPublisher reports whether input moves the article to a different
// publisher or detaches it from its current one.
func changesPublisher(article *domain.Article, input ArticleEditInput) bool {
	if input.ClearPublisher {
		return article.PublisherID != nil
	}
	if input.PublisherID == nil {
		return false
	}
	return !article.BelongsTo(*input.PublisherID)
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	switch length := utf8.RuneCountInString(title); {
	case length < domain.MinTitleLength:
		return "", apperrors.NewFieldError("title", "title must be at least 5 characters")
	case length > domain.MaxTitleLength:
		return "", apperrors.NewFieldError("title", "title must be at most 255 characters")
	}
	return title, nil
}
