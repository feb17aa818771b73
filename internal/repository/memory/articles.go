package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/spec-kit/newsroom/internal/domain"
	"github.com/spec-kit/newsroom/internal/repository"
)

type articleRepository struct {
	s *Store
}

func (r *articleRepository) Create(_ context.Context, article *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	now := r.s.now()
	article.CreatedAt = now
	article.UpdatedAt = now
	r.s.articles[article.ID] = storedArticle{Article: cloneArticle(*article), seq: r.s.nextSeq()}
	return nil
}

func (r *articleRepository) Update(_ context.Context, article *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.articles[article.ID]
	if !ok {
		return repository.ErrNotFound
	}
	article.CreatedAt = stored.CreatedAt
	article.UpdatedAt = r.s.now()
	stored.Article = cloneArticle(*article)
	r.s.articles[article.ID] = stored
	return nil
}

func (r *articleRepository) GetByID(_ context.Context, id string) (*domain.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	article := cloneArticle(stored.Article)
	return &article, nil
}

func (r *articleRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.articles, id)
	return nil
}

func (r *articleRepository) ListWithFilter(_ context.Context, filter repository.ArticleFilter) ([]domain.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]storedArticle, 0, len(r.s.articles))
	for _, stored := range r.s.articles {
		if r.matches(stored.Article, filter) {
			matched = append(matched, stored)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].seq > matched[j].seq
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	result := make([]domain.Article, 0, len(matched))
	for _, stored := range page(matched, filter.Limit, filter.Offset) {
		result = append(result, cloneArticle(stored.Article))
	}
	return result, nil
}

// matches must be called with the read lock held.
func (r *articleRepository) matches(a domain.Article, f repository.ArticleFilter) bool {
	if f.JournalistID != nil && (a.JournalistID == nil || *a.JournalistID != *f.JournalistID) {
		return false
	}
	if f.PublisherID != nil && !a.BelongsTo(*f.PublisherID) {
		return false
	}
	if f.Approved != nil && a.Approved != *f.Approved {
		return false
	}
	if f.Published != nil && a.Published != *f.Published {
		return false
	}
	if f.SubscriberID != nil {
		followsPublisher := false
		if a.PublisherID != nil {
			_, followsPublisher = r.s.pubSubs[*f.SubscriberID][*a.PublisherID]
		}
		followsJournalist := false
		if a.JournalistID != nil {
			_, followsJournalist = r.s.journSubs[*f.SubscriberID][*a.JournalistID]
		}
		if !followsPublisher && !followsJournalist {
			return false
		}
	}
	return true
}
